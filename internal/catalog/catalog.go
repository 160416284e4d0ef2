package catalog

import "accidata/internal/domain"

// Catalog is a read-only ordered question list. Traversal order is the slice
// order; ids are assumed unique and ascending, gaps allowed.
type Catalog struct {
	questions []domain.Question
}

func New(questions []domain.Question) *Catalog {
	return &Catalog{questions: questions}
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at position idx and false when out of range.
func (c *Catalog) At(idx int) (domain.Question, bool) {
	if idx < 0 || idx >= len(c.questions) {
		return domain.Question{}, false
	}
	return c.questions[idx], true
}

// All returns a copy of the question list.
func (c *Catalog) All() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// CategoryGroup is one category with its questions in catalog order.
type CategoryGroup struct {
	Category  string            `json:"category"`
	Questions []domain.Question `json:"questions"`
}

// GroupByCategory scans the catalog in order and groups consecutive questions
// under their category label, categories in order of first appearance.
func (c *Catalog) GroupByCategory() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, q := range c.questions {
		i, ok := index[q.Category]
		if !ok {
			i = len(groups)
			index[q.Category] = i
			groups = append(groups, CategoryGroup{Category: q.Category})
		}
		groups[i].Questions = append(groups[i].Questions, q)
	}
	return groups
}
