package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"accidata/internal/domain"
)

// ResponseStore is the local fast-path persistence for answered questions,
// one append-only list per modality. Storage errors degrade to empty-list or
// false; they are logged, never propagated.
type ResponseStore interface {
	Append(modality domain.Modality, response domain.StoredResponse) bool
	ReadAll(modality domain.Modality) []domain.StoredResponse
	Clear(modality domain.Modality) bool
}

func responseKey(namespace string, modality domain.Modality) string {
	return fmt.Sprintf("%s_%s_responses", namespace, modality)
}

type memoryResponseStore struct {
	mu        sync.Mutex
	namespace string
	lists     map[string][]domain.StoredResponse
}

func NewMemoryResponseStore(namespace string) ResponseStore {
	return &memoryResponseStore{
		namespace: namespace,
		lists:     make(map[string][]domain.StoredResponse),
	}
}

func (s *memoryResponseStore) Append(modality domain.Modality, response domain.StoredResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if response.Timestamp == 0 {
		response.Timestamp = time.Now().UnixMilli()
	}
	key := responseKey(s.namespace, modality)
	s.lists[key] = append(s.lists[key], response)
	return true
}

func (s *memoryResponseStore) ReadAll(modality domain.Modality) []domain.StoredResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[responseKey(s.namespace, modality)]
	out := make([]domain.StoredResponse, len(list))
	copy(out, list)
	return out
}

func (s *memoryResponseStore) Clear(modality domain.Modality) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, responseKey(s.namespace, modality))
	return true
}

type redisResponseStore struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
}

// NewRedisResponseStore keeps each modality list as a single JSON array under
// its key. Read-modify-write of the whole list, last writer wins; acceptable
// for the single-writer sessions this serves.
func NewRedisResponseStore(client *redis.Client, namespace string, logger *zap.Logger) ResponseStore {
	if client == nil {
		return nil
	}
	return &redisResponseStore{client: client, namespace: namespace, logger: logger}
}

func (s *redisResponseStore) Append(modality domain.Modality, response domain.StoredResponse) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if response.Timestamp == 0 {
		response.Timestamp = time.Now().UnixMilli()
	}
	key := responseKey(s.namespace, modality)

	list := s.load(ctx, key)
	list = append(list, response)

	raw, err := json.Marshal(list)
	if err != nil {
		s.logger.Error("marshal response list", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		s.logger.Error("store response list", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *redisResponseStore) ReadAll(modality domain.Modality) []domain.StoredResponse {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.load(ctx, responseKey(s.namespace, modality))
}

func (s *redisResponseStore) Clear(modality domain.Modality) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	key := responseKey(s.namespace, modality)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("clear response list", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *redisResponseStore) load(ctx context.Context, key string) []domain.StoredResponse {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Error("read response list", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var list []domain.StoredResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Error("decode response list", zap.String("key", key), zap.Error(err))
		return nil
	}
	return list
}
