package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"accidata/internal/domain"
	"accidata/internal/repository"
)

const maxUploadBytes = 10 * 1024 * 1024

var allowedFileTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

var (
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrFileTypeUnsupported = errors.New("file type not supported")
)

// ObjectStore streams attachment content to remote object storage.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, content io.Reader, size int64, progress func(percent int)) (string, error)
}

// AttachmentService validates and uploads session documents. Every upload is
// tagged with the question active at upload time; attachments never move the
// engine's own state.
type AttachmentService struct {
	objects   ObjectStore
	documents repository.DocumentRepository
	logger    *zap.Logger

	mu       sync.Mutex
	uploaded map[string][]domain.AttachmentRecord
}

func NewAttachmentService(objects ObjectStore, documents repository.DocumentRepository, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		objects:   objects,
		documents: documents,
		logger:    logger,
		uploaded:  make(map[string][]domain.AttachmentRecord),
	}
}

// Validate rejects oversized or unsupported files with a reasoned error.
func (s *AttachmentService) Validate(fileName, contentType string, size int64) error {
	if size > maxUploadBytes {
		return fmt.Errorf("%w: %s is %.2fMB, limit is 10MB", ErrFileTooLarge, fileName, float64(size)/(1024*1024))
	}
	if _, ok := allowedFileTypes[strings.ToLower(strings.TrimSpace(contentType))]; !ok {
		return fmt.Errorf("%w: %s (upload images, PDFs, or documents)", ErrFileTypeUnsupported, contentType)
	}
	return nil
}

// Upload streams the file under "<sessionID>/<token>_<timestamp>.<ext>",
// then inserts a documents row. The object is not deleted when the metadata
// insert fails; the orphaned key is logged for manual cleanup.
func (s *AttachmentService) Upload(ctx context.Context, sessionID string, questionID int, fileName, contentType string, content io.Reader, size int64, progress func(percent int)) (domain.AttachmentRecord, error) {
	if err := s.Validate(fileName, contentType, size); err != nil {
		return domain.AttachmentRecord{}, err
	}
	if s.objects == nil {
		return domain.AttachmentRecord{}, errors.New("object storage not configured")
	}

	key := fmt.Sprintf("%s/%s_%d%s", sessionID, strings.ReplaceAll(uuid.NewString(), "-", ""), time.Now().UnixMilli(), fileExt(fileName))
	url, err := s.objects.Upload(ctx, key, contentType, content, size, progress)
	if err != nil {
		return domain.AttachmentRecord{}, fmt.Errorf("upload object: %w", err)
	}

	record := domain.AttachmentRecord{
		SessionID:  sessionID,
		FileName:   fileName,
		URL:        url,
		FileType:   contentType,
		QuestionID: questionID,
		CreatedAt:  time.Now().UTC(),
	}

	if s.documents != nil {
		if err := s.documents.Insert(ctx, record); err != nil {
			s.logger.Error("document metadata insert failed, object orphaned",
				zap.String("session_id", sessionID),
				zap.String("object_key", key),
				zap.Error(err),
			)
			return domain.AttachmentRecord{}, fmt.Errorf("record document metadata: %w", err)
		}
	}

	s.mu.Lock()
	s.uploaded[sessionID] = append(s.uploaded[sessionID], record)
	s.mu.Unlock()

	return record, nil
}

// Attachments returns this process's uploads for a session, question
// associations included.
func (s *AttachmentService) Attachments(sessionID string) []domain.AttachmentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.uploaded[sessionID]
	out := make([]domain.AttachmentRecord, len(list))
	copy(out, list)
	return out
}

// SessionDocuments reads the documents table for a session.
func (s *AttachmentService) SessionDocuments(ctx context.Context, sessionID string) ([]domain.AttachmentRecord, error) {
	if s.documents == nil {
		return nil, nil
	}
	return s.documents.ListBySessionID(ctx, sessionID)
}

func fileExt(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		return fileName[i:]
	}
	return ""
}
