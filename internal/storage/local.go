package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/repository"
)

// DocumentStore persists uploaded files and their metadata. Callers
// only ever hold the returned opaque identifier.
type DocumentStore interface {
	Save(ctx context.Context, filename string, content []byte) (*domain.StoredDocument, error)
	Get(ctx context.Context, id string) (*domain.StoredDocument, error)
}

// LocalStore writes files under a single upload directory and records
// metadata through the document repository. Identifiers map
// predictably to storage paths ({dir}/{id}{ext}).
type LocalStore struct {
	dir  string
	docs repository.DocumentRepository
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string, docs repository.DocumentRepository) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, docs: docs}, nil
}

// Save persists content under a generated identifier and records
// filename, size, and upload time.
func (s *LocalStore) Save(ctx context.Context, filename string, content []byte) (*domain.StoredDocument, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+filepath.Ext(filename))

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	doc := &domain.StoredDocument{
		ID:        id,
		Filename:  filename,
		Path:      path,
		SizeBytes: int64(len(content)),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns stored metadata by identifier.
func (s *LocalStore) Get(ctx context.Context, id string) (*domain.StoredDocument, error) {
	return s.docs.GetByID(ctx, id)
}
