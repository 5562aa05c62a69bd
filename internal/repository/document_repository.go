package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/credit-case-service/internal/domain"
)

// DocumentRepository stores metadata for uploaded files.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.StoredDocument) error
	GetByID(ctx context.Context, id string) (*domain.StoredDocument, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository returns a Postgres-backed implementation.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.StoredDocument) error {
	const query = `
        INSERT INTO documents (id, filename, path, size_bytes)
        VALUES ($1,$2,$3,$4)
        RETURNING uploaded_at`
	return r.pool.QueryRow(ctx, query,
		doc.ID,
		doc.Filename,
		doc.Path,
		doc.SizeBytes,
	).Scan(&doc.UploadedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.StoredDocument, error) {
	const query = `
        SELECT id, filename, path, size_bytes, uploaded_at
        FROM documents WHERE id=$1`
	var doc domain.StoredDocument
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.Path,
		&doc.SizeBytes,
		&doc.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}
