package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/credit-case-service/internal/domain"
)

// In-memory implementations back the unit and HTTP tests. They honor
// the same contracts as the Postgres implementations, including
// pgx.ErrNoRows for missing rows and serialized history appends.

// MemoryCaseRepository is a mutex-guarded CaseRepository.
type MemoryCaseRepository struct {
	mu    sync.RWMutex
	cases map[string]*domain.Case
	order []string
}

// NewMemoryCaseRepository builds an empty store.
func NewMemoryCaseRepository() *MemoryCaseRepository {
	return &MemoryCaseRepository{cases: make(map[string]*domain.Case)}
}

func (r *MemoryCaseRepository) Create(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	stored := cloneCase(c)
	r.cases[c.ID] = stored
	r.order = append(r.order, c.ID)
	return nil
}

func (r *MemoryCaseRepository) GetByID(_ context.Context, id string) (*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.cases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneCase(stored), nil
}

func (r *MemoryCaseRepository) List(_ context.Context, stage *domain.Stage) ([]domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Case
	for _, id := range r.order {
		stored := r.cases[id]
		if stage != nil && stored.CurrentStage != *stage {
			continue
		}
		result = append(result, *cloneCase(stored))
	}
	return result, nil
}

func (r *MemoryCaseRepository) AppendStatus(_ context.Context, id string, entry domain.StageHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.CurrentStage = entry.Stage
	stored.Notes = entry.Notes
	stored.UpdatedAt = entry.Timestamp
	stored.StatusHistory = append(stored.StatusHistory, entry)
	return nil
}

func (r *MemoryCaseRepository) AggregateCounts(_ context.Context) (map[domain.Stage]int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.Stage]int, len(domain.Stages()))
	for _, stage := range domain.Stages() {
		counts[stage] = 0
	}
	total := 0
	for _, stored := range r.cases {
		counts[stored.CurrentStage]++
		total++
	}
	return counts, total, nil
}

func (r *MemoryCaseRepository) ListRecent(_ context.Context, limit int) ([]domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	var result []domain.Case
	for i := len(r.order) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *cloneCase(r.cases[r.order[i]]))
	}
	return result, nil
}

func cloneCase(c *domain.Case) *domain.Case {
	out := *c
	out.Documents = make(map[string]string, len(c.Documents))
	for k, v := range c.Documents {
		out.Documents[k] = v
	}
	out.StatusHistory = append([]domain.StageHistoryEntry(nil), c.StatusHistory...)
	return &out
}

// MemoryAccountRepository is a mutex-guarded AccountRepository.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	byEmail  map[string]string
}

// NewMemoryAccountRepository builds an empty store.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]*domain.Account),
		byEmail:  make(map[string]string),
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	stored := *account
	r.accounts[account.ID] = &stored
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *stored
	return &out, nil
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *r.accounts[id]
	return &out, nil
}

func (r *MemoryAccountRepository) AdminExists(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, stored := range r.accounts {
		if stored.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// MemoryDocumentRepository is a mutex-guarded DocumentRepository.
type MemoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*domain.StoredDocument
}

// NewMemoryDocumentRepository builds an empty store.
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{docs: make(map[string]*domain.StoredDocument)}
}

func (r *MemoryDocumentRepository) Create(_ context.Context, doc *domain.StoredDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *MemoryDocumentRepository) GetByID(_ context.Context, id string) (*domain.StoredDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *stored
	return &out, nil
}
