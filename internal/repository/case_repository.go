package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/credit-case-service/internal/domain"
)

// CaseRepository encapsulates case persistence. Implementations must
// provide per-case atomic semantics for AppendStatus: concurrent
// appends against the same case serialize and no history entry is lost.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context, stage *domain.Stage) ([]domain.Case, error)
	AppendStatus(ctx context.Context, id string, entry domain.StageHistoryEntry) error
	AggregateCounts(ctx context.Context) (map[domain.Stage]int, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository returns a Postgres-backed implementation.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, first_name, last_name, email, phone, date_of_birth, ssn,
               address, city, state, zip_code, notes, documents, current_stage,
               status_history, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	documents, err := json.Marshal(c.Documents)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	history, err := json.Marshal(c.StatusHistory)
	if err != nil {
		return fmt.Errorf("encode status history: %w", err)
	}

	const query = `
        INSERT INTO cases (id, first_name, last_name, email, phone, date_of_birth, ssn,
                           address, city, state, zip_code, notes, documents, current_stage, status_history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::jsonb,$14,$15::jsonb)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.ID,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.DateOfBirth,
		c.SSN,
		c.Address,
		c.City,
		c.State,
		c.ZipCode,
		c.Notes,
		string(documents),
		c.CurrentStage,
		string(history),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases WHERE id=$1`, caseColumns)
	var c domain.Case
	if err := scanCase(r.pool.QueryRow(ctx, query, id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, stage *domain.Stage) ([]domain.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases`, caseColumns)
	args := []any{}
	if stage != nil {
		args = append(args, *stage)
		query += ` WHERE current_stage=$1`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

// AppendStatus sets the current stage, refreshes notes and updated_at,
// and appends the entry to status_history in a single UPDATE. The
// single-row update keeps concurrent appends serialized at the
// database so entries are never interleaved or lost.
func (r *caseRepository) AppendStatus(ctx context.Context, id string, entry domain.StageHistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	const query = `
        UPDATE cases
        SET current_stage=$2,
            notes=$3,
            updated_at=$4,
            status_history = status_history || $5::jsonb
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, entry.Stage, entry.Notes, entry.Timestamp, string(payload))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) AggregateCounts(ctx context.Context) (map[domain.Stage]int, int, error) {
	const query = `SELECT current_stage, COUNT(*) FROM cases GROUP BY current_stage`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := make(map[domain.Stage]int, len(domain.Stages()))
	for _, stage := range domain.Stages() {
		counts[stage] = 0
	}
	total := 0
	for rows.Next() {
		var stage domain.Stage
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, 0, err
		}
		counts[stage] = count
		total += count
	}
	return counts, total, rows.Err()
}

func (r *caseRepository) ListRecent(ctx context.Context, limit int) ([]domain.Case, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM cases ORDER BY created_at DESC LIMIT %d`, caseColumns, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner, c *domain.Case) error {
	return row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.DateOfBirth,
		&c.SSN,
		&c.Address,
		&c.City,
		&c.State,
		&c.ZipCode,
		&c.Notes,
		&c.Documents,
		&c.CurrentStage,
		&c.StatusHistory,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func scanCases(rows pgx.Rows) ([]domain.Case, error) {
	var result []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := scanCase(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
