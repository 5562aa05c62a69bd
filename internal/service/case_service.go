package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/lifecycle"
	"github.com/spec-kit/credit-case-service/internal/policy"
	"github.com/spec-kit/credit-case-service/internal/repository"
	"github.com/spec-kit/credit-case-service/internal/storage"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// DocumentInfo is resolved upload metadata attached to case responses.
type DocumentInfo struct {
	ID         string
	Filename   string
	SizeBytes  int64
	UploadedAt time.Time
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	Total       int
	StageCounts map[domain.Stage]int
	Recent      []domain.Case
}

// CaseService coordinates case reads and stage mutations, applying the
// access policy before touching the repository.
type CaseService struct {
	cases  repository.CaseRepository
	store  storage.DocumentStore
	engine *lifecycle.Engine
}

// NewCaseService builds the service.
func NewCaseService(cases repository.CaseRepository, store storage.DocumentStore, engine *lifecycle.Engine) *CaseService {
	return &CaseService{cases: cases, store: store, engine: engine}
}

// ClientDashboard returns the case linked to a client account together
// with document metadata.
func (s *CaseService) ClientDashboard(ctx context.Context, account *domain.Account) (*domain.Case, map[string]DocumentInfo, error) {
	if account.CaseID == nil {
		return nil, nil, apperrors.NewNotFound("client", nil)
	}
	if err := policy.Authorize(account.Role, policy.OpReadOwnDashboard, *account.CaseID, *account.CaseID); err != nil {
		return nil, nil, err
	}
	return s.caseWithDocuments(ctx, *account.CaseID)
}

// AdminListCases lists cases, optionally filtered by stage.
func (s *CaseService) AdminListCases(ctx context.Context, role domain.Role, stage *domain.Stage) ([]domain.Case, error) {
	if err := policy.Authorize(role, policy.OpListCases, "", ""); err != nil {
		return nil, err
	}
	return s.cases.List(ctx, stage)
}

// AdminGetCase returns any case plus document metadata.
func (s *CaseService) AdminGetCase(ctx context.Context, role domain.Role, caseID string) (*domain.Case, map[string]DocumentInfo, error) {
	if err := policy.Authorize(role, policy.OpReadAnyCase, "", caseID); err != nil {
		return nil, nil, err
	}
	return s.caseWithDocuments(ctx, caseID)
}

// AdminUpdateStatus advances a case through the lifecycle engine.
func (s *CaseService) AdminUpdateStatus(ctx context.Context, role domain.Role, caseID string, target domain.Stage, notes string) (*domain.Case, error) {
	if err := policy.Authorize(role, policy.OpUpdateCaseStage, "", caseID); err != nil {
		return nil, err
	}
	return s.engine.Advance(ctx, caseID, target, notes)
}

// AdminStats computes per-stage counts over the full population at call
// time plus the most recent cases.
func (s *CaseService) AdminStats(ctx context.Context, role domain.Role, recentLimit int) (*Stats, error) {
	if err := policy.Authorize(role, policy.OpViewStats, "", ""); err != nil {
		return nil, err
	}
	counts, total, err := s.cases.AggregateCounts(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.cases.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, StageCounts: counts, Recent: recent}, nil
}

func (s *CaseService) caseWithDocuments(ctx context.Context, caseID string) (*domain.Case, map[string]DocumentInfo, error) {
	kase, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("client", map[string]any{"id": caseID})
		}
		return nil, nil, err
	}

	info := make(map[string]DocumentInfo, len(kase.Documents))
	for kind, docID := range kase.Documents {
		doc, err := s.store.Get(ctx, docID)
		if err != nil {
			// missing metadata rows are skipped, matching the
			// lenient dashboard behavior
			if err == pgx.ErrNoRows {
				continue
			}
			return nil, nil, err
		}
		info[kind] = DocumentInfo{
			ID:         doc.ID,
			Filename:   doc.Filename,
			SizeBytes:  doc.SizeBytes,
			UploadedAt: doc.UploadedAt,
		}
	}
	return kase, info, nil
}
