package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/events"
	"github.com/spec-kit/credit-case-service/internal/repository"
	"github.com/spec-kit/credit-case-service/internal/storage"
	"github.com/spec-kit/credit-case-service/internal/validate"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// FileUpload carries one uploaded file part.
type FileUpload struct {
	Filename string
	Content  []byte
}

// SubmissionInput is a complete intake application.
type SubmissionInput struct {
	validate.Submission
	DriverLicense       FileUpload
	BillingAddressProof FileUpload
}

// SubmissionResult is returned to the applicant. Password is the
// generated one-time plaintext; returning it in the response stands in
// for an email-delivery step that was never implemented.
type SubmissionResult struct {
	CaseID   string
	Email    string
	Password string
}

// IntakeService validates applications and creates the case plus its
// linked client account.
type IntakeService struct {
	cases          repository.CaseRepository
	accounts       repository.AccountRepository
	store          storage.DocumentStore
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	bcryptCost     int
	passwordLength int
	now            func() time.Time
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	CaseRepo    repository.CaseRepository
	AccountRepo repository.AccountRepository
	Store       storage.DocumentStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewIntakeService builds the service.
func NewIntakeService(deps IntakeDependencies, bcryptCost, passwordLength int) *IntakeService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &IntakeService{
		cases:          deps.CaseRepo,
		accounts:       deps.AccountRepo,
		store:          deps.Store,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		bcryptCost:     bcryptCost,
		passwordLength: passwordLength,
		now:            time.Now,
	}
}

// Submit processes a new client application: field validation, document
// storage, case creation seeded with a single pending history entry,
// one-time password generation, and the linked client account. Case and
// account creation are sequential, not transactional; a failure after
// the case insert leaves an orphaned case.
func (s *IntakeService) Submit(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	if problems := input.Check(); problems != nil {
		return nil, apperrors.NewValidationError("invalid application", problems)
	}
	if len(input.DriverLicense.Content) == 0 || len(input.BillingAddressProof.Content) == 0 {
		return nil, apperrors.NewValidationError("driver_license and billing_address_proof files required", nil)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	license, err := s.store.Save(ctx, input.DriverLicense.Filename, input.DriverLicense.Content)
	if err != nil {
		return nil, err
	}
	billing, err := s.store.Save(ctx, input.BillingAddressProof.Filename, input.BillingAddressProof.Content)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	kase := &domain.Case{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       email,
		Phone:       input.Phone,
		DateOfBirth: input.DateOfBirth,
		SSN:         input.SSN,
		Address:     strings.TrimSpace(input.Address),
		City:        strings.TrimSpace(input.City),
		State:       strings.ToUpper(input.State),
		ZipCode:     input.ZipCode,
		Documents: map[string]string{
			domain.DocumentKindDriverLicense:       license.ID,
			domain.DocumentKindBillingAddressProof: billing.ID,
		},
		CurrentStage: domain.StagePending,
		StatusHistory: []domain.StageHistoryEntry{{
			Stage:     domain.StagePending,
			Timestamp: now,
			Notes:     "Application submitted",
		}},
	}
	if err := s.cases.Create(ctx, kase); err != nil {
		return nil, err
	}

	password, err := auth.GeneratePassword(s.passwordLength)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		CaseID:       &kase.ID,
		Active:       true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		s.logger.Error("account creation failed after case insert; case orphaned",
			zap.String("case_id", kase.ID), zap.Error(err))
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventCaseSubmitted,
			CaseID:    kase.ID,
			Timestamp: now,
			Payload: events.CaseSubmittedPayload{
				Email:     email,
				FirstName: kase.FirstName,
				LastName:  kase.LastName,
			},
		})
	}

	return &SubmissionResult{CaseID: kase.ID, Email: email, Password: password}, nil
}
