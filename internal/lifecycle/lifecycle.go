package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/events"
	"github.com/spec-kit/credit-case-service/internal/repository"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// TransitionPolicy decides whether a stage change is allowed. Both
// stages are guaranteed to be valid members of the enumeration by the
// time a policy runs.
type TransitionPolicy func(from, to domain.Stage) error

// AnyTransition permits every stage pair, including skips and
// reversals. This matches the permissive production behavior; swap in
// StrictForward for sequential-only progression without touching
// callers.
func AnyTransition(from, to domain.Stage) error {
	return nil
}

// StrictForward only permits advancing to the immediately next stage.
func StrictForward(from, to domain.Stage) error {
	if to.Index() != from.Index()+1 {
		return apperrors.NewValidationError(
			fmt.Sprintf("cannot move from %s to %s", from, to), nil)
	}
	return nil
}

// Engine applies stage transitions to cases and records each one in the
// append-only status history.
type Engine struct {
	cases      repository.CaseRepository
	policy     TransitionPolicy
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewEngine builds the engine. A nil policy defaults to AnyTransition.
func NewEngine(cases repository.CaseRepository, policy TransitionPolicy, dispatcher events.Dispatcher) *Engine {
	if policy == nil {
		policy = AnyTransition
	}
	return &Engine{cases: cases, policy: policy, dispatcher: dispatcher, now: time.Now}
}

// Advance sets the case's current stage to target and appends a history
// entry with a server-assigned timestamp. When note is empty a default
// note is synthesized. Every accepted transition appends exactly one
// entry.
func (e *Engine) Advance(ctx context.Context, caseID string, target domain.Stage, note string) (*domain.Case, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidationError("unknown stage", map[string]any{"status": string(target)})
	}

	current, err := e.cases.GetByID(ctx, caseID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"id": caseID})
		}
		return nil, err
	}

	if err := e.policy(current.CurrentStage, target); err != nil {
		return nil, err
	}

	if note == "" {
		note = fmt.Sprintf("Status updated to %s", target)
	}
	entry := domain.StageHistoryEntry{
		Stage:     target,
		Timestamp: e.now().UTC(),
		Notes:     note,
	}
	if err := e.cases.AppendStatus(ctx, caseID, entry); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"id": caseID})
		}
		return nil, err
	}

	oldStage := current.CurrentStage
	current.CurrentStage = target
	current.UpdatedAt = entry.Timestamp
	current.Notes = note
	current.StatusHistory = append(current.StatusHistory, entry)

	if e.dispatcher != nil {
		_ = e.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventCaseStatusChanged,
			CaseID:    caseID,
			Timestamp: entry.Timestamp,
			Payload: events.CaseStatusChangedPayload{
				OldStage: oldStage,
				NewStage: target,
				Notes:    note,
			},
		})
	}
	return current, nil
}
