package policy

import (
	"github.com/spec-kit/credit-case-service/internal/domain"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// Operation enumerates resource operations subject to access control.
type Operation string

const (
	OpReadOwnDashboard Operation = "read_own_dashboard"
	OpReadAnyCase      Operation = "read_any_case"
	OpListCases        Operation = "list_cases"
	OpUpdateCaseStage  Operation = "update_case_stage"
	OpViewStats        Operation = "view_stats"
)

// Authorize decides whether a role may perform an operation against a
// case. ownCaseID is the case linked to the caller's account (empty for
// admins); targetCaseID is the case the operation addresses (empty for
// collection-level operations). It is a pure function: callers handle
// authentication separately, so a failure here is always Forbidden.
func Authorize(role domain.Role, op Operation, ownCaseID, targetCaseID string) error {
	switch role {
	case domain.RoleAdmin:
		switch op {
		case OpReadAnyCase, OpListCases, OpUpdateCaseStage, OpViewStats, OpReadOwnDashboard:
			return nil
		default:
			return apperrors.NewForbidden("unknown operation")
		}
	case domain.RoleClient:
		if op != OpReadOwnDashboard {
			return apperrors.NewForbidden("clients may only view their own dashboard")
		}
		if ownCaseID == "" || ownCaseID != targetCaseID {
			return apperrors.NewForbidden("case does not belong to caller")
		}
		return nil
	default:
		return apperrors.NewForbidden("unknown role")
	}
}
