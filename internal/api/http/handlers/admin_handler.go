package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-case-service/internal/api/dto"
	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/domain"
	"github.com/spec-kit/credit-case-service/internal/service"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

const recentCasesLimit = 10

// AdminHandler exposes staff-side case management endpoints.
type AdminHandler struct {
	cases *service.CaseService
	auth  *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(caseService *service.CaseService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{cases: caseService, auth: authService}
}

// ListClients handles GET /api/admin/clients.
func (h *AdminHandler) ListClients(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var stageFilter *domain.Stage
	if raw := c.Query("status"); raw != "" {
		stage, valid := domain.ParseStage(raw)
		if !valid {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		stageFilter = &stage
	}

	cases, err := h.cases.AdminListCases(c.Context(), principal.Account.Role, stageFilter)
	if err != nil {
		return err
	}

	out := make([]dto.CaseResponse, 0, len(cases))
	for i := range cases {
		out = append(out, caseResponse(&cases[i], nil, true))
	}
	return c.JSON(out)
}

// GetClient handles GET /api/admin/clients/:id.
func (h *AdminHandler) GetClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	kase, docs, err := h.cases.AdminGetCase(c.Context(), principal.Account.Role, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(caseResponse(kase, docs, true))
}

// UpdateStatus handles PATCH /api/admin/clients/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	stage, valid := domain.ParseStage(req.Status)
	if !valid {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	if _, err := h.cases.AdminUpdateStatus(c.Context(), principal.Account.Role, c.Params("id"), stage, notes); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated successfully",
	})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	stats, err := h.cases.AdminStats(c.Context(), principal.Account.Role, recentCasesLimit)
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(stats.StageCounts))
	for stage, count := range stats.StageCounts {
		counts[string(stage)] = count
	}
	recent := make([]dto.RecentCaseSummary, 0, len(stats.Recent))
	for _, kase := range stats.Recent {
		recent = append(recent, dto.RecentCaseSummary{
			FirstName:  kase.FirstName,
			LastName:   kase.LastName,
			Email:      kase.Email,
			CaseStatus: kase.CurrentStage,
			CreatedAt:  kase.CreatedAt,
		})
	}

	return c.JSON(dto.StatsResponse{
		TotalClients:  stats.Total,
		StatusCounts:  counts,
		RecentClients: recent,
	})
}

// CreateInitial handles POST /api/admin/create-initial, the one-time
// unauthenticated bootstrap.
func (h *AdminHandler) CreateInitial(c *fiber.Ctx) error {
	var req dto.CreateInitialAdminRequest
	// empty body falls back to the default bootstrap password
	_ = c.BodyParser(&req)

	account, err := h.auth.CreateInitialAdmin(c.Context(), req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Initial admin created",
		"email":   account.Email,
	})
}

func caseResponse(kase *domain.Case, docs map[string]service.DocumentInfo, admin bool) dto.CaseResponse {
	resp := dto.CaseResponse{
		ID:            kase.ID,
		FirstName:     kase.FirstName,
		LastName:      kase.LastName,
		Email:         kase.Email,
		Phone:         kase.Phone,
		DateOfBirth:   kase.DateOfBirth,
		SSN:           kase.SSN,
		Address:       kase.Address,
		City:          kase.City,
		State:         kase.State,
		ZipCode:       kase.ZipCode,
		CaseStatus:    kase.CurrentStage,
		Documents:     kase.Documents,
		CreatedAt:     kase.CreatedAt,
		UpdatedAt:     kase.UpdatedAt,
		StatusHistory: kase.StatusHistory,
		Notes:         kase.Notes,
	}
	if docs != nil {
		resp.DocumentsInfo = make(map[string]dto.DocumentInfoResponse, len(docs))
		for kind, doc := range docs {
			info := dto.DocumentInfoResponse{
				Filename:   doc.Filename,
				UploadedAt: doc.UploadedAt,
			}
			if admin {
				info.ID = doc.ID
				info.Size = doc.SizeBytes
			}
			resp.DocumentsInfo[kind] = info
		}
	}
	return resp
}
