package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credit-case-service/internal/api/dto"
	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/service"
	"github.com/spec-kit/credit-case-service/internal/validate"
	apperrors "github.com/spec-kit/credit-case-service/pkg/util"
)

// ClientsHandler exposes application intake and the client dashboard.
type ClientsHandler struct {
	intake *service.IntakeService
	cases  *service.CaseService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(intakeService *service.IntakeService, caseService *service.CaseService) *ClientsHandler {
	return &ClientsHandler{intake: intakeService, cases: caseService}
}

// Submit handles POST /api/clients/submit (multipart form).
func (h *ClientsHandler) Submit(c *fiber.Ctx) error {
	input := service.SubmissionInput{
		Submission: validate.Submission{
			FirstName:     c.FormValue("first_name"),
			LastName:      c.FormValue("last_name"),
			Email:         c.FormValue("email"),
			Phone:         c.FormValue("phone"),
			DateOfBirth:   c.FormValue("date_of_birth"),
			SSN:           c.FormValue("ssn"),
			Address:       c.FormValue("address"),
			City:          c.FormValue("city"),
			State:         c.FormValue("state"),
			ZipCode:       c.FormValue("zip_code"),
			AgreedToTerms: parseFormBool(c.FormValue("agreed_to_terms")),
		},
	}

	license, err := readFilePart(c, "driver_license")
	if err != nil {
		return err
	}
	billing, err := readFilePart(c, "billing_address_proof")
	if err != nil {
		return err
	}
	input.DriverLicense = license
	input.BillingAddressProof = billing

	result, err := h.intake.Submit(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(dto.SubmissionResponse{
		Success:  true,
		Message:  "Application submitted successfully",
		ClientID: result.CaseID,
		Email:    result.Email,
		Password: result.Password,
		Note:     "Save this password to access your client portal",
	})
}

// Dashboard handles GET /api/clients/me/dashboard.
func (h *ClientsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	kase, docs, err := h.cases.ClientDashboard(c.Context(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(caseResponse(kase, docs, false))
}

func readFilePart(c *fiber.Ctx, name string) (service.FileUpload, error) {
	header, err := c.FormFile(name)
	if err != nil {
		return service.FileUpload{}, apperrors.NewValidationError(name+" file required", nil)
	}
	content, err := readMultipartFile(header)
	if err != nil {
		return service.FileUpload{}, apperrors.NewValidationError("unable to read "+name, nil)
	}
	return service.FileUpload{Filename: header.Filename, Content: content}, nil
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func parseFormBool(val string) bool {
	if strings.EqualFold(val, "on") {
		return true
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return parsed
}
