package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/credit-case-service/internal/api/dto"
	"github.com/spec-kit/credit-case-service/internal/api/http/handlers"
	"github.com/spec-kit/credit-case-service/internal/auth"
	"github.com/spec-kit/credit-case-service/internal/config"
	"github.com/spec-kit/credit-case-service/internal/events"
	"github.com/spec-kit/credit-case-service/internal/lifecycle"
	"github.com/spec-kit/credit-case-service/internal/observability"
	"github.com/spec-kit/credit-case-service/internal/repository"
	"github.com/spec-kit/credit-case-service/internal/service"
	"github.com/spec-kit/credit-case-service/internal/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cases := repository.NewMemoryCaseRepository()
	accounts := repository.NewMemoryAccountRepository()
	store, err := storage.NewLocalStore(t.TempDir(), repository.NewMemoryDocumentRepository())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	dispatcher := events.NewInMemoryDispatcher()
	engine := lifecycle.NewEngine(cases, lifecycle.AnyTransition, dispatcher)

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            bcrypt.MinCost,
	}}
	authService := service.NewAuthService(cfg, accounts)
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		CaseRepo:    cases,
		AccountRepo: accounts,
		Store:       store,
		Dispatcher:  dispatcher,
	}, bcrypt.MinCost, 12)
	caseService := service.NewCaseService(cases, store, engine)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 5*time.Second, nil)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("credit-case-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Clients:        handlers.NewClientsHandler(intakeService, caseService),
		Admin:          handlers.NewAdminHandler(caseService, authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), accounts),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any, token string) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func submitApplication(t *testing.T, app *fiber.App, email string) dto.SubmissionResponse {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"first_name":      "Jane",
		"last_name":       "Doe",
		"email":           email,
		"phone":           "+15551234567",
		"date_of_birth":   "1990-04-12",
		"ssn":             "123-45-6789",
		"address":         "42 Main Street",
		"city":            "Springfield",
		"state":           "CA",
		"zip_code":        "90210",
		"agreed_to_terms": "true",
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for _, file := range []struct{ field, name string }{
		{"driver_license", "license.pdf"},
		{"billing_address_proof", "bill.pdf"},
	} {
		part, err := form.CreateFormFile(file.field, file.name)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte("contents of " + file.name)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/clients/submit", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("submit status %d: %s", resp.StatusCode, raw)
	}
	return decodeBody[dto.SubmissionResponse](t, resp)
}

func login(t *testing.T, app *fiber.App, email, password string) dto.TokenResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Email: email, Password: password}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	return decodeBody[dto.TokenResponse](t, resp)
}

func TestSubmitLoginDashboardFlow(t *testing.T) {
	app := newTestApp(t)

	submitted := submitApplication(t, app, "jane.doe@example.com")
	if !submitted.Success {
		t.Fatalf("expected success response")
	}
	if submitted.Password == "" {
		t.Fatalf("expected generated password in response")
	}

	token := login(t, app, submitted.Email, submitted.Password)
	if token.TokenType != "bearer" {
		t.Fatalf("token type %q, want bearer", token.TokenType)
	}
	if string(token.Role) != "client" {
		t.Fatalf("role %q, want client", token.Role)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/clients/me/dashboard", nil, token.AccessToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status %d", resp.StatusCode)
	}
	kase := decodeBody[dto.CaseResponse](t, resp)
	if kase.ID != submitted.ClientID {
		t.Fatalf("dashboard case %s, want %s", kase.ID, submitted.ClientID)
	}
	if string(kase.CaseStatus) != "pending" {
		t.Fatalf("case status %s, want pending", kase.CaseStatus)
	}
	if len(kase.StatusHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(kase.StatusHistory))
	}
	if len(kase.DocumentsInfo) != 2 {
		t.Fatalf("expected metadata for 2 documents, got %d", len(kase.DocumentsInfo))
	}
	for kind, info := range kase.DocumentsInfo {
		if info.ID != "" || info.Size != 0 {
			t.Fatalf("client response for %s leaks admin-only fields", kind)
		}
	}
}

func TestDashboardRequiresAuthentication(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/clients/me/dashboard", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}
	resp = doJSON(t, app, http.MethodGet, "/api/clients/me/dashboard", nil, "not-a-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}
}

func TestAdminLifecycleFlow(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/create-initial", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bootstrap status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, http.MethodPost, "/api/admin/create-initial", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second bootstrap status %d, want 400", resp.StatusCode)
	}

	admin := login(t, app, "admin@cras.com", "admin123")
	if string(admin.Role) != "admin" {
		t.Fatalf("role %q, want admin", admin.Role)
	}

	submitted := submitApplication(t, app, "jane.doe@example.com")

	resp = doJSON(t, app, http.MethodGet, "/api/admin/clients", nil, admin.AccessToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	listed := decodeBody[[]dto.CaseResponse](t, resp)
	if len(listed) != 1 {
		t.Fatalf("expected 1 case listed, got %d", len(listed))
	}

	notes := "verified"
	resp = doJSON(t, app, http.MethodPatch,
		fmt.Sprintf("/api/admin/clients/%s/status", submitted.ClientID),
		dto.StatusUpdateRequest{Status: "documents_verified", Notes: &notes},
		admin.AccessToken)
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("update status %d: %s", resp.StatusCode, raw)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/admin/clients/"+submitted.ClientID, nil, admin.AccessToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get client status %d", resp.StatusCode)
	}
	kase := decodeBody[dto.CaseResponse](t, resp)
	if string(kase.CaseStatus) != "documents_verified" {
		t.Fatalf("case status %s, want documents_verified", kase.CaseStatus)
	}
	if len(kase.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(kase.StatusHistory))
	}
	if kase.StatusHistory[1].Notes != notes {
		t.Fatalf("history notes %q, want %q", kase.StatusHistory[1].Notes, notes)
	}
	for kind, info := range kase.DocumentsInfo {
		if info.ID == "" || info.Size == 0 {
			t.Fatalf("admin response for %s missing id or size", kind)
		}
	}

	resp = doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, admin.AccessToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status %d", resp.StatusCode)
	}
	stats := decodeBody[dto.StatsResponse](t, resp)
	if stats.TotalClients != 1 {
		t.Fatalf("total clients %d, want 1", stats.TotalClients)
	}
	if stats.StatusCounts["documents_verified"] != 1 {
		t.Fatalf("documents_verified count %d, want 1", stats.StatusCounts["documents_verified"])
	}
	if len(stats.RecentClients) != 1 {
		t.Fatalf("expected 1 recent client, got %d", len(stats.RecentClients))
	}
}

func TestClientCannotReachAdminRoutes(t *testing.T) {
	app := newTestApp(t)

	submitted := submitApplication(t, app, "jane.doe@example.com")
	token := login(t, app, submitted.Email, submitted.Password)

	// the per-case route is denied even for the client's own case id:
	// case detail is only served to clients through the dashboard
	for _, path := range []string{
		"/api/admin/clients",
		"/api/admin/clients/" + submitted.ClientID,
		"/api/admin/stats",
	} {
		resp := doJSON(t, app, http.MethodGet, path, nil, token.AccessToken)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s status %d, want 403", path, resp.StatusCode)
		}
	}
}

func TestListClientsRejectsUnknownStatusFilter(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/create-initial", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bootstrap status %d", resp.StatusCode)
	}
	admin := login(t, app, "admin@cras.com", "admin123")

	resp = doJSON(t, app, http.MethodGet, "/api/admin/clients?status=bogus", nil, admin.AccessToken)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health/live", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
}
