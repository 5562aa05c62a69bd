package dto

import (
	"time"

	"github.com/spec-kit/credit-case-service/internal/domain"
)

// StatusUpdateRequest payload for stage transitions.
type StatusUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// DocumentInfoResponse is resolved metadata for one uploaded document.
// ID and size are only populated on admin responses.
type DocumentInfoResponse struct {
	ID         string    `json:"id,omitempty"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CaseResponse is the full case representation.
type CaseResponse struct {
	ID            string                          `json:"id"`
	FirstName     string                          `json:"first_name"`
	LastName      string                          `json:"last_name"`
	Email         string                          `json:"email"`
	Phone         string                          `json:"phone"`
	DateOfBirth   string                          `json:"date_of_birth"`
	SSN           string                          `json:"ssn"`
	Address       string                          `json:"address"`
	City          string                          `json:"city"`
	State         string                          `json:"state"`
	ZipCode       string                          `json:"zip_code"`
	CaseStatus    domain.Stage                    `json:"case_status"`
	Documents     map[string]string               `json:"documents"`
	CreatedAt     time.Time                       `json:"created_at"`
	UpdatedAt     time.Time                       `json:"updated_at"`
	StatusHistory []domain.StageHistoryEntry      `json:"status_history"`
	Notes         string                          `json:"notes"`
	DocumentsInfo map[string]DocumentInfoResponse `json:"documents_info,omitempty"`
}

// RecentCaseSummary is one row of the admin stats view.
type RecentCaseSummary struct {
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Email      string       `json:"email"`
	CaseStatus domain.Stage `json:"case_status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// StatsResponse aggregates the admin dashboard numbers.
type StatsResponse struct {
	TotalClients  int                 `json:"total_clients"`
	StatusCounts  map[string]int      `json:"status_counts"`
	RecentClients []RecentCaseSummary `json:"recent_clients"`
}
