package dto

// SubmissionResponse acknowledges an accepted application. Password is
// the generated one-time plaintext, returned in lieu of email delivery.
type SubmissionResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Note     string `json:"note"`
}
