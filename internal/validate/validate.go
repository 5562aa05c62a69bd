package validate

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	ssnRe   = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
	stateRe = regexp.MustCompile(`^[A-Za-z]{2}$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Submission carries the applicant-supplied intake fields.
type Submission struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	DateOfBirth   string
	SSN           string
	Address       string
	City          string
	State         string
	ZipCode       string
	AgreedToTerms bool
}

// Check validates all fields and returns per-field error messages,
// empty when the submission is well formed.
func (s Submission) Check() map[string]any {
	problems := map[string]any{}

	if n := strings.TrimSpace(s.FirstName); n == "" || len(n) > 100 {
		problems["first_name"] = "required, at most 100 characters"
	}
	if n := strings.TrimSpace(s.LastName); n == "" || len(n) > 100 {
		problems["last_name"] = "required, at most 100 characters"
	}
	if !emailRe.MatchString(s.Email) {
		problems["email"] = "invalid email address"
	}
	if !phoneRe.MatchString(s.Phone) {
		problems["phone"] = "must be 9-15 digits with optional leading + and country code"
	}
	if strings.TrimSpace(s.DateOfBirth) == "" {
		problems["date_of_birth"] = "required"
	}
	if !ssnRe.MatchString(s.SSN) {
		problems["ssn"] = "must match ddd-dd-dddd"
	}
	if len(strings.TrimSpace(s.Address)) < 5 {
		problems["address"] = "at least 5 characters"
	}
	if len(strings.TrimSpace(s.City)) < 2 {
		problems["city"] = "at least 2 characters"
	}
	if !stateRe.MatchString(s.State) {
		problems["state"] = "must be a 2-letter code"
	}
	if !zipRe.MatchString(s.ZipCode) {
		problems["zip_code"] = "must be 5 or 9 digits"
	}
	if !s.AgreedToTerms {
		problems["agreed_to_terms"] = "must agree to terms and conditions"
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
