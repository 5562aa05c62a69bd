package validate

import "testing"

func validSubmission() Submission {
	return Submission{
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane.doe@example.com",
		Phone:         "+15551234567",
		DateOfBirth:   "1990-04-12",
		SSN:           "123-45-6789",
		Address:       "42 Main Street",
		City:          "Springfield",
		State:         "CA",
		ZipCode:       "90210",
		AgreedToTerms: true,
	}
}

func TestValidSubmissionPasses(t *testing.T) {
	if problems := validSubmission().Check(); problems != nil {
		t.Fatalf("expected clean submission, got %v", problems)
	}
}

func TestFieldConstraints(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Submission)
		field  string
	}{
		{"empty first name", func(s *Submission) { s.FirstName = " " }, "first_name"},
		{"empty last name", func(s *Submission) { s.LastName = "" }, "last_name"},
		{"bad email", func(s *Submission) { s.Email = "not-an-email" }, "email"},
		{"short phone", func(s *Submission) { s.Phone = "1234" }, "phone"},
		{"alpha phone", func(s *Submission) { s.Phone = "555-123-4567x" }, "phone"},
		{"missing dob", func(s *Submission) { s.DateOfBirth = "" }, "date_of_birth"},
		{"unformatted ssn", func(s *Submission) { s.SSN = "123456789" }, "ssn"},
		{"short address", func(s *Submission) { s.Address = "42" }, "address"},
		{"short city", func(s *Submission) { s.City = "X" }, "city"},
		{"long state", func(s *Submission) { s.State = "Cal" }, "state"},
		{"bad zip", func(s *Submission) { s.ZipCode = "1234" }, "zip_code"},
		{"terms not agreed", func(s *Submission) { s.AgreedToTerms = false }, "agreed_to_terms"},
	}

	for _, tc := range cases {
		sub := validSubmission()
		tc.mutate(&sub)
		problems := sub.Check()
		if problems == nil {
			t.Fatalf("%s: expected validation failure", tc.name)
		}
		if _, ok := problems[tc.field]; !ok {
			t.Fatalf("%s: expected problem on %s, got %v", tc.name, tc.field, problems)
		}
	}
}

func TestNineDigitZipAccepted(t *testing.T) {
	sub := validSubmission()
	sub.ZipCode = "90210-1234"
	if problems := sub.Check(); problems != nil {
		t.Fatalf("expected 9-digit zip to pass, got %v", problems)
	}
}

func TestPhoneWithoutPlusAccepted(t *testing.T) {
	sub := validSubmission()
	sub.Phone = "5551234567"
	if problems := sub.Check(); problems != nil {
		t.Fatalf("expected bare phone to pass, got %v", problems)
	}
}
