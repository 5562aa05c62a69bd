package domain

import "time"

// Document kinds collected at intake.
const (
	DocumentKindDriverLicense       = "driver_license"
	DocumentKindBillingAddressProof = "billing_address_proof"
)

// StoredDocument records metadata for an uploaded file. The file itself
// lives in the document store; callers only hold the opaque ID.
type StoredDocument struct {
	ID         string
	Filename   string
	Path       string
	SizeBytes  int64
	UploadedAt time.Time
}
