package domain

import (
	"encoding/json"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded         DocumentStatus = "uploaded"
	StatusExtracted        DocumentStatus = "extracted"
	StatusExtractionFailed DocumentStatus = "extraction_failed"
	StatusReviewed         DocumentStatus = "reviewed"
)

// ValidStatus reports whether s is one of the canonical lifecycle statuses.
func ValidStatus(s DocumentStatus) bool {
	switch s {
	case StatusUploaded, StatusExtracted, StatusExtractionFailed, StatusReviewed:
		return true
	}
	return false
}

// AuthorSummary is the public projection of the uploading user. The author's
// organization determines record visibility but is not serialized.
type AuthorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	OrganizationID string `json:"-"`
}

// Koopovereenkomst is a purchase-agreement document record. The PDF payload is
// immutable after creation; jsonData is replaced wholesale by extraction and is
// otherwise schema-less.
type Koopovereenkomst struct {
	ID           string          `json:"id"`
	Naam         string          `json:"naam"`
	PDFBase64    string          `json:"pdfBase64,omitempty"`
	Status       DocumentStatus  `json:"status"`
	JSONData     json.RawMessage `json:"jsonData"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	UserID       string          `json:"userId"`
	Author       AuthorSummary   `json:"user"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DocumentUpdate carries a partial update. Nil fields are left untouched.
type DocumentUpdate struct {
	Status       *DocumentStatus
	JSONData     json.RawMessage
	ErrorMessage *string
}

func (u DocumentUpdate) Empty() bool {
	return u.Status == nil && u.JSONData == nil && u.ErrorMessage == nil
}
