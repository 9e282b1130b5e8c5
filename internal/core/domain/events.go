package domain

import "time"

const (
	EventDocumentUploaded         = "document.uploaded"
	EventDocumentExtracted        = "document.extracted"
	EventDocumentExtractionFailed = "document.extraction_failed"
	EventDocumentUpdated          = "document.updated"
	EventDocumentReviewed         = "document.reviewed"
	EventDocumentDeleted          = "document.deleted"
)

// LifecycleEvent is published on every document transition. Publishing is
// best-effort; consumers must tolerate gaps.
type LifecycleEvent struct {
	Event          string         `json:"event"`
	DocumentID     string         `json:"documentId"`
	OrganizationID string         `json:"organizationId"`
	UserID         string         `json:"userId"`
	Status         DocumentStatus `json:"status,omitempty"`
	OccurredAt     time.Time      `json:"occurredAt"`
}
