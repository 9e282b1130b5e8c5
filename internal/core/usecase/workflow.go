package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/domain"
	"github.com/jpvandijk/koopflow/internal/core/ports"
)

// WorkflowConfig bounds upload validation and extraction calls.
type WorkflowConfig struct {
	// UploadMinBytes and UploadMaxBytes bound the estimated decoded size of
	// an uploaded PDF.
	UploadMinBytes int64
	UploadMaxBytes int64
	// CapacityLimitBytes caps total database size before uploads are refused.
	// Zero disables the pre-check.
	CapacityLimitBytes int64
	// ExtractTimeout bounds a single gateway round trip.
	ExtractTimeout time.Duration
	// DeepPDFValidation decodes the full payload and parses it on upload.
	DeepPDFValidation bool
}

func (c WorkflowConfig) normalize() WorkflowConfig {
	out := c
	if out.UploadMinBytes <= 0 {
		out.UploadMinBytes = 512
	}
	if out.UploadMaxBytes <= 0 {
		out.UploadMaxBytes = 40 << 20
	}
	if out.ExtractTimeout <= 0 {
		out.ExtractTimeout = 30 * time.Second
	}
	return out
}

// DocumentWorkflowUseCase owns the koopovereenkomst state machine: upload
// validation, extraction orchestration, org-scoped reads and edits, deletion.
type DocumentWorkflowUseCase struct {
	tenancy   *TenancyDirectory
	repo      ports.DocumentRepository
	gateway   ports.ExtractionGateway
	events    ports.EventBus
	inspector ports.PDFInspector
	observer  ports.WorkflowObserver
	cfg       WorkflowConfig
}

func NewDocumentWorkflowUseCase(
	tenancy *TenancyDirectory,
	repo ports.DocumentRepository,
	gateway ports.ExtractionGateway,
	events ports.EventBus,
	inspector ports.PDFInspector,
	observer ports.WorkflowObserver,
	cfg WorkflowConfig,
) *DocumentWorkflowUseCase {
	return &DocumentWorkflowUseCase{
		tenancy:   tenancy,
		repo:      repo,
		gateway:   gateway,
		events:    events,
		inspector: inspector,
		observer:  observer,
		cfg:       cfg.normalize(),
	}
}

// requireSameOrganization gates every per-record operation: visibility is
// org-wide via the author, never restricted to the author alone.
func requireSameOrganization(operation string, principal *domain.Principal, doc *domain.Koopovereenkomst) error {
	if doc.Author.OrganizationID != principal.Organization.ID {
		return domain.WrapError(domain.ErrForbidden, operation, errors.New("record belongs to another organization"))
	}
	return nil
}

// publish is best-effort: a dead event bus never fails a document operation.
func (uc *DocumentWorkflowUseCase) publish(ctx context.Context, event string, principal *domain.Principal, doc *domain.Koopovereenkomst) {
	if uc.events == nil {
		return
	}
	err := uc.events.PublishLifecycleEvent(ctx, domain.LifecycleEvent{
		Event:          event,
		DocumentID:     doc.ID,
		OrganizationID: principal.Organization.ID,
		UserID:         principal.User.ID,
		Status:         doc.Status,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("lifecycle_event_publish_failed", "event", event, "document_id", doc.ID, "error", err)
		return
	}
	if uc.observer != nil {
		uc.observer.ObserveLifecycleEvent(event)
	}
}
