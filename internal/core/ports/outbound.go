package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// DocumentRepository persists koopovereenkomst records. Listing is scoped by
// the author's organization; records carry no organization column of their own.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Koopovereenkomst) error
	GetByID(ctx context.Context, id string) (*domain.Koopovereenkomst, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Koopovereenkomst, error)
	Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Koopovereenkomst, error)
	Delete(ctx context.Context, id string) error
	DatabaseSize(ctx context.Context) (int64, error)
}

// UserRepository persists accounts and membership state.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.User, error)
	SetMembership(ctx context.Context, id, organizationID, pendingOrganizationID string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	Delete(ctx context.Context, id string) error
	CountAdmins(ctx context.Context, organizationID string) (int, error)
}

// OrganizationRepository persists tenants.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetByDomain(ctx context.Context, tenantDomain string) (*domain.Organization, error)
	UpdateSettings(ctx context.Context, id string, settings domain.OrganizationSettings) (*domain.Organization, error)
}

// ExtractionGateway invokes the external PDF extraction service. The response
// is opaque JSON; callers absorb failures into record state.
type ExtractionGateway interface {
	Extract(ctx context.Context, fileBase64, filename, tenant string) (json.RawMessage, error)
}

// EventBus publishes and consumes lifecycle events.
type EventBus interface {
	PublishLifecycleEvent(ctx context.Context, event domain.LifecycleEvent) error
	SubscribeLifecycleEvents(ctx context.Context, handler func(context.Context, domain.LifecycleEvent) error) error
}

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (token string, expiresAt int64, err error)
}

// PDFInspector validates that a decoded payload is a readable PDF.
type PDFInspector interface {
	Inspect(data []byte) (pages int, err error)
}

// WorkflowObserver receives workflow outcomes for instrumentation. A nil
// observer is valid; the engine never depends on it.
type WorkflowObserver interface {
	ObserveUpload(outcome string, estimatedBytes int64)
	ObserveExtraction(outcome string, duration time.Duration)
	ObserveLifecycleEvent(event string)
}

// InstructionStore serves the markdown work instructions.
type InstructionStore interface {
	List() []domain.Instruction
	Get(slug string) (*domain.Instruction, error)
}
