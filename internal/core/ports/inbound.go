package ports

import (
	"context"
	"encoding/json"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// DocumentWorkflow is the inbound contract for the koopovereenkomst lifecycle.
// Every operation authorizes against the acting user's organization before
// touching record state.
type DocumentWorkflow interface {
	Upload(ctx context.Context, actingUserID, naam, pdfBase64 string) (*domain.Koopovereenkomst, error)
	Extract(ctx context.Context, actingUserID, documentID string) (*domain.Koopovereenkomst, error)
	GetByID(ctx context.Context, actingUserID, documentID string) (*domain.Koopovereenkomst, error)
	List(ctx context.Context, actingUserID string) ([]domain.Koopovereenkomst, error)
	UpdateFields(ctx context.Context, actingUserID, documentID string, jsonData json.RawMessage, status *domain.DocumentStatus) (*domain.Koopovereenkomst, error)
	Delete(ctx context.Context, actingUserID, documentID string) error
}

// AccountService handles registration and credential login.
type AccountService interface {
	Register(ctx context.Context, input domain.Registration) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}

// AdminDirectory exposes the organization-admin user actions.
type AdminDirectory interface {
	ListUsers(ctx context.Context, actingUserID string) ([]domain.User, error)
	ApproveUser(ctx context.Context, actingUserID, targetUserID string) error
	RejectUser(ctx context.Context, actingUserID, targetUserID string) error
	SetAdmin(ctx context.Context, actingUserID, targetUserID string, isAdmin bool) error
	DeleteUser(ctx context.Context, actingUserID, targetUserID string) error
}

// OrganizationService exposes organization reads and admin settings updates.
type OrganizationService interface {
	Summary(ctx context.Context, actingUserID string) (*domain.Organization, error)
	Settings(ctx context.Context, actingUserID string) (*domain.Organization, error)
	UpdateSettings(ctx context.Context, actingUserID string, settings domain.OrganizationSettings) (*domain.Organization, error)
}
