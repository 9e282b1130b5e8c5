package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// Port stubs with overridable function fields. Unset operations fail loudly so
// a test never exercises a path it did not mean to.

type workflowStub struct {
	uploadFn  func(ctx context.Context, userID, naam, pdfBase64 string) (*domain.Koopovereenkomst, error)
	extractFn func(ctx context.Context, userID, documentID string) (*domain.Koopovereenkomst, error)
	getFn     func(ctx context.Context, userID, documentID string) (*domain.Koopovereenkomst, error)
	listFn    func(ctx context.Context, userID string) ([]domain.Koopovereenkomst, error)
	updateFn  func(ctx context.Context, userID, documentID string, jsonData json.RawMessage, status *domain.DocumentStatus) (*domain.Koopovereenkomst, error)
	deleteFn  func(ctx context.Context, userID, documentID string) error
}

var errStubNotConfigured = errors.New("stub operation not configured")

func (s *workflowStub) Upload(ctx context.Context, userID, naam, pdfBase64 string) (*domain.Koopovereenkomst, error) {
	if s.uploadFn == nil {
		return nil, errStubNotConfigured
	}
	return s.uploadFn(ctx, userID, naam, pdfBase64)
}

func (s *workflowStub) Extract(ctx context.Context, userID, documentID string) (*domain.Koopovereenkomst, error) {
	if s.extractFn == nil {
		return nil, errStubNotConfigured
	}
	return s.extractFn(ctx, userID, documentID)
}

func (s *workflowStub) GetByID(ctx context.Context, userID, documentID string) (*domain.Koopovereenkomst, error) {
	if s.getFn == nil {
		return nil, errStubNotConfigured
	}
	return s.getFn(ctx, userID, documentID)
}

func (s *workflowStub) List(ctx context.Context, userID string) ([]domain.Koopovereenkomst, error) {
	if s.listFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listFn(ctx, userID)
}

func (s *workflowStub) UpdateFields(ctx context.Context, userID, documentID string, jsonData json.RawMessage, status *domain.DocumentStatus) (*domain.Koopovereenkomst, error) {
	if s.updateFn == nil {
		return nil, errStubNotConfigured
	}
	return s.updateFn(ctx, userID, documentID, jsonData, status)
}

func (s *workflowStub) Delete(ctx context.Context, userID, documentID string) error {
	if s.deleteFn == nil {
		return errStubNotConfigured
	}
	return s.deleteFn(ctx, userID, documentID)
}

type accountsStub struct {
	registerFn func(ctx context.Context, input domain.Registration) (*domain.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.Session, error)
}

func (s *accountsStub) Register(ctx context.Context, input domain.Registration) (*domain.User, string, error) {
	if s.registerFn == nil {
		return nil, "", errStubNotConfigured
	}
	return s.registerFn(ctx, input)
}

func (s *accountsStub) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if s.loginFn == nil {
		return nil, errStubNotConfigured
	}
	return s.loginFn(ctx, email, password)
}

type adminStub struct {
	listFn     func(ctx context.Context, userID string) ([]domain.User, error)
	approveFn  func(ctx context.Context, userID, targetID string) error
	rejectFn   func(ctx context.Context, userID, targetID string) error
	setAdminFn func(ctx context.Context, userID, targetID string, isAdmin bool) error
	deleteFn   func(ctx context.Context, userID, targetID string) error
}

func (s *adminStub) ListUsers(ctx context.Context, userID string) ([]domain.User, error) {
	if s.listFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listFn(ctx, userID)
}

func (s *adminStub) ApproveUser(ctx context.Context, userID, targetID string) error {
	if s.approveFn == nil {
		return errStubNotConfigured
	}
	return s.approveFn(ctx, userID, targetID)
}

func (s *adminStub) RejectUser(ctx context.Context, userID, targetID string) error {
	if s.rejectFn == nil {
		return errStubNotConfigured
	}
	return s.rejectFn(ctx, userID, targetID)
}

func (s *adminStub) SetAdmin(ctx context.Context, userID, targetID string, isAdmin bool) error {
	if s.setAdminFn == nil {
		return errStubNotConfigured
	}
	return s.setAdminFn(ctx, userID, targetID, isAdmin)
}

func (s *adminStub) DeleteUser(ctx context.Context, userID, targetID string) error {
	if s.deleteFn == nil {
		return errStubNotConfigured
	}
	return s.deleteFn(ctx, userID, targetID)
}

type organizationsStub struct {
	summaryFn  func(ctx context.Context, userID string) (*domain.Organization, error)
	settingsFn func(ctx context.Context, userID string) (*domain.Organization, error)
	updateFn   func(ctx context.Context, userID string, settings domain.OrganizationSettings) (*domain.Organization, error)
}

func (s *organizationsStub) Summary(ctx context.Context, userID string) (*domain.Organization, error) {
	if s.summaryFn == nil {
		return nil, errStubNotConfigured
	}
	return s.summaryFn(ctx, userID)
}

func (s *organizationsStub) Settings(ctx context.Context, userID string) (*domain.Organization, error) {
	if s.settingsFn == nil {
		return nil, errStubNotConfigured
	}
	return s.settingsFn(ctx, userID)
}

func (s *organizationsStub) UpdateSettings(ctx context.Context, userID string, settings domain.OrganizationSettings) (*domain.Organization, error) {
	if s.updateFn == nil {
		return nil, errStubNotConfigured
	}
	return s.updateFn(ctx, userID, settings)
}

type instructionsStub struct {
	items []domain.Instruction
}

func (s *instructionsStub) List() []domain.Instruction {
	return s.items
}

func (s *instructionsStub) Get(slug string) (*domain.Instruction, error) {
	for _, item := range s.items {
		if item.ID == slug {
			return &item, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get instruction", errors.New(slug))
}

// staticAuthenticator accepts exactly one token and maps it to one user.
func staticAuthenticator(token, userID string) TokenAuthenticator {
	return TokenAuthenticatorFunc(func(got string) (string, error) {
		if got != token {
			return "", domain.WrapError(domain.ErrUnauthenticated, "authorize request", errors.New("invalid token"))
		}
		return userID, nil
	})
}

func newTestHandler(deps RouterDeps) http.Handler {
	if deps.Workflow == nil {
		deps.Workflow = &workflowStub{}
	}
	if deps.Accounts == nil {
		deps.Accounts = &accountsStub{}
	}
	if deps.Admin == nil {
		deps.Admin = &adminStub{}
	}
	if deps.Organizations == nil {
		deps.Organizations = &organizationsStub{}
	}
	if deps.Instructions == nil {
		deps.Instructions = &instructionsStub{}
	}
	if deps.Authenticator == nil {
		deps.Authenticator = staticAuthenticator("valid-token", "user-1")
	}
	return NewRouter(deps).Handler()
}
