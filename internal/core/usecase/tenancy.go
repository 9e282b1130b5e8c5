package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpvandijk/koopflow/internal/core/domain"
	"github.com/jpvandijk/koopflow/internal/core/ports"
)

// TenancyDirectory resolves an authenticated user id into a principal: the
// user row, their organization, and the organization's feature entitlement.
type TenancyDirectory struct {
	users ports.UserRepository
	orgs  ports.OrganizationRepository
}

func NewTenancyDirectory(users ports.UserRepository, orgs ports.OrganizationRepository) *TenancyDirectory {
	return &TenancyDirectory{users: users, orgs: orgs}
}

// Resolve loads the acting user and their organization. Unknown users map to
// unauthenticated: the session outlived the account.
func (d *TenancyDirectory) Resolve(ctx context.Context, userID string) (*domain.Principal, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return nil, domain.WrapError(domain.ErrUnauthenticated, "resolve principal", errors.New("unknown user"))
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	if !user.Approved() {
		return nil, domain.WrapError(domain.ErrForbidden, "resolve principal", errors.New("membership not approved"))
	}

	org, err := d.orgs.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("resolve organization: %w", err)
	}
	return &domain.Principal{User: user, Organization: org}, nil
}

// ResolveAdmin resolves a principal and requires the admin role.
func (d *TenancyDirectory) ResolveAdmin(ctx context.Context, userID string) (*domain.Principal, error) {
	principal, err := d.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !principal.User.IsAdmin {
		return nil, domain.WrapError(domain.ErrForbidden, "resolve admin", errors.New("admin role required"))
	}
	return principal, nil
}

// ResolveWorkflowMember resolves a principal and requires document-workflow
// entitlement. Access denial is distinct from forbidden so callers can tell
// "not entitled" apart from "wrong tenant".
func (d *TenancyDirectory) ResolveWorkflowMember(ctx context.Context, userID string) (*domain.Principal, error) {
	principal, err := d.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !principal.Organization.WorkflowAccessible() {
		return nil, domain.WrapError(domain.ErrAccessDenied, "resolve workflow member",
			errors.New("organization has no document workflow access"))
	}
	return principal, nil
}
