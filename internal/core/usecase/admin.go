package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpvandijk/koopflow/internal/core/domain"
	"github.com/jpvandijk/koopflow/internal/core/ports"
)

// AdminUsersUseCase covers the organization-admin user actions. Every action
// is scoped to the admin's own organization and preserves the invariant that
// an organization always keeps at least one admin.
type AdminUsersUseCase struct {
	tenancy *TenancyDirectory
	users   ports.UserRepository
}

func NewAdminUsersUseCase(tenancy *TenancyDirectory, users ports.UserRepository) *AdminUsersUseCase {
	return &AdminUsersUseCase{tenancy: tenancy, users: users}
}

// ListUsers returns approved and pending members of the admin's organization.
func (uc *AdminUsersUseCase) ListUsers(ctx context.Context, actingUserID string) ([]domain.User, error) {
	principal, err := uc.tenancy.ResolveAdmin(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.ListByOrganization(ctx, principal.Organization.ID)
	if err != nil {
		return nil, fmt.Errorf("list organization users: %w", err)
	}
	return users, nil
}

func (uc *AdminUsersUseCase) ApproveUser(ctx context.Context, actingUserID, targetUserID string) error {
	principal, target, err := uc.resolveTarget(ctx, actingUserID, targetUserID)
	if err != nil {
		return err
	}
	if target.PendingOrganizationID != principal.Organization.ID {
		return domain.WrapError(domain.ErrValidation, "approve user", errors.New("user has no pending membership for this organization"))
	}
	if err := uc.users.SetMembership(ctx, target.ID, principal.Organization.ID, ""); err != nil {
		return fmt.Errorf("approve user: %w", err)
	}
	return nil
}

func (uc *AdminUsersUseCase) RejectUser(ctx context.Context, actingUserID, targetUserID string) error {
	principal, target, err := uc.resolveTarget(ctx, actingUserID, targetUserID)
	if err != nil {
		return err
	}
	if target.PendingOrganizationID != principal.Organization.ID {
		return domain.WrapError(domain.ErrValidation, "reject user", errors.New("user has no pending membership for this organization"))
	}
	if err := uc.users.SetMembership(ctx, target.ID, target.OrganizationID, ""); err != nil {
		return fmt.Errorf("reject user: %w", err)
	}
	return nil
}

// SetAdmin toggles the admin flag. Removing the last admin is refused with no
// mutation; the last-admin guard runs first so a sole admin demoting
// themselves sees the invariant, not the self-action refusal. Self-demotion is
// refused regardless of admin count.
func (uc *AdminUsersUseCase) SetAdmin(ctx context.Context, actingUserID, targetUserID string, isAdmin bool) error {
	principal, target, err := uc.resolveTarget(ctx, actingUserID, targetUserID)
	if err != nil {
		return err
	}
	if !isAdmin && target.IsAdmin {
		if err := uc.requireAnotherAdmin(ctx, principal.Organization.ID, "set admin"); err != nil {
			return err
		}
	}
	if target.ID == principal.User.ID {
		return domain.WrapError(domain.ErrSelfActionDenied, "set admin", errors.New("cannot change own admin status"))
	}
	if err := uc.users.SetAdmin(ctx, target.ID, isAdmin); err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	return nil
}

// DeleteUser removes the target account. Guard order matches SetAdmin:
// last-admin first, then the unconditional self-deletion refusal.
func (uc *AdminUsersUseCase) DeleteUser(ctx context.Context, actingUserID, targetUserID string) error {
	principal, target, err := uc.resolveTarget(ctx, actingUserID, targetUserID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		if err := uc.requireAnotherAdmin(ctx, principal.Organization.ID, "delete user"); err != nil {
			return err
		}
	}
	if target.ID == principal.User.ID {
		return domain.WrapError(domain.ErrSelfActionDenied, "delete user", errors.New("cannot delete own account"))
	}
	if err := uc.users.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// resolveTarget loads the acting admin and the target user, and rejects
// cross-tenant targets before any state is touched.
func (uc *AdminUsersUseCase) resolveTarget(ctx context.Context, actingUserID, targetUserID string) (*domain.Principal, *domain.User, error) {
	principal, err := uc.tenancy.ResolveAdmin(ctx, actingUserID)
	if err != nil {
		return nil, nil, err
	}
	target, err := uc.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch target user: %w", err)
	}
	if !target.BelongsTo(principal.Organization.ID) {
		return nil, nil, domain.WrapError(domain.ErrForbidden, "resolve target user",
			errors.New("user belongs to another organization"))
	}
	return principal, target, nil
}

func (uc *AdminUsersUseCase) requireAnotherAdmin(ctx context.Context, organizationID, operation string) error {
	count, err := uc.users.CountAdmins(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count <= 1 {
		return domain.WrapError(domain.ErrLastAdminProtected, operation,
			errors.New("organization must retain at least one admin"))
	}
	return nil
}
