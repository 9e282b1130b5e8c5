package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpvandijk/koopflow/internal/core/domain"
	"github.com/jpvandijk/koopflow/internal/core/ports"
)

// OrganizationUseCase exposes organization reads for members and settings
// mutation for admins.
type OrganizationUseCase struct {
	tenancy *TenancyDirectory
	orgs    ports.OrganizationRepository
}

func NewOrganizationUseCase(tenancy *TenancyDirectory, orgs ports.OrganizationRepository) *OrganizationUseCase {
	return &OrganizationUseCase{tenancy: tenancy, orgs: orgs}
}

// Summary returns the caller's organization. Members see the identity fields
// and the effective workflow entitlement, handlers project away the billing
// profile.
func (uc *OrganizationUseCase) Summary(ctx context.Context, actingUserID string) (*domain.Organization, error) {
	principal, err := uc.tenancy.Resolve(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	return principal.Organization, nil
}

// Settings returns the full organization including billing, admins only.
func (uc *OrganizationUseCase) Settings(ctx context.Context, actingUserID string) (*domain.Organization, error) {
	principal, err := uc.tenancy.ResolveAdmin(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	return principal.Organization, nil
}

// UpdateSettings applies billing fields and the workflow flag. Enabling the
// flag with an incomplete billing profile is refused; this is the boundary
// where the billing-complete invariant is enforced.
func (uc *OrganizationUseCase) UpdateSettings(ctx context.Context, actingUserID string, settings domain.OrganizationSettings) (*domain.Organization, error) {
	principal, err := uc.tenancy.ResolveAdmin(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if settings.DocumentWorkflowEnabled && !settings.Billing.Complete() {
		return nil, domain.WrapError(domain.ErrValidation, "update organization settings",
			errors.New("billing profile must be complete before enabling the document workflow"))
	}
	updated, err := uc.orgs.UpdateSettings(ctx, principal.Organization.ID, settings)
	if err != nil {
		return nil, fmt.Errorf("update organization settings: %w", err)
	}
	return updated, nil
}
