package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, name, domain,
billing_name, billing_address, billing_postal_code, billing_city, billing_country,
billing_vat_number, billing_email, document_workflow_enabled, created_at, updated_at`

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO organizations (
	id, name, domain,
	billing_name, billing_address, billing_postal_code, billing_city, billing_country,
	billing_vat_number, billing_email, document_workflow_enabled, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`,
		org.ID, org.Name, org.Domain,
		org.Billing.Name, org.Billing.Address, org.Billing.PostalCode, org.Billing.City, org.Billing.Country,
		org.Billing.VATNumber, org.Billing.Email, org.DocumentWorkflowEnabled, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.getOne(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id)
}

func (r *OrganizationRepository) GetByDomain(ctx context.Context, tenantDomain string) (*domain.Organization, error) {
	return r.getOne(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE domain = $1`, tenantDomain)
}

func (r *OrganizationRepository) getOne(ctx context.Context, query, arg string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&org.ID, &org.Name, &org.Domain,
		&org.Billing.Name, &org.Billing.Address, &org.Billing.PostalCode, &org.Billing.City, &org.Billing.Country,
		&org.Billing.VATNumber, &org.Billing.Email, &org.DocumentWorkflowEnabled, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get organization", errors.New("no such organization"))
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) UpdateSettings(ctx context.Context, id string, settings domain.OrganizationSettings) (*domain.Organization, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE organizations
SET billing_name = $2, billing_address = $3, billing_postal_code = $4, billing_city = $5,
    billing_country = $6, billing_vat_number = $7, billing_email = $8,
    document_workflow_enabled = $9, updated_at = $10
WHERE id = $1
`,
		id,
		settings.Billing.Name, settings.Billing.Address, settings.Billing.PostalCode, settings.Billing.City,
		settings.Billing.Country, settings.Billing.VATNumber, settings.Billing.Email,
		settings.DocumentWorkflowEnabled, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("update organization settings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update organization settings rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.WrapError(domain.ErrNotFound, "update organization settings", errors.New("no such organization"))
	}
	return r.GetByID(ctx, id)
}
