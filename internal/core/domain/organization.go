package domain

import (
	"strings"
	"time"
)

// BillingProfile holds the invoicing fields of an organization. Each field is
// individually optional, but the workflow feature may only be enabled once the
// set is complete.
type BillingProfile struct {
	Name       string `json:"billingName"`
	Address    string `json:"billingAddress"`
	PostalCode string `json:"billingPostalCode"`
	City       string `json:"billingCity"`
	Country    string `json:"billingCountry"`
	VATNumber  string `json:"billingVATNumber"`
	Email      string `json:"billingEmail"`
}

// Complete reports whether every required billing field is populated. The VAT
// number is informational and not part of the entitlement check.
func (b BillingProfile) Complete() bool {
	for _, field := range []string{b.Name, b.Address, b.PostalCode, b.City, b.Country, b.Email} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// Organization is the tenancy and billing boundary. Domain is the unique
// tenant key; it is also sent to the extraction service as the tenant name.
type Organization struct {
	ID                      string         `json:"id"`
	Name                    string         `json:"name"`
	Domain                  string         `json:"domain"`
	Billing                 BillingProfile `json:"billing"`
	DocumentWorkflowEnabled bool           `json:"documentWorkflowEnabled"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

// WorkflowAccessible reports feature entitlement: the flag alone is not
// enough, the billing profile must also be complete.
func (o Organization) WorkflowAccessible() bool {
	return o.DocumentWorkflowEnabled && o.Billing.Complete()
}

// OrganizationSettings is the admin-editable subset of an organization.
type OrganizationSettings struct {
	Billing                 BillingProfile
	DocumentWorkflowEnabled bool
}
