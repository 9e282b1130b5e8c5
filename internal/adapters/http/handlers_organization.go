package httpadapter

import (
	"errors"
	"net/http"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

func (rt *Router) organizationSummary(w http.ResponseWriter, r *http.Request, userID string) {
	org, err := rt.organizations.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (rt *Router) organizationSettings(w http.ResponseWriter, r *http.Request, userID string) {
	org, err := rt.organizations.Settings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (rt *Router) updateOrganizationSettings(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		BillingName             string `json:"billingName"`
		BillingAddress          string `json:"billingAddress"`
		BillingPostalCode       string `json:"billingPostalCode"`
		BillingCity             string `json:"billingCity"`
		BillingCountry          string `json:"billingCountry"`
		BillingVATNumber        string `json:"billingVATNumber"`
		BillingEmail            string `json:"billingEmail"`
		DocumentWorkflowEnabled bool   `json:"documentWorkflowEnabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, domain.WrapError(domain.ErrValidation, "update organization settings", errors.New("invalid json body")))
		return
	}

	org, err := rt.organizations.UpdateSettings(r.Context(), userID, domain.OrganizationSettings{
		Billing: domain.BillingProfile{
			Name:       req.BillingName,
			Address:    req.BillingAddress,
			PostalCode: req.BillingPostalCode,
			City:       req.BillingCity,
			Country:    req.BillingCountry,
			VATNumber:  req.BillingVATNumber,
			Email:      req.BillingEmail,
		},
		DocumentWorkflowEnabled: req.DocumentWorkflowEnabled,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}
