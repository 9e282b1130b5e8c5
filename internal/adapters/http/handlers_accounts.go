package httpadapter

import (
	"errors"
	"net/http"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

func (rt *Router) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string `json:"name"`
		Email              string `json:"email"`
		Password           string `json:"password"`
		OrganizationName   string `json:"organizationName"`
		OrganizationDomain string `json:"organizationDomain"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, domain.WrapError(domain.ErrValidation, "register", errors.New("invalid json body")))
		return
	}

	user, message, err := rt.accounts.Register(r.Context(), domain.Registration{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		OrganizationName:   req.OrganizationName,
		OrganizationDomain: req.OrganizationDomain,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"message": message,
	})
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, domain.WrapError(domain.ErrValidation, "login", errors.New("invalid json body")))
		return
	}

	session, err := rt.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
