package httpadapter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

func (rt *Router) listUsers(w http.ResponseWriter, r *http.Request, userID string) {
	users, err := rt.admin.ListUsers(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// adminUserAction dispatches membership mutations. The body carries the action
// name so the admin UI has a single endpoint for approve/reject/toggle/delete.
func (rt *Router) adminUserAction(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Action  string `json:"action"`
		UserID  string `json:"userId"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, domain.WrapError(domain.ErrValidation, "admin user action", errors.New("invalid json body")))
		return
	}
	if req.UserID == "" {
		writeError(w, domain.WrapError(domain.ErrValidation, "admin user action", errors.New("userId is required")))
		return
	}

	var err error
	switch req.Action {
	case "approve":
		err = rt.admin.ApproveUser(r.Context(), userID, req.UserID)
	case "reject":
		err = rt.admin.RejectUser(r.Context(), userID, req.UserID)
	case "toggleAdmin":
		if req.IsAdmin == nil {
			err = domain.WrapError(domain.ErrValidation, "admin user action", errors.New("isAdmin is required for toggleAdmin"))
			break
		}
		err = rt.admin.SetAdmin(r.Context(), userID, req.UserID, *req.IsAdmin)
	case "delete":
		err = rt.admin.DeleteUser(r.Context(), userID, req.UserID)
	default:
		err = domain.WrapError(domain.ErrValidation, "admin user action", fmt.Errorf("unknown action %q", req.Action))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
