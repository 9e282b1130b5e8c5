package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

func TestErrorKindsMapToStatusesAndWireKinds(t *testing.T) {
	cases := []struct {
		name       string
		kind       error
		wantStatus int
		wantKind   string
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest, "validation"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"access_denied", domain.ErrAccessDenied, http.StatusForbidden, "access_denied"},
		{"self_action_denied", domain.ErrSelfActionDenied, http.StatusForbidden, "self_action_denied"},
		{"not_found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "conflict"},
		{"last_admin_protected", domain.ErrLastAdminProtected, http.StatusConflict, "last_admin_protected"},
		{"capacity_exceeded", domain.ErrCapacityExceeded, http.StatusInsufficientStorage, "capacity_exceeded"},
		{"timeout", domain.ErrTimeout, http.StatusGatewayTimeout, "timeout"},
		{"temporary", domain.ErrTemporary, http.StatusServiceUnavailable, "temporary"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := tc.kind
			if tc.wantKind != "internal" {
				failure = domain.WrapError(tc.kind, "list koopovereenkomsten", errors.New("detail"))
			}
			workflow := &workflowStub{
				listFn: func(context.Context, string) ([]domain.Koopovereenkomst, error) {
					return nil, failure
				},
			}
			handler := newTestHandler(RouterDeps{Workflow: workflow})

			res := httptest.NewRecorder()
			handler.ServeHTTP(res, authedRequest(http.MethodGet, "/v1/koopovereenkomsten", ""))
			if res.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, res.Code)
			}

			var payload map[string]string
			if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload["kind"] != tc.wantKind {
				t.Fatalf("expected kind %q, got %q", tc.wantKind, payload["kind"])
			}
			if payload["error"] == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}
