package httpadapter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// TokenAuthenticator resolves a bearer token to the acting user's id.
type TokenAuthenticator interface {
	Authenticate(token string) (userID string, err error)
}

type TokenAuthenticatorFunc func(token string) (string, error)

func (f TokenAuthenticatorFunc) Authenticate(token string) (string, error) {
	return f(token)
}

// authenticated wraps a handler that needs an acting user. Missing or invalid
// credentials short-circuit with 401 before the handler runs.
func (rt *Router) authenticated(handler func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, domain.WrapError(domain.ErrUnauthenticated, "authorize request", errors.New("missing bearer token")))
			return
		}
		userID, err := rt.authenticator.Authenticate(token)
		if err != nil {
			if !domain.IsKind(err, domain.ErrUnauthenticated) {
				err = domain.WrapError(domain.ErrUnauthenticated, "authorize request", err)
			}
			writeError(w, err)
			return
		}
		handler(w, r, userID)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
