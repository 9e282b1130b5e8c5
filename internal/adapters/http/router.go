package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jpvandijk/koopflow/internal/core/ports"
)

// TrafficConfig tunes the inbound traffic-control middleware. Zero values
// disable the corresponding gate.
type TrafficConfig struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
}

type Router struct {
	workflow      ports.DocumentWorkflow
	accounts      ports.AccountService
	admin         ports.AdminDirectory
	organizations ports.OrganizationService
	instructions  ports.InstructionStore
	authenticator TokenAuthenticator

	metricsHandler http.Handler
	traffic        TrafficConfig
}

type RouterDeps struct {
	Workflow       ports.DocumentWorkflow
	Accounts       ports.AccountService
	Admin          ports.AdminDirectory
	Organizations  ports.OrganizationService
	Instructions   ports.InstructionStore
	Authenticator  TokenAuthenticator
	MetricsHandler http.Handler
	Traffic        TrafficConfig
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		workflow:       deps.Workflow,
		accounts:       deps.Accounts,
		admin:          deps.Admin,
		organizations:  deps.Organizations,
		instructions:   deps.Instructions,
		authenticator:  deps.Authenticator,
		metricsHandler: deps.MetricsHandler,
		traffic:        deps.Traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metricsHandler != nil {
		mux.Handle("GET /metrics", rt.metricsHandler)
	}

	mux.HandleFunc("POST /v1/auth/register", rt.register)
	mux.HandleFunc("POST /v1/auth/login", rt.login)

	mux.HandleFunc("GET /v1/koopovereenkomsten", rt.authenticated(rt.listDocuments))
	mux.HandleFunc("POST /v1/koopovereenkomsten", rt.authenticated(rt.uploadDocument))
	mux.HandleFunc("POST /v1/koopovereenkomsten/extract", rt.authenticated(rt.extractDocument))
	mux.HandleFunc("GET /v1/koopovereenkomsten/{id}", rt.authenticated(rt.getDocument))
	mux.HandleFunc("PATCH /v1/koopovereenkomsten/{id}", rt.authenticated(rt.updateDocument))
	mux.HandleFunc("DELETE /v1/koopovereenkomsten/{id}", rt.authenticated(rt.deleteDocument))

	mux.HandleFunc("GET /v1/admin/users", rt.authenticated(rt.listUsers))
	mux.HandleFunc("POST /v1/admin/users", rt.authenticated(rt.adminUserAction))

	mux.HandleFunc("GET /v1/organization", rt.authenticated(rt.organizationSummary))
	mux.HandleFunc("GET /v1/organization/settings", rt.authenticated(rt.organizationSettings))
	mux.HandleFunc("PUT /v1/organization/settings", rt.authenticated(rt.updateOrganizationSettings))

	mux.HandleFunc("GET /v1/werkinstructies", rt.authenticated(rt.listInstructions))
	mux.HandleFunc("GET /v1/werkinstructies/{slug}", rt.authenticated(rt.getInstruction))

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.traffic.MaxInFlight, rt.traffic.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
