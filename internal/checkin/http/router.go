package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/httpx"
	"github.com/aussiebroadwan/checkin/pkg/jwtx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/checkin/api/checkin" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier // nil disables staff auth
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	gatherer     prometheus.Gatherer

	store               store.Store
	RegistrationService *service.RegistrationService
	AttendeeService     *service.AttendeeService
	SessionService      *service.SessionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		gatherer:     gatherer,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAttendees()
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Event Check-in API
//	@version		0.1.0
//	@description	Attendee registration and QR code check-in for events.
//	@description
//	@description	Door stations open a scan session and push each decoded QR code to it. Every scan
//	@description	produces exactly one outcome: checked_in, already_checked_in, security_alert,
//	@description	not_found, invalid or transition_failed.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/checkin
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				HS256 staff token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// staff returns the auth middlewares for scope, or nothing when auth is
// disabled.
func (r *Router) staff(scopes ...string) []httpx.Middleware {
	if r.verifier == nil {
		return nil
	}
	return []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scopes...),
	}
}

func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	mws := append(r.staff(scopes...), httpx.RateLimitByStaff(limit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAttendees() {
	h := &AttendeesHandler{
		RegistrationService: r.RegistrationService,
		AttendeeService:     r.AttendeeService,
	}

	// Registration and the dashboard are admin operations; stations may
	// look up a single attendee.
	r.Mux.Handle("POST /v1/attendees",
		r.secured(http.HandlerFunc(h.HandleRegister), httpx.AdminLimit, jwtx.ScopeAdmin))
	r.Mux.Handle("GET /v1/attendees",
		r.secured(http.HandlerFunc(h.HandleList), httpx.ReadLimit, jwtx.ScopeAdmin))
	r.Mux.Handle("GET /v1/attendees/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.ReadLimit, jwtx.ScopeAdmin, jwtx.ScopeScan))
	r.Mux.Handle("GET /v1/attendees/{id}/qr.png",
		r.secured(http.HandlerFunc(h.HandleQR), httpx.ReadLimit, jwtx.ScopeAdmin))
	r.Mux.Handle("GET /v1/stats",
		r.secured(http.HandlerFunc(h.HandleStats), httpx.ReadLimit, jwtx.ScopeAdmin, jwtx.ScopeScan))
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	scopes := []string{jwtx.ScopeScan, jwtx.ScopeAdmin}
	r.Mux.Handle("POST /v1/sessions",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.AdminLimit, scopes...))
	r.Mux.Handle("GET /v1/sessions/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.ScanLimit, scopes...))
	r.Mux.Handle("DELETE /v1/sessions/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.AdminLimit, scopes...))
	r.Mux.Handle("POST /v1/sessions/{id}/scan",
		r.secured(http.HandlerFunc(h.HandleScan), httpx.ScanLimit, scopes...))
	r.Mux.Handle("POST /v1/sessions/{id}/image",
		r.secured(http.HandlerFunc(h.HandleImage), httpx.ScanLimit, scopes...))
	r.Mux.Handle("POST /v1/sessions/{id}/next",
		r.secured(http.HandlerFunc(h.HandleNext), httpx.ScanLimit, scopes...))
	r.Mux.Handle("POST /v1/sessions/{id}/restart",
		r.secured(http.HandlerFunc(h.HandleRestart), httpx.ScanLimit, scopes...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.ProbeLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.ProbeLimit),
		),
	)
	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics",
			httpx.Chain(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}),
				httpx.RateLimitByIP(httpx.ProbeLimit),
			),
		)
	}
}
