package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/leadisle/faceid/internal/pairing/service"
	"github.com/leadisle/faceid/internal/pairing/store"
	"github.com/leadisle/faceid/pkg/httpx"
	"github.com/leadisle/faceid/pkg/jwtx"
	"github.com/leadisle/faceid/pkg/slogx"

	_ "github.com/leadisle/faceid/api/pairing" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	PairingService *service.PairingService
	UserService    *service.UserService
	Hub            *service.Hub
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerCeremonies()
	r.registerUsers()
	r.registerEvents()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			FaceID Pairing Service API
//	@version		0.1.0
//	@description	Cross-device passwordless pairing: a PC opens a short-lived session and renders it as a QR code, a phone scans it and completes a WebAuthn ceremony against its platform authenticator, and the PC is notified of the outcome in real time.
//	@description
//	@description				Access tokens issued on successful authentication are EdDSA-signed JWTs verifiable via the JWKS endpoint.
//
//	@contact.name				Leadisle Team
//	@contact.url				https://github.com/leadisle/faceid
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{PairingService: r.PairingService}

	// POST /v1/sessions - moderate rate limit (each call writes a row)
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /v1/sessions/{id} - lenient rate limit (PCs poll this as a
	// fallback when the websocket is unavailable)
	r.Mux.Handle("GET /v1/sessions/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerCeremonies() {
	reg := &RegistrationHandler{PairingService: r.PairingService}
	auth := &AuthenticationHandler{PairingService: r.PairingService}

	// Ceremony endpoints carry signature verification and write session
	// state - strict rate limit by IP to slow brute force attempts.
	r.Mux.Handle("POST /v1/registration/start",
		httpx.Chain(http.HandlerFunc(reg.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/registration/finish",
		httpx.Chain(http.HandlerFunc(reg.HandleFinish),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/authentication/start",
		httpx.Chain(http.HandlerFunc(auth.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/authentication/finish",
		httpx.Chain(http.HandlerFunc(auth.HandleFinish),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// GET /v1/users - lenient rate limit (debug/demo listing)
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerEvents() {
	// GET /v1/events - websocket upgrade, no rate limit middleware: one
	// long-lived connection per PC, limited by the subscribe protocol.
	r.Mux.Handle("GET /v1/events", EventsHandler(r.Hub, r.logger))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
