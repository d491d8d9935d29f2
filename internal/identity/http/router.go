package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vantaworks/identity/internal/identity/service"
	"github.com/vantaworks/identity/internal/identity/store"
	"github.com/vantaworks/identity/pkg/httpx"
	"github.com/vantaworks/identity/pkg/slogx"

	_ "github.com/vantaworks/identity/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	errors       httpx.ErrorHandler
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

func NewRouter(buildVersion string, verbose bool, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		errors:       httpx.ErrorHandler{Verbose: verbose},
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.errors.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Identity Service API
//	@version		0.1.0
//	@description	Stateless user authentication service: registration, login and
//	@description	token refresh with HMAC-signed JWT access/refresh pairs.
//
//	@contact.name				VantaWorks Platform Team
//	@contact.url				https://github.com/vantaworks/identity
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	register := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/register", r.errors.Wrap(register.Handle))

	login := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/login", r.errors.Wrap(login.Handle))

	refresh := &RefreshHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/refresh", r.errors.Wrap(refresh.Handle))

	me := &MeHandler{AuthService: r.AuthService}
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(r.errors.Wrap(me.Handle),
			r.errors.Authn(r.TokenService),
		),
	)
}

func (r *Router) registerSystem() {
	// Liveness sits outside the error envelope and the request logging
	// conventions so probes stay cheap and quiet.
	r.Mux.Handle("GET /health", HealthHandler(r.buildVersion, r.startTime))
	r.Mux.Handle("GET /health/ready", ReadyHandler(r.store))
}
