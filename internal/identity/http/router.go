package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/tokencache"

	_ "github.com/aussiebroadwan/identity/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier jwtx.Verifier
	keys     jwtx.KeyProvider
	cache    *tokencache.Cache
	db       Pinger
	logger   *slog.Logger

	LoginService     Authenticator
	BootstrapService *service.BootstrapService
}

func NewRouter(
	verifier jwtx.Verifier,
	keys jwtx.KeyProvider,
	cache *tokencache.Cache,
	db Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:      http.NewServeMux(),
		verifier: verifier,
		keys:     keys,
		cache:    cache,
		db:       db,
		logger:   logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerToken()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Identity Token Service API
//	@version					0.1.0
//	@description				Issues HS512-signed bearer tokens in exchange for login credentials. A caller whose token is still valid receives the same token again.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/identity
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
//	@description				JWT bearer token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerToken() {
	// Keyed on client address plus the login being tried.
	r.Mux.Handle("POST /api/token-auth/login",
		httpx.Chain(&LoginHandler{Authenticator: r.LoginService},
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "login"),
		),
	)

	r.Mux.Handle("GET /api/token-auth/data",
		httpx.Chain(DataHandler(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/token-auth/me",
		httpx.Chain(MeHandler(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.db, r.keys, r.cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// One-time setup endpoint.
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}
