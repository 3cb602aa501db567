// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	healthfeature "github.com/dalemusser/lessonlab/internal/app/features/health"
	lessonsfeature "github.com/dalemusser/lessonlab/internal/app/features/lessons"
	reportsfeature "github.com/dalemusser/lessonlab/internal/app/features/reports"
	socialfeature "github.com/dalemusser/lessonlab/internal/app/features/social"
	usersfeature "github.com/dalemusser/lessonlab/internal/app/features/users"
	lessonstore "github.com/dalemusser/lessonlab/internal/app/store/lessons"
	reportstore "github.com/dalemusser/lessonlab/internal/app/store/reports"
	userstore "github.com/dalemusser/lessonlab/internal/app/store/users"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/dalemusser/lessonlab/internal/app/system/authz"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The API is JSON-only and token-authenticated, so there is no session,
// CSRF, or template machinery here: every feature mounts its own routes
// with the permissive API CORS layer, and the per-route auth middleware
// decides whether a verified identity is required.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Token verifier shared by every authenticated route.
	verifier := auth.NewJWTVerifier([]byte(appCfg.AuthSecret), appCfg.AuthIssuer)

	// Stores and the authorizer they back.
	users := userstore.New(deps.MongoDatabase)
	lessons := lessonstore.New(deps.MongoDatabase)
	reports := reportstore.New(deps.MongoDatabase)
	az := authz.New(users)

	usersHandler := usersfeature.NewHandler(users, az, logger)
	lessonsHandler := lessonsfeature.NewHandler(lessons, users, az, logger)
	socialHandler := socialfeature.NewHandler(lessons, logger)
	reportsHandler := reportsfeature.NewHandler(reports, az, logger)

	r := chi.NewRouter()

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	usersfeature.MountRoutes(r, usersHandler, verifier, logger)
	lessonsfeature.MountRoutes(r, lessonsHandler, verifier, logger)
	socialfeature.MountRoutes(r, socialHandler, verifier, logger)
	reportsfeature.MountRoutes(r, reportsHandler, verifier, logger)

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	return r, nil
}
