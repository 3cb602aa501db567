// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to lessonlab lives: the MongoDB
// connection, the token verification secret, and admin seeding.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Bearer token verification configuration
	AuthSecret string // HMAC secret used to verify access tokens (must be strong in production)
	AuthIssuer string // Expected token issuer (blank disables the issuer check)

	// Admin seeding configuration
	SeedAdminEmail string // Email of the admin user to create on startup (if set)
	SeedAdminName  string // Name of the admin user to create on startup
}
