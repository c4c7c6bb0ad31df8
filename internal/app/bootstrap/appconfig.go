// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports,
// TLS, logging level, CORS, timeouts). AppConfig is everything specific
// to ShepherdHub: the MongoDB connection, token signing, and the
// first-run super_admin bootstrap.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session token configuration. JWTSecret must be strong in
	// production; the default exists only so dev boots.
	JWTSecret string
	JWTExpiry time.Duration

	// First-run bootstrap: when the users collection is empty, an
	// account with these credentials is created as super_admin.
	BootstrapAdminUsername string
	BootstrapAdminPassword string
	BootstrapAdminName     string
}
