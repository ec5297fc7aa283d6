// Package backendtypes defines types for backend server configuration and API communication.
//
// This package provides shared type definitions used by the backend package and the
// todo-api command. It separates type definitions from implementation to allow clean
// imports without circular dependencies.
//
// # Configuration Types
//
// BackendConfig and related types define how the backend server is configured:
//
//   - ServerConfig: HTTP server settings (host, port, timeouts)
//   - AuthConfig: Optional static API key
//   - LoggingConfig: Logging settings
//   - CORSConfig: Cross-origin resource sharing settings
//   - RateLimitConfig: Request rate limiting
//   - ProvidersConfig: Storage provider selection and the SQLite DSN
//
// # Response Types
//
// The to-do endpoints return bare items. Everything else, including errors, uses
// the APIResponse envelope.
package backendtypes
