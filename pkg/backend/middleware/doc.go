// Package middleware provides HTTP middleware components for the todo API server.
// It includes middleware for authentication, CORS, rate limiting, request logging,
// request ID tracking, and panic recovery.
package middleware
