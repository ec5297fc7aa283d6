// Package handlers provides HTTP request handlers for the todo API server.
// It includes the todo collection handlers, health and version endpoints, and
// helpers for writing JSON responses in the standard envelope.
package handlers
