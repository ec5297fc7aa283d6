// Package factory provides the provider factory pattern for creating and selecting
// to-do storage providers. It includes provider registration, configuration validation,
// and the per-request Selector that maps an X-Provider key to a provider instance.
package factory
