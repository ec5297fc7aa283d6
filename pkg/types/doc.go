// Package types defines the core interfaces and data structures for the to-do service.
// It includes the Item model, the TodoProvider interface implemented by every storage
// backend, the ProviderType enumeration used for per-request selection, and the
// ProviderError type returned by providers.
package types
