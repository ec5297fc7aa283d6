// Package backend provides the HTTP server for the todo API.
//
// The server exposes the todo collection under /api/todos and delegates every
// request to the provider selected by the X-Provider header. It is organized
// into two sub-packages:
//
//   - handlers: the todo collection, health, status and version handlers
//   - middleware: request IDs, panic recovery, logging, CORS, rate limiting and auth
//
// # Example
//
//	selector, err := factory.BuildSelector(f, memoryConfig, sqliteConfig, "")
//	if err != nil {
//	    return err
//	}
//	server := backend.NewServer(config, selector)
//	server.ListenAndServeWithGracefulShutdown(ctx)
package backend
