package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/backendtypes"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// healthCheckTimeout bounds each provider's HealthCheck.
const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	providers map[string]types.Provider
	version   string
	startTime time.Time
}

func NewHealthHandler(providers map[string]types.Provider, version string) *HealthHandler {
	return &HealthHandler{
		providers: providers,
		version:   version,
		startTime: time.Now(),
	}
}

// Status returns simple liveness status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{"status": "ok"})
}

// Health checks every provider concurrently and reports "degraded" if any fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var (
		mu             sync.Mutex
		wg             sync.WaitGroup
		healthy        = true
		providerHealth = make(map[string]backendtypes.ProviderHealth, len(h.providers))
	)

	for name, p := range h.providers {
		wg.Add(1)
		go func(name string, p types.Provider) {
			defer wg.Done()
			ph := checkProvider(r.Context(), p)

			mu.Lock()
			defer mu.Unlock()
			providerHealth[name] = ph
			if ph.Status != "ok" {
				healthy = false
			}
		}(name, p)
	}
	wg.Wait()

	status := "healthy"
	if !healthy {
		status = "degraded"
	}

	SendSuccess(w, r, backendtypes.HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Providers: providerHealth,
	})
}

func checkProvider(ctx context.Context, p types.Provider) backendtypes.ProviderHealth {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := p.HealthCheck(ctx)
	ph := backendtypes.ProviderHealth{
		Type:    string(p.Type()),
		Status:  "ok",
		Latency: time.Since(start).Milliseconds(),
	}
	if err != nil {
		ph.Status = "error"
		ph.Message = err.Error()
	}
	return ph
}

// Version returns version information
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{
		"version": h.version,
	})
}
