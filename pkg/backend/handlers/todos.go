package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/backend/middleware"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// ProviderResolver picks the provider that serves a request from its X-Provider value.
type ProviderResolver interface {
	Resolve(key string) types.Provider
}

// TodoHandler serves the /api/todos collection. Every request is delegated to
// the provider its X-Provider header resolves to.
type TodoHandler struct {
	resolver ProviderResolver
	logger   *slog.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(resolver ProviderResolver, logger *slog.Logger) *TodoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TodoHandler{
		resolver: resolver,
		logger:   logger,
	}
}

func (h *TodoHandler) provider(r *http.Request) types.Provider {
	return h.resolver.Resolve(r.Header.Get(types.ProviderHeader))
}

// List returns every item, filtered by the optional search query parameter
// GET /api/todos?search={text}
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	p := h.provider(r)

	items, err := p.GetAll(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.sendProviderError(w, r, p, err)
		return
	}
	if items == nil {
		items = []types.Item{}
	}

	SendJSON(w, http.StatusOK, items)
}

// Create adds the item in the body and returns it with its assigned id
// POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	item := types.NewItem()
	if err := ParseJSON(r, &item); err != nil {
		SendError(w, r, "INVALID_REQUEST", "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	p := h.provider(r)
	created, err := p.Add(r.Context(), item)
	if err != nil {
		h.sendProviderError(w, r, p, err)
		return
	}

	SendJSON(w, http.StatusOK, created)
}

// Update replaces the item whose id is in the path. The path id wins over any
// id in the body; an unknown id is not an error.
// PUT /api/todos/{id}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	item := types.NewItem()
	if err := ParseJSON(r, &item); err != nil {
		SendError(w, r, "INVALID_REQUEST", "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	item.ID = id

	p := h.provider(r)
	if err := p.Update(r.Context(), item); err != nil {
		h.sendProviderError(w, r, p, err)
		return
	}

	SendOK(w)
}

// Delete removes the item whose id is in the path. An unknown id is not an error.
// DELETE /api/todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	p := h.provider(r)
	if err := p.Delete(r.Context(), id); err != nil {
		h.sendProviderError(w, r, p, err)
		return
	}

	SendOK(w)
}

func (h *TodoHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		SendError(w, r, "INVALID_REQUEST", "Invalid todo id '"+raw+"'", http.StatusBadRequest)
		return 0, false
	}
	return int(id), true
}

func (h *TodoHandler) sendProviderError(w http.ResponseWriter, r *http.Request, p types.Provider, err error) {
	h.logger.ErrorContext(r.Context(), "provider operation failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"provider", p.Name(),
		"error", err,
	)

	var pe *types.ProviderError
	if !errors.As(err, &pe) {
		SendError(w, r, "STORAGE_ERROR", "Storage operation failed", http.StatusInternalServerError)
		return
	}

	switch pe.Code {
	case types.ErrCodeInvalidRequest:
		SendError(w, r, "INVALID_REQUEST", pe.Message, http.StatusBadRequest)
	case types.ErrCodeNotFound:
		SendError(w, r, "NOT_FOUND", pe.Message, http.StatusNotFound)
	default:
		SendError(w, r, "STORAGE_ERROR", pe.Message, http.StatusInternalServerError)
	}
}
