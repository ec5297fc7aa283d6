package backend

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecil-the-coder/todo-provider-kit/pkg/backendtypes"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/factory"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/providers/memory"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/providers/sqlite"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

func testConfig() backendtypes.BackendConfig {
	return backendtypes.BackendConfig{
		Server: backendtypes.ServerConfig{
			Host:    "127.0.0.1",
			Port:    0,
			Version: "test",
		},
		CORS: backendtypes.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"*"},
			AllowedHeaders: []string{"*"},
		},
	}
}

type testServer struct {
	*Server
	memory *memory.MemoryProvider
	sqlite *sqlite.SQLiteProvider
}

func newTestServer(t *testing.T, config backendtypes.BackendConfig) *testServer {
	t.Helper()
	mem := memory.NewMemoryProvider(types.ProviderConfig{})
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testServer{
		Server: NewServer(config, factory.NewSelector(mem, db, "")),
		memory: mem,
		sqlite: db,
	}
}

func (ts *testServer) request(t *testing.T, method, path, provider, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if provider != "" {
		req.Header.Set("X-Provider", provider)
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func (ts *testServer) list(t *testing.T, query, provider string) []types.Item {
	t.Helper()
	w := ts.request(t, http.MethodGet, "/api/todos"+query, provider, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []types.Item
	require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	return items
}

func itemTitles(items []types.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

var bothProviders = []struct {
	name   string
	header string
}{
	{"transient", ""},
	{"durable", "EfCore"},
}

// TestServer_Lifecycle tests add, list, update, search and delete against both providers
func TestServer_Lifecycle(t *testing.T) {
	for _, p := range bothProviders {
		t.Run(p.name, func(t *testing.T) {
			ts := newTestServer(t, testConfig())

			for _, title := range []string{"subtitled", "other"} {
				w := ts.request(t, http.MethodPost, "/api/todos", p.header, `{"title":"`+title+`"}`)
				require.Equal(t, http.StatusOK, w.Code)
			}

			all := ts.list(t, "", p.header)
			if diff := cmp.Diff([]string{"subtitled", "other"}, itemTitles(all)); diff != "" {
				t.Errorf("list mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, []string{"subtitled", "other"}, itemTitles(ts.list(t, "?search=%20%20%20", p.header)))
			assert.Equal(t, []string{"subtitled"}, itemTitles(ts.list(t, "?search=TLE", p.header)))

			w := ts.request(t, http.MethodPut, "/api/todos/2", p.header, `{"id":2,"title":"other","isComplete":true,"createdAt":"2024-01-01T00:00:00Z"}`)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Body.String())

			all = ts.list(t, "", p.header)
			require.Len(t, all, 2)
			assert.True(t, all[1].IsComplete)
			assert.True(t, all[1].CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

			w = ts.request(t, http.MethodDelete, "/api/todos/1", p.header, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, []string{"other"}, itemTitles(ts.list(t, "", p.header)))
		})
	}
}

// TestServer_IDsNotReused tests Add A, Add B, Delete 1, Add C against both providers
func TestServer_IDsNotReused(t *testing.T) {
	for _, p := range bothProviders {
		t.Run(p.name, func(t *testing.T) {
			ts := newTestServer(t, testConfig())

			ts.request(t, http.MethodPost, "/api/todos", p.header, `{"title":"A"}`)
			ts.request(t, http.MethodPost, "/api/todos", p.header, `{"title":"B"}`)
			ts.request(t, http.MethodDelete, "/api/todos/1", p.header, "")
			w := ts.request(t, http.MethodPost, "/api/todos", p.header, `{"title":"C"}`)

			var c types.Item
			require.NoError(t, json.NewDecoder(w.Body).Decode(&c))
			assert.Equal(t, 3, c.ID)
		})
	}
}

// TestServer_MissingIDIsNoop tests that update and delete of unknown ids succeed without effect
func TestServer_MissingIDIsNoop(t *testing.T) {
	for _, p := range bothProviders {
		t.Run(p.name, func(t *testing.T) {
			ts := newTestServer(t, testConfig())
			ts.request(t, http.MethodPost, "/api/todos", p.header, `{"title":"only"}`)
			before := ts.list(t, "", p.header)

			assert.Equal(t, http.StatusOK, ts.request(t, http.MethodPut, "/api/todos/42", p.header, `{"title":"ghost"}`).Code)
			assert.Equal(t, http.StatusOK, ts.request(t, http.MethodDelete, "/api/todos/42", p.header, "").Code)

			if diff := cmp.Diff(before, ts.list(t, "", p.header)); diff != "" {
				t.Errorf("store changed (-before +after):\n%s", diff)
			}
		})
	}
}

// TestServer_ProvidersAreIsolated tests that the header picks the store
func TestServer_ProvidersAreIsolated(t *testing.T) {
	ts := newTestServer(t, testConfig())

	ts.request(t, http.MethodPost, "/api/todos", "EfCore", `{"title":"durable"}`)
	ts.request(t, http.MethodPost, "/api/todos", "", `{"title":"transient"}`)
	ts.request(t, http.MethodPost, "/api/todos", "Unknown", `{"title":"also transient"}`)

	assert.Equal(t, []string{"durable"}, itemTitles(ts.list(t, "", "EfCore")))
	assert.Equal(t, []string{"transient", "also transient"}, itemTitles(ts.list(t, "", "")))
	assert.Equal(t, 2, ts.memory.Len())
}

// TestServer_EmptyListIsArray tests the [] encoding of an empty store
func TestServer_EmptyListIsArray(t *testing.T) {
	ts := newTestServer(t, testConfig())

	for _, p := range bothProviders {
		w := ts.request(t, http.MethodGet, "/api/todos", p.header, "")
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()), p.name)
	}
}

// TestServer_RouteCasing tests that the collection prefix ignores case
func TestServer_RouteCasing(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.request(t, http.MethodPost, "/api/Todos", "", `{"title":"cased"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusOK, ts.request(t, http.MethodPut, "/API/TODOS/1", "", `{"title":"cased","isComplete":true}`).Code)
	items := ts.list(t, "", "")
	require.Len(t, items, 1)
	assert.True(t, items[0].IsComplete)

	assert.Equal(t, http.StatusNotFound, ts.request(t, http.MethodGet, "/api/todosextra", "", "").Code)
}

// TestServer_CollectionTrailingSlash tests that the collection path accepts one trailing slash
func TestServer_CollectionTrailingSlash(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.request(t, http.MethodPost, "/api/todos/", "", `{"title":"slashed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, path := range []string{"/api/todos/", "/API/Todos/"} {
		w = ts.request(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, w.Code, path)
		var items []types.Item
		require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		assert.Equal(t, []string{"slashed"}, itemTitles(items), path)
	}
}

// TestServer_MethodNotAllowed tests that unsupported methods are rejected by the router
func TestServer_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, testConfig())

	assert.Equal(t, http.StatusMethodNotAllowed, ts.request(t, http.MethodPatch, "/api/todos/1", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, ts.request(t, http.MethodDelete, "/api/todos", "", "").Code)
}

// TestServer_CORS tests preflight and simple CORS responses
func TestServer_CORS(t *testing.T) {
	ts := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/todos/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	req.Header.Set("Access-Control-Request-Headers", "x-provider")
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DELETE", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "x-provider", w.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Origin", "http://elsewhere.test")
	w = httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// TestServer_RequestID tests that every response carries a request id
func TestServer_RequestID(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.request(t, http.MethodGet, "/api/todos", "", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 32)

	w = ts.request(t, http.MethodGet, "/api/todos/abc", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = ts.request(t, http.MethodPut, "/api/todos/abc", "", `{}`)
	var resp backendtypes.APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)
}

// TestServer_Health tests the health endpoint against real providers
func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, testConfig())

	w := ts.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                        `json:"success"`
		Data    backendtypes.HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, "test", resp.Data.Version)
	assert.Equal(t, "InMemory", resp.Data.Providers["memory"].Type)
	assert.Equal(t, "EfCore", resp.Data.Providers["sqlite"].Type)

	require.NoError(t, ts.sqlite.Close())
	w = ts.request(t, http.MethodGet, "/health", "", "")
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Data.Status)
}

// TestServer_StorageError tests that a failing durable store yields 500 STORAGE_ERROR
func TestServer_StorageError(t *testing.T) {
	ts := newTestServer(t, testConfig())
	require.NoError(t, ts.sqlite.Close())

	w := ts.request(t, http.MethodGet, "/api/todos", "EfCore", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp backendtypes.APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "STORAGE_ERROR", resp.Error.Code)

	assert.Equal(t, http.StatusOK, ts.request(t, http.MethodGet, "/api/todos", "", "").Code)
}

// TestServer_Auth tests that the optional bearer key guards the API but not /health
func TestServer_Auth(t *testing.T) {
	config := testConfig()
	config.Auth = backendtypes.AuthConfig{
		Enabled:     true,
		APIPassword: "secret",
		PublicPaths: []string{"/health"},
	}
	ts := newTestServer(t, config)

	assert.Equal(t, http.StatusUnauthorized, ts.request(t, http.MethodGet, "/api/todos", "", "").Code)
	assert.Equal(t, http.StatusOK, ts.request(t, http.MethodGet, "/health", "", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestServer_RateLimit tests that the limiter is wired when enabled
func TestServer_RateLimit(t *testing.T) {
	config := testConfig()
	config.RateLimit = backendtypes.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	ts := newTestServer(t, config)

	assert.Equal(t, http.StatusOK, ts.request(t, http.MethodGet, "/status", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.request(t, http.MethodGet, "/status", "", "").Code)
}

// TestServer_ServeAndShutdown tests serving on a real listener and shutting down
func TestServer_ServeAndShutdown(t *testing.T) {
	ts := newTestServer(t, testConfig())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ts.Serve(l) }()

	url := "http://" + l.Addr().String() + "/status"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, ts.Shutdown(ctx))
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}

// TestServer_ServeWithGracefulShutdown tests that cancelling the context stops the server cleanly
func TestServer_ServeWithGracefulShutdown(t *testing.T) {
	ts := newTestServer(t, testConfig())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ts.ServeWithGracefulShutdown(ctx, l) }()

	url := "http://" + l.Addr().String() + "/api/todos"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}

// TestServer_ListenAndServeWithGracefulShutdown tests listening on the configured address
func TestServer_ListenAndServeWithGracefulShutdown(t *testing.T) {
	config := testConfig()
	config.Server.ShutdownTimeout = time.Second
	ts := newTestServer(t, config)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, ts.ListenAndServeWithGracefulShutdown(ctx))
	assert.Equal(t, time.Second, ts.shutdownTimeout())
}

// TestServer_ListenError tests that a bad address is reported before serving
func TestServer_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	config := testConfig()
	config.Server.Port = l.Addr().(*net.TCPAddr).Port
	ts := newTestServer(t, config)

	err = ts.ListenAndServeWithGracefulShutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}

// TestServer_GetConfig tests the accessors
func TestServer_GetConfig(t *testing.T) {
	ts := newTestServer(t, testConfig())

	assert.Equal(t, "test", ts.GetConfig().Server.Version)
	assert.Equal(t, factory.DefaultDurableKey, ts.Selector().DurableKey())
	assert.Equal(t, 10*time.Second, ts.shutdownTimeout())
}
