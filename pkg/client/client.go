// Package client is a Go client for the todo API. Every call carries the
// configured X-Provider header so the caller chooses the backing store.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	kithttp "github.com/cecil-the-coder/todo-provider-kit/internal/http"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// DefaultBaseURL is the address the server listens on by default.
const DefaultBaseURL = "http://localhost:5000"

// Client talks to one todo API server through one provider.
type Client struct {
	baseURL  string
	provider string
	http     *kithttp.HTTPClient
}

// Option configures a Client.
type Option func(*Client)

// WithProvider sets the X-Provider header sent with every request.
func WithProvider(provider string) Option {
	return func(c *Client) { c.provider = provider }
}

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *kithttp.HTTPClient) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    kithttp.NewHTTPClient(kithttp.HTTPClientConfig{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the X-Provider value in use, or "" for the server default.
func (c *Client) Provider() string { return c.provider }

// List returns the items whose title contains search; a blank search lists everything.
func (c *Client) List(ctx context.Context, search string) ([]types.Item, error) {
	target := c.baseURL + "/api/todos"
	if search != "" {
		target += "?" + url.Values{"search": {search}}.Encode()
	}

	var items []types.Item
	if err := c.do(ctx, http.MethodGet, target, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns the item with the given id. The API has no single-item route, so
// it lists and filters.
func (c *Client) Get(ctx context.Context, id int) (types.Item, bool, error) {
	items, err := c.List(ctx, "")
	if err != nil {
		return types.Item{}, false, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return types.Item{}, false, nil
}

// Add creates an item and returns it with its assigned id.
func (c *Client) Add(ctx context.Context, item types.Item) (types.Item, error) {
	var created types.Item
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/todos", item, &created); err != nil {
		return types.Item{}, err
	}
	return created, nil
}

// Update replaces the item with item.ID.
func (c *Client) Update(ctx context.Context, item types.Item) error {
	return c.do(ctx, http.MethodPut, c.itemURL(item.ID), item, nil)
}

// Delete removes the item with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) itemURL(id int) string {
	return c.baseURL + "/api/todos/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, target string, body, out interface{}) error {
	rb := kithttp.NewRequestBuilder(method, target).
		WithContext(ctx).
		WithHeader(types.ProviderHeader, c.provider)
	if body != nil {
		rb = rb.WithJSONBody(body)
	}
	req, err := rb.Build()
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return kithttp.ReadAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, req.URL.Path, err)
	}
	return nil
}
