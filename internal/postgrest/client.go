// Package postgrest implements a small client for a PostgREST-style record
// store: generic list/insert/update/delete/upsert against named tables, with
// bearer auth resolved per call and structured error decoding.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TokenSource resolves the bearer credential for a request. An empty token
// means no active session; the client falls back to the anonymous key.
type TokenSource interface {
	Token() string
}

// AnonymousTokenSource always yields the anonymous key fallback.
type AnonymousTokenSource struct{}

// Token implements TokenSource.
func (AnonymousTokenSource) Token() string { return "" }

// Client calls a PostgREST record store.
type Client struct {
	baseURL string
	anonKey string
	tokens  TokenSource
	client  *http.Client
}

// NewClient creates a client for the given base URL and anonymous key.
// Tokens may be nil, in which case all calls use the anonymous key.
func NewClient(baseURL, anonKey string, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = AnonymousTokenSource{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		tokens:  tokens,
		client:  &http.Client{},
	}
}

// List fetches rows matching the query and decodes them into dest, which
// must be a pointer to a slice.
func (c *Client) List(ctx context.Context, table string, query Query, dest any) error {
	return c.do(ctx, http.MethodGet, c.tableURL(table, query.Encode()), nil, nil, dest)
}

// GetByID fetches a single row by id, returning ErrNotFound when absent.
func (c *Client) GetByID(ctx context.Context, table, id string, dest any) error {
	var rows []json.RawMessage
	query := NewQuery().Eq("id", id).Limit(1)
	if err := c.do(ctx, http.MethodGet, c.tableURL(table, query.Encode()), nil, nil, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s id %s", ErrNotFound, table, id)
	}
	return json.Unmarshal(rows[0], dest)
}

// Insert creates rows from record and decodes the created representation
// into dest when dest is non-nil.
func (c *Client) Insert(ctx context.Context, table string, record, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	return c.do(ctx, http.MethodPost, c.tableURL(table, ""), record, headers, dest)
}

// Upsert creates or merges rows keyed by the table's uniqueness constraint.
func (c *Client) Upsert(ctx context.Context, table string, record, dest any) error {
	headers := map[string]string{"Prefer": "resolution=merge-duplicates,return=representation"}
	return c.do(ctx, http.MethodPost, c.tableURL(table, ""), record, headers, dest)
}

// Update patches rows matching the query and decodes the updated
// representation into dest when dest is non-nil.
func (c *Client) Update(ctx context.Context, table string, query Query, patch, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	return c.do(ctx, http.MethodPatch, c.tableURL(table, query.Encode()), patch, headers, dest)
}

// Delete removes rows matching the query.
func (c *Client) Delete(ctx context.Context, table string, query Query) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table, query.Encode()), nil, nil, nil)
}

func (c *Client) tableURL(table, query string) string {
	u := c.baseURL + "/rest/v1/" + table
	if query != "" {
		u += "?" + query
	}
	return u
}

func (c *Client) do(ctx context.Context, method, url string, payload any, headers map[string]string, dest any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(dest)
}

func (c *Client) bearer() string {
	if token := c.tokens.Token(); token != "" {
		return token
	}
	return c.anonKey
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(apiErr); err != nil || (apiErr.Message == "" && apiErr.Code == "") {
		apiErr.Message = resp.Status
	}
	return apiErr
}
