// Package api is the HTTP client for the desk sync service. It handles
// request signing via the shared credential cell and maps server
// responses to sentinel errors the sync engine branches on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"getdesk.dev/cli/cmd/desk/cli/auth"
)

const userAgent = "desk-cli"

// defaultTimeout bounds every request when the config does not say
// otherwise.
const defaultTimeout = 30 * time.Second

// Client talks to the desk sync API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. The cell supplies
// bearer tokens; pass a timeout of 0 to use the default.
func NewClient(baseURL string, cell *auth.Cell, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newAuthTransport(cell, nil),
		},
	}
}

// List fetches all remote workspaces for the authenticated user.
func (c *Client) List(ctx context.Context) ([]RemoteWorkspace, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Workspaces, nil
}

// Create uploads a new workspace. The server assigns ID and version.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*RemoteWorkspace, error) {
	var resp RemoteWorkspace
	if err := c.do(ctx, http.MethodPost, "/v1/workspaces", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update replaces a remote workspace. Fails with ErrVersionConflict
// when req.Version is stale.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*RemoteWorkspace, error) {
	var resp RemoteWorkspace
	if err := c.do(ctx, http.MethodPut, "/v1/workspaces/"+id, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a remote workspace by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/workspaces/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with a close error here

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// mapError converts a non-2xx response into a sentinel or *Error.
func mapError(resp *http.Response) error {
	var body errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrNotAuthenticated
	case http.StatusForbidden:
		if body.Message != "" {
			return fmt.Errorf("%w: %s", ErrSubscriptionRequired, body.Message)
		}
		return ErrSubscriptionRequired
	case http.StatusNotFound:
		return ErrRemoteNotFound
	case http.StatusConflict:
		if body.Message != "" {
			return fmt.Errorf("%w: %s", ErrVersionConflict, body.Message)
		}
		return ErrVersionConflict
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return &Error{Status: resp.StatusCode, Message: body.Message}
	}
}
