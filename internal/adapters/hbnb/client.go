// internal/adapters/hbnb/client.go
package hbnb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

// Client talks to the HBnB REST backend (base path /api/v1). Every call sets
// Content-Type: application/json and attaches a bearer token only when one is
// supplied. Requests carry an explicit timeout and are never retried; a
// failed call is terminal for the user action that issued it.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int, timeout time.Duration) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- error taxonomy ----

// StatusError is a non-2xx backend response. Message is the server's
// "message" field when present, else a fallback keyed by status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// ConnError is a transport-level failure (DNS, refused connection, timeout),
// kept distinct from server-reported errors so views can render an
// actionable connectivity message.
type ConnError struct{ Err error }

func (e *ConnError) Error() string        { return "connection error: " + e.Err.Error() }
func (e *ConnError) Unwrap() error        { return e.Err }
func (e *ConnError) Is(target error) bool { return target == domain.ErrUnavailable }

func fallbackMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "session expired"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not found"
	case status >= 500:
		return "server error, please try again later"
	}
	return "request failed"
}

// ---- transport ----

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hbnb", endpointLabel(path), 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ConnError{Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hbnb", endpointLabel(path), resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			// malformed success body counts as a server error
			return &StatusError{Status: http.StatusBadGateway, Message: fallbackMessage(502)}
		}
		return nil
	}

	return &StatusError{Status: resp.StatusCode, Message: errorMessage(resp)}
}

// errorMessage extracts the server's message field from an error body,
// falling back to a status-keyed string. 400 keeps the server text since it
// usually names the offending field.
func errorMessage(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallbackMessage(resp.StatusCode)
}

// endpointLabel keeps metric cardinality bounded: first path segment only.
func endpointLabel(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i > 0 {
		return p[:i]
	}
	return p
}

// ---- consumed REST surface ----

func (c *Client) Login(ctx context.Context, email, password string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/users/login", "",
		map[string]any{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) ListPlaces(ctx context.Context, token string) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.do(ctx, http.MethodGet, "/places/", token, nil, &out)
}

func (c *Client) GetPlace(ctx context.Context, token, id string) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(id), token, nil, &out)
}

func (c *Client) CreatePlace(ctx context.Context, token string, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodPost, "/places/", token, payload, &out)
}

func (c *Client) UpdatePlace(ctx context.Context, token, id string, payload map[string]any) error {
	return c.do(ctx, http.MethodPut, "/places/"+url.PathEscape(id), token, payload, nil)
}

func (c *Client) DeletePlace(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/places/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) ListPlaceReviews(ctx context.Context, id string) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(id)+"/reviews", "", nil, &out)
}

func (c *Client) ListReviews(ctx context.Context, token string) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.do(ctx, http.MethodGet, "/reviews/", token, nil, &out)
}

func (c *Client) GetReview(ctx context.Context, token, id string) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodGet, "/reviews/"+url.PathEscape(id), token, nil, &out)
}

func (c *Client) CreateReview(ctx context.Context, token string, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodPost, "/reviews/", token, payload, &out)
}

func (c *Client) UpdateReview(ctx context.Context, token, id string, payload map[string]any) error {
	return c.do(ctx, http.MethodPut, "/reviews/"+url.PathEscape(id), token, payload, nil)
}

func (c *Client) DeleteReview(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.do(ctx, http.MethodGet, "/users/", token, nil, &out)
}

func (c *Client) GetUser(ctx context.Context, token, id string) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), token, nil, &out)
}

func (c *Client) CreateUser(ctx context.Context, token string, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodPost, "/users/", token, payload, &out)
}

func (c *Client) ListAmenities(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	return out, c.do(ctx, http.MethodGet, "/amenities/", "", nil, &out)
}

func (c *Client) CreateAmenity(ctx context.Context, token string, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodPost, "/amenities/", token, payload, &out)
}

func (c *Client) UpdateAmenity(ctx context.Context, token, id string, payload map[string]any) error {
	return c.do(ctx, http.MethodPut, "/amenities/"+url.PathEscape(id), token, payload, nil)
}
