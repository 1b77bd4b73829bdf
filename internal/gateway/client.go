package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guttosm/salesreport/internal/logger"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// page is the paginated envelope both upstreams wrap list responses in.
type page[T any] struct {
	Content []T `json:"content"`
}

// client issues GET requests against one upstream base address.
// It holds no mutable state and is safe for concurrent use.
type client struct {
	source  string
	baseURL string
	http    *http.Client
}

func newClient(source, baseURL string, timeout time.Duration, hc *http.Client) client {
	if hc == nil {
		hc = &http.Client{}
	}
	if timeout > 0 && hc.Timeout != timeout {
		// the copy keeps hc's Transport, so the connection pool stays shared
		cp := *hc
		cp.Timeout = timeout
		hc = &cp
	}
	return client{
		source:  source,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// get fetches path and returns the raw body of a 2xx response.
func (c client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, c.fail(path, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(path, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(path, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(path, resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	}
	return body, nil
}

func (c client) fail(path string, status int, err error) error {
	return &UpstreamError{Source: c.source, Path: path, Status: status, Err: err}
}

// logFailure records a swallowed upstream failure on the request-scoped logger.
func (c client) logFailure(ctx context.Context, op string, err error) {
	ev := logger.FromContext(ctx).Warn().
		Str("source", c.source).
		Str("op", op).
		Err(err)
	var ue *UpstreamError
	if errors.As(err, &ue) {
		ev = ev.Str("path", ue.Path).Int("status", ue.Status)
	}
	ev.Msg("upstream call failed")
}

// fetchOne decodes a single JSON object.
func fetchOne[T any](ctx context.Context, c client, op, path string) Outcome[T] {
	var zero T
	body, err := c.get(ctx, path)
	if err != nil {
		c.logFailure(ctx, op, err)
		return failed(zero, err)
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		err = c.fail(path, http.StatusOK, fmt.Errorf("decode: %w", err))
		c.logFailure(ctx, op, err)
		return failed(zero, err)
	}
	return succeeded(v)
}

// fetchPage decodes a paginated envelope and returns its content, never nil.
func fetchPage[T any](ctx context.Context, c client, op, path string) Outcome[[]T] {
	env := fetchOne[page[T]](ctx, c, op, path)
	if !env.OK {
		return failed([]T{}, env.Err)
	}
	if env.Value.Content == nil {
		return succeeded([]T{})
	}
	return succeeded(env.Value.Content)
}

// fetchRaw returns the body untouched, provided it is valid JSON.
func fetchRaw(ctx context.Context, c client, op, path string) Outcome[json.RawMessage] {
	body, err := c.get(ctx, path)
	if err != nil {
		c.logFailure(ctx, op, err)
		return failed[json.RawMessage](nil, err)
	}
	if !json.Valid(body) {
		err = c.fail(path, http.StatusOK, errors.New("decode: invalid json"))
		c.logFailure(ctx, op, err)
		return failed[json.RawMessage](nil, err)
	}
	return succeeded(json.RawMessage(body))
}
