package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

// RequestClient abstracts backend interaction so handlers and tests can
// substitute a fake.
type RequestClient interface {
	Execute(ctx context.Context, method, path string, body map[string]any, query map[string]string) Result
	Probe(ctx context.Context) Result
}

// BackendClient calls the banking backend HTTP endpoints. Every outcome —
// success, backend rejection, refused connection, timeout, garbage body —
// comes back as a Result; no error escapes this boundary.
type BackendClient struct {
	client *http.Client
	probe  *http.Client
	base   string
}

func NewBackendClient(cfg Config) *BackendClient {
	return &BackendClient{
		client: &http.Client{Timeout: cfg.RequestTimeout},
		probe:  &http.Client{Timeout: cfg.ProbeTimeout},
		base:   strings.TrimRight(cfg.BackendURL, "/"),
	}
}

// Execute issues exactly one HTTP call against the backend. method must be
// GET, POST, or PUT; body is JSON-encoded for POST/PUT, query applies to GET.
func (c *BackendClient) Execute(ctx context.Context, method, path string, body map[string]any, query map[string]string) Result {
	return c.do(ctx, c.client, method, path, body, query)
}

// Probe issues the lightweight connectivity check (GET /api) with the
// shorter probe timeout.
func (c *BackendClient) Probe(ctx context.Context) Result {
	return c.do(ctx, c.probe, http.MethodGet, "/api", nil, nil)
}

func (c *BackendClient) do(ctx context.Context, client *http.Client, method, path string, body map[string]any, query map[string]string) Result {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return Failure(ErrValidation, fmt.Sprintf("unsupported method %s", method))
	}

	endpoint := c.base + path
	if len(query) > 0 {
		vals := url.Values{}
		for k, v := range query {
			vals.Set(k, v)
		}
		endpoint += "?" + vals.Encode()
	}

	var reqBody io.Reader
	if body != nil && method != http.MethodGet {
		b, err := json.Marshal(body)
		if err != nil {
			return Failure(ErrValidation, fmt.Sprintf("cannot encode request body: %v", err))
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return Failure(ErrValidation, fmt.Sprintf("cannot build request: %v", err))
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		r := classifyTransportError(err)
		log.Printf("backend %s %s -> %s", method, path, r.Err)
		return r
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("backend %s %s -> read error: %v", method, path, err)
		return Failure(ErrDecode, fmt.Sprintf("cannot read response body: %v", err))
	}

	var data Payload
	decoded := json.Unmarshal(raw, &data) == nil && data != nil

	log.Printf("backend %s %s -> %d", method, path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details := data
		if !decoded {
			details = Payload{"raw_response": string(raw)}
		}
		return FailureWithDetails(ErrProtocol, fmt.Sprintf("HTTP %d", resp.StatusCode), details)
	}

	if !decoded {
		// 2xx with a non-JSON body is rare; keep the text for debuggability.
		return Success(Payload{"raw_response": string(raw)})
	}
	return Success(data)
}

// classifyTransportError maps client.Do failures onto the error taxonomy.
// Timeouts and refused connections get canned messages; anything else keeps
// its underlying text.
func classifyTransportError(err error) Result {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return Failure(ErrTransportTimeout, "request timeout")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Failure(ErrTransportTimeout, "request timeout")
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return Failure(ErrTransportUnavailable, "cannot connect to backend")
	}
	return Failure(ErrTransportUnavailable, err.Error())
}
