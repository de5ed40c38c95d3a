package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func testClientConfig(backendURL string) Config {
	return Config{
		BackendURL:     backendURL,
		RequestTimeout: 2 * time.Second,
		ProbeTimeout:   time.Second,
	}
}

func TestExecuteSuccessPassesBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.Write([]byte(`{"success":true,"user_id":"u1","role":"ADMIN"}`))
	}))
	defer srv.Close()

	c := NewBackendClient(testClientConfig(srv.URL))
	r := c.Execute(context.Background(), http.MethodPost, "/api/login", map[string]any{"username": "admin"}, nil)
	if !r.OK {
		t.Fatalf("expected transport success, got %+v", r)
	}
	if r.Data.String("user_id", "") != "u1" || r.Data.String("role", "") != "ADMIN" {
		t.Errorf("payload not passed through: %v", r.Data)
	}
}

func TestExecuteSendsQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("username")
		w.Write([]byte(`{"accounts":[]}`))
	}))
	defer srv.Close()

	c := NewBackendClient(testClientConfig(srv.URL))
	r := c.Execute(context.Background(), http.MethodGet, "/api/accounts", nil, map[string]string{"username": "alice"})
	if !r.OK {
		t.Fatalf("unexpected failure: %+v", r)
	}
	if gotQuery != "alice" {
		t.Errorf("query username = %q", gotQuery)
	}
}

func TestExecuteNon200WithGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewBackendClient(testClientConfig(srv.URL))
	r := c.Execute(context.Background(), http.MethodGet, "/api/balance", nil, nil)
	if r.OK {
		t.Fatal("expected failure on HTTP 500")
	}
	if r.Err != "HTTP 500" {
		t.Errorf("error = %q, want %q", r.Err, "HTTP 500")
	}
	if r.Kind != ErrProtocol {
		t.Errorf("kind = %s", r.Kind)
	}
	if got := r.Details.String("raw_response", ""); got != "not json" {
		t.Errorf("raw_response = %q", got)
	}
}

func TestExecuteNon200WithJSONBodyKeepsDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"account not found"}`))
	}))
	defer srv.Close()

	c := NewBackendClient(testClientConfig(srv.URL))
	r := c.Execute(context.Background(), http.MethodGet, "/api/balance", nil, nil)
	if r.OK || r.Err != "HTTP 404" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if got := r.Details.String("error", ""); got != "account not found" {
		t.Errorf("decoded details lost: %v", r.Details)
	}
}

func TestExecute2xxWithGarbageBodyWrapsRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text ok"))
	}))
	defer srv.Close()

	c := NewBackendClient(testClientConfig(srv.URL))
	r := c.Execute(context.Background(), http.MethodGet, "/api", nil, nil)
	if !r.OK {
		t.Fatalf("2xx must stay a transport success: %+v", r)
	}
	if got := r.Data.String("raw_response", ""); got != "plain text ok" {
		t.Errorf("raw_response = %q", got)
	}
}

func TestExecuteConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewBackendClient(testClientConfig(url))
	r := c.Execute(context.Background(), http.MethodGet, "/api", nil, nil)
	if r.OK {
		t.Fatal("expected failure against closed backend")
	}
	if r.Kind != ErrTransportUnavailable {
		t.Errorf("kind = %s, want %s", r.Kind, ErrTransportUnavailable)
	}
	if r.Err != "cannot connect to backend" {
		t.Errorf("error = %q", r.Err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testClientConfig(srv.URL)
	cfg.RequestTimeout = 20 * time.Millisecond
	c := NewBackendClient(cfg)
	r := c.Execute(context.Background(), http.MethodGet, "/api/accounts", nil, nil)
	if r.OK {
		t.Fatal("expected timeout failure")
	}
	if r.Kind != ErrTransportTimeout || r.Err != "request timeout" {
		t.Errorf("got kind=%s err=%q", r.Kind, r.Err)
	}
}

func TestExecuteRejectsUnsupportedMethod(t *testing.T) {
	c := NewBackendClient(testClientConfig("http://localhost:1"))
	r := c.Execute(context.Background(), http.MethodDelete, "/api", nil, nil)
	if r.OK || r.Kind != ErrValidation {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestMappingIsDeterministic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"bad"}`))
	}))
	defer srv.Close()

	c := NewBackendClient(testClientConfig(srv.URL))
	first := c.Execute(context.Background(), http.MethodPost, "/api/login", map[string]any{"username": "x"}, nil)
	second := c.Execute(context.Background(), http.MethodPost, "/api/login", map[string]any{"username": "x"}, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different envelopes:\n%+v\n%+v", first, second)
	}
}

func TestProbeUsesShortTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api" {
			t.Errorf("probe path = %s", r.URL.Path)
		}
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	cfg := testClientConfig(srv.URL)
	cfg.ProbeTimeout = 10 * time.Millisecond
	c := NewBackendClient(cfg)
	r := c.Probe(context.Background())
	if r.OK {
		t.Fatal("probe should have timed out before the data-call deadline")
	}
	if r.Kind != ErrTransportTimeout {
		t.Errorf("kind = %s", r.Kind)
	}
}
