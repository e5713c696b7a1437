package hbnb_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hbnb_web/internal/adapters/hbnb"
	"hbnb_web/internal/domain"
)

func newClient(t *testing.T, base string) *hbnb.Client {
	t.Helper()
	cl, err := hbnb.New(base, 100, 2*time.Second) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_BearerOnlyWhenTokenSupplied(t *testing.T) {
	var authTok, authAnon string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("missing json content type, got %q", ct)
		}
		if r.Header.Get("Authorization") == "" {
			authAnon = "seen"
		} else {
			authTok = r.Header.Get("Authorization")
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	ctx := context.Background()

	if _, err := cl.ListPlaces(ctx, ""); err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	if _, err := cl.ListPlaces(ctx, "tok123"); err != nil {
		t.Fatalf("authed list: %v", err)
	}
	if authAnon != "seen" {
		t.Fatalf("anonymous call carried an Authorization header")
	}
	if authTok != "Bearer tok123" {
		t.Fatalf("authorization = %q", authTok)
	}
}

func TestClient_ServerMessageSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "email already registered"})
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.CreateUser(context.Background(), "tok", map[string]any{"email": "a@b.c"})
	var se *hbnb.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != http.StatusBadRequest || se.Message != "email already registered" {
		t.Fatalf("unexpected error: %+v", se)
	}
}

func TestClient_StatusSentinels(t *testing.T) {
	cases := []struct {
		status  int
		want    error
		message string
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized, "session expired"},
		{http.StatusForbidden, domain.ErrForbidden, "forbidden"},
		{http.StatusNotFound, domain.ErrNotFound, "not found"},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		cl := newClient(t, ts.URL)
		_, err := cl.GetPlace(context.Background(), "", "p1")
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		if err.Error() != tc.message {
			t.Fatalf("status %d: message = %q", tc.status, err.Error())
		}
	}
}

func TestClient_ConnectionErrorIsDistinct(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close() // refuse connections

	cl := newClient(t, ts.URL)
	_, err := cl.ListPlaces(context.Background(), "")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	var ce *hbnb.ConnError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConnError, got %T", err)
	}
}

func TestClient_NoRetries(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.ListPlaces(context.Background(), "")
	if err == nil {
		t.Fatalf("expected error for 500")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one request, got %d", n)
	}
}

func TestClient_LoginPostsCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.c" || body["password"] != "secret1" {
			t.Errorf("unexpected body: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok"})
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	out, err := cl.Login(context.Background(), "a@b.c", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out["access_token"] != "tok" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestClient_DeleteAcceptsNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	if err := cl.DeleteReview(context.Background(), "tok", "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
