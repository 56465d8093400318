package supabase

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		ProjectURL: srv.URL,
		AnonKey:    "test-anon-key",
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func TestNewValidatesConfig(t *testing.T) {
	if _, err := New(Config{AnonKey: "k"}); err == nil {
		t.Fatal("expected error for missing project URL")
	}
	if _, err := New(Config{ProjectURL: "https://x.supabase.co"}); err == nil {
		t.Fatal("expected error for missing anon key")
	}
}

func TestSelectBuildsPostgRESTQuery(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		w.Write([]byte(`[{"id":"g1","title":"Asteroid Miner"}]`))
	}))

	var rows []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	err := c.Database().From("games").
		Select("*").
		Eq("status", "trending").
		Order("created_at", OrderDesc).
		Limit(3).
		ExecuteInto(context.Background(), &rows)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if gotPath != "/rest/v1/games" {
		t.Fatalf("path = %q", gotPath)
	}
	for _, want := range []string{"select=%2A", "status=eq.trending", "order=created_at.desc", "limit=3"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
	if gotAPIKey != "test-anon-key" {
		t.Fatalf("apikey header = %q", gotAPIKey)
	}
	if len(rows) != 1 || rows[0].Title != "Asteroid Miner" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestInsertSendsReturnRepresentation(t *testing.T) {
	var gotMethod, gotPrefer string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"p1"}]`))
	}))

	_, err := c.Database().From("shop").Insert(map[string]any{"name": "keyboard"}).Execute(context.Background())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q", gotMethod)
	}
	if gotPrefer != "return=representation" {
		t.Fatalf("Prefer = %q", gotPrefer)
	}
}

func TestRPCPostsParams(t *testing.T) {
	var gotPath string
	var gotBody []byte
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"ok":true}`))
	}))

	_, err := c.Database().RPC(context.Background(), "handle_vote", map[string]string{
		"p_game_id": "g1",
	})
	if err != nil {
		t.Fatalf("rpc: %v", err)
	}
	if gotPath != "/rest/v1/rpc/handle_vote" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(string(gotBody), `"p_game_id":"g1"`) {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestErrorResponsesBecomeTypedErrors(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505","message":"duplicate key","details":"already voted"}`))
	}))

	_, err := c.Database().From("game_votes").Insert(map[string]any{}).Execute(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	sbErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if sbErr.Code != "23505" || sbErr.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected error: %+v", sbErr)
	}
	if !strings.Contains(sbErr.Error(), "already voted") {
		t.Fatalf("details not surfaced: %q", sbErr.Error())
	}
}

func TestStorageUploadReturnsPublicURL(t *testing.T) {
	var gotPath, gotContentType string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"Key":"product-images/p1/0.jpg"}`))
	}))

	url, err := c.Storage().Upload(context.Background(), "product-images", "p1/0.jpg", []byte{0xff, 0xd8}, &UploadOptions{ContentType: "image/jpeg"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotPath != "/storage/v1/object/product-images/p1/0.jpg" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotContentType != "image/jpeg" {
		t.Fatalf("content type = %q", gotContentType)
	}
	want := srv.URL + "/storage/v1/object/public/product-images/p1/0.jpg"
	if url != want {
		t.Fatalf("public URL = %q, want %q", url, want)
	}
}

func TestHostAllowlistRejectsForeignHosts(t *testing.T) {
	c, err := New(Config{ProjectURL: "https://proj.supabase.co", AnonKey: "k"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.validateURL("https://evil.example.com/rest/v1/games"); err == nil {
		t.Fatal("expected host rejection")
	}
	if err := c.validateURL("https://proj.supabase.co/rest/v1/games"); err != nil {
		t.Fatalf("expected project host allowed, got %v", err)
	}
}

func TestGetRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{
		ProjectURL: srv.URL,
		AnonKey:    "k",
		Retry:      DefaultRetryConfig(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := c.Database().From("games").Select("*").Execute(context.Background()); err != nil {
		t.Fatalf("select after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestGetRetriesWithZeroRetryConfig(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// Constructed the way cmd/portal builds the client: only project URL
	// and key, no explicit retry settings.
	c, err := New(Config{ProjectURL: srv.URL, AnonKey: "k"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := c.Database().From("games").Select("*").Execute(context.Background()); err != nil {
		t.Fatalf("select after retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"unavailable"}`))
	}))
	defer srv.Close()

	c, err := New(Config{
		ProjectURL: srv.URL,
		AnonKey:    "k",
		Retry:      DefaultRetryConfig(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := c.Database().From("shop").Insert(map[string]any{}).Execute(context.Background()); err == nil {
		t.Fatal("expected insert error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on POST)", got)
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Minute})

	if err := cb.Allow(); err != nil {
		t.Fatalf("closed circuit should allow: %v", err)
	}
	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != CircuitOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}
	if err := cb.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}
