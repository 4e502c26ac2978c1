package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGETReturnsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Probe") != "1" {
			http.Error(w, "missing header", http.StatusBadRequest)
			return
		}
		w.Header().Set("X-Answer", "yes")
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(2*time.Second))
	resp, err := client.GET(context.Background(), "/x", map[string]string{"X-Probe": "1"})
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.String() != "hello" {
		t.Errorf("Unexpected body %q", resp.String())
	}
	if resp.Headers.Get("X-Answer") != "yes" {
		t.Error("Expected response headers surfaced")
	}
}

func TestGETErrorsOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(2*time.Second))
	if _, err := client.GET(context.Background(), "/x"); err == nil {
		t.Error("Expected error for a 500 response")
	}
}

func TestWithoutRedirectsExposesLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/landing?code=005930")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(2*time.Second), WithoutRedirects())
	resp, err := client.GET(context.Background(), "/x")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("Expected the 302 itself, got %d", resp.StatusCode)
	}
	if loc := resp.Headers.Get("Location"); loc != "/landing?code=005930" {
		t.Errorf("Unexpected Location %q", loc)
	}
}

func TestRateLimiterBlocksWhenDrained(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait failed with tokens left: %v", err)
		}
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(cancelCtx); err == nil {
		t.Error("Expected Wait to fail once the bucket is drained")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	refillCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := rl.Wait(refillCtx); err != nil {
		t.Errorf("Expected a refilled token within the deadline: %v", err)
	}
}
