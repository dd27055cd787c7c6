package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://localhost:8080/tag"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://localhost:8081/tag"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "/relative"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestLimiter_PerEndpoint(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("http://localhost:8080/tag") {
		t.Error("first request should pass")
	}
	// Path does not matter, the endpoint's single token is spent
	if limiter.Allow("http://localhost:8080/other") {
		t.Error("expected second request to the same endpoint to be limited")
	}
	// Different port is a different service
	if !limiter.Allow("http://localhost:8081/tag") {
		t.Error("expected other endpoint to pass")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !limiter.Allow("http://localhost:8080/tag") {
			t.Fatalf("request %d limited with rate disabled", i)
		}
	}
}

func TestLimiter_SetEndpointRate(t *testing.T) {
	limiter := NewLimiter(10, 10)

	if err := limiter.SetEndpointRate("http://slow.local/tag", 0.1, 1); err != nil {
		t.Fatal(err)
	}
	if !limiter.Allow("http://slow.local/tag") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://slow.local/tag") {
		t.Error("second request should fail")
	}
	if !limiter.Allow("http://fast.local/tag") {
		t.Error("other endpoint should pass")
	}
}

func TestEndpointKey(t *testing.T) {
	key, err := endpointKey("https://tagger.example.com:9000/v1/tag?x=1")
	if err != nil {
		t.Fatalf("endpointKey failed: %v", err)
	}
	if key != "https://tagger.example.com:9000" {
		t.Errorf("got %s", key)
	}

	if _, err := endpointKey("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
