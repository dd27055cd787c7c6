package util

import (
	"net/http"
	"testing"

	"github.com/ppiankov/tagharmony/internal/model"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc(model.ProxyConfig{
		HTTP:    "http://proxy.local:3128",
		HTTPS:   "http://secure-proxy.local:3128",
		NoProxy: "internal.example.com",
	})

	tests := []struct {
		target string
		want   string
	}{
		{"http://tagger.example.com/tag", "http://proxy.local:3128"},
		{"https://api.example.com/v1", "http://secure-proxy.local:3128"},
		{"http://internal.example.com/tag", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.target, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("proxy: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected direct connection, got %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("proxy = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("TAGHARMONY_TEST_A", "")
	t.Setenv("TAGHARMONY_TEST_B", "b")

	if got := Getenv("TAGHARMONY_TEST_A", "TAGHARMONY_TEST_B"); got != "b" {
		t.Errorf("Getenv = %q, want b", got)
	}
	if got := Getenv("TAGHARMONY_TEST_A"); got != "" {
		t.Errorf("Getenv = %q, want empty", got)
	}
}
