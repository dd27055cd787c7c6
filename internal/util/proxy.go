package util

import (
	"net/http"
	"net/url"
	"os"

	"golang.org/x/net/http/httpproxy"

	"github.com/ppiankov/tagharmony/internal/model"
)

// NewProxyFunc creates a proxy function for remote tagging services.
// Explicit settings override the environment one field at a time.
func NewProxyFunc(cfg model.ProxyConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTP == "" && cfg.HTTPS == "" && cfg.NoProxy == "" {
		return http.ProxyFromEnvironment
	}

	pc := httpproxy.FromEnvironment()
	if cfg.HTTP != "" {
		pc.HTTPProxy = cfg.HTTP
	}
	if cfg.HTTPS != "" {
		pc.HTTPSProxy = cfg.HTTPS
	}
	if cfg.NoProxy != "" {
		pc.NoProxy = cfg.NoProxy
	}
	proxy := pc.ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}

// NewHTTPClient builds the client shared by the remote engines
func NewHTTPClient(cfg model.ProxyConfig) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: NewProxyFunc(cfg),
		},
	}
}

// Getenv returns the first non-empty environment variable among keys
func Getenv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
