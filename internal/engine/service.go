package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/model"
	"github.com/ppiankov/tagharmony/internal/segment"
	"github.com/ppiankov/tagharmony/internal/worker"
)

// serviceSleepFunc is the sleep function used between retries (injectable for tests)
var serviceSleepFunc = time.Sleep

const serviceBaseBackoff = 500 * time.Millisecond

// maxResponseBytes bounds a tagging service reply
const maxResponseBytes = 16 << 20

// StatusError is a non-2xx reply from a tagging service
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// serviceRequest is the body POSTed to a tagging service. Breaks lists byte
// offsets where a sentence must start; services that cannot honor them may
// ignore the field, since boundaries are corrected again after tagging.
type serviceRequest struct {
	Text   string `json:"text"`
	Breaks []int  `json:"breaks,omitempty"`
}

// serviceToken is one token of a service reply. spaCy services fill Tag with
// the fine-grained Penn tag; Stanza services fill UPOS.
type serviceToken struct {
	Text        string `json:"text"`
	Tag         string `json:"tag,omitempty"`
	UPOS        string `json:"upos,omitempty"`
	IsSentStart bool   `json:"is_sent_start"`
}

type serviceResponse struct {
	Tokens []serviceToken `json:"tokens"`
}

// ServiceTagger calls a remote tagging service over HTTP JSON
type ServiceTagger struct {
	id         model.EngineID
	url        string
	timeout    time.Duration
	retries    int
	httpClient *http.Client
	limiter    *worker.Limiter
	pick       func(serviceToken) string
	segmenter  *segment.Segmenter
	logger     *zap.Logger
}

// NewSpacyTagger creates a client for a spaCy tagging service
func NewSpacyTagger(cfg model.ServiceConfig, client *http.Client, limiter *worker.Limiter, logger *zap.Logger) *ServiceTagger {
	return newServiceTagger(model.EngineSpacy, cfg, client, limiter, logger, func(t serviceToken) string { return t.Tag })
}

// NewStanzaTagger creates a client for a Stanza tagging service
func NewStanzaTagger(cfg model.ServiceConfig, client *http.Client, limiter *worker.Limiter, logger *zap.Logger) *ServiceTagger {
	return newServiceTagger(model.EngineStanza, cfg, client, limiter, logger, func(t serviceToken) string { return t.UPOS })
}

func newServiceTagger(id model.EngineID, cfg model.ServiceConfig, client *http.Client, limiter *worker.Limiter, logger *zap.Logger, pick func(serviceToken) string) *ServiceTagger {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &ServiceTagger{
		id:         id,
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		retries:    cfg.Retries,
		httpClient: client,
		limiter:    limiter,
		pick:       pick,
		segmenter:  segment.NewSegmenter(),
		logger:     logger.With(zap.String("engine", string(id))),
	}
}

// ID returns the engine identifier
func (s *ServiceTagger) ID() model.EngineID {
	return s.id
}

// Tag sends text to the service, retrying transient failures with backoff
func (s *ServiceTagger) Tag(ctx context.Context, text string) ([]model.RawToken, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			backoff := serviceBaseBackoff * time.Duration(1<<(attempt-1))
			s.logger.Debug("retrying tagging service",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			serviceSleepFunc(backoff)
		}

		tokens, err := s.tagOnce(ctx, text)
		if err == nil {
			return tokens, nil
		}
		lastErr = err
		if !isRetryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (s *ServiceTagger) tagOnce(ctx context.Context, text string) ([]model.RawToken, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.url); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	body, err := json.Marshal(serviceRequest{Text: text, Breaks: s.segmenter.BreakOffsets(text)})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tagharmony/0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: truncate(string(data), 200)}
	}

	var decoded serviceResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	tokens := make([]model.RawToken, len(decoded.Tokens))
	for i, t := range decoded.Tokens {
		tokens[i] = model.RawToken{
			Text:      t.Text,
			Tag:       s.pick(t),
			Engine:    s.id,
			SentStart: t.IsSentStart || i == 0,
		}
		if i > 0 && t.IsSentStart {
			tokens[i-1].SentEnd = true
		}
	}
	return tokens, nil
}

// isRetryable reports whether a failed call is worth repeating: rate limiting,
// server-side errors and network failures are; client errors are not.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
