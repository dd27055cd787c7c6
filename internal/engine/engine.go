package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/tagharmony/internal/model"
	"github.com/ppiankov/tagharmony/internal/segment"
)

var (
	// ErrUnknownEngine is returned for an engine name the registry cannot build
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrEngineUnavailable wraps any failure of a tagger to produce output
	ErrEngineUnavailable = errors.New("engine unavailable")
)

// Tagger is one external tagging engine. Tag returns the whole text as a flat
// token stream with the engine's own sentence-boundary flags set.
type Tagger interface {
	ID() model.EngineID
	Tag(ctx context.Context, text string) ([]model.RawToken, error)
}

// Adapter runs a tagger and applies the boundary override rules to its output
type Adapter struct {
	tagger    Tagger
	segmenter *segment.Segmenter
}

// NewAdapter wraps a tagger
func NewAdapter(tagger Tagger) *Adapter {
	return &Adapter{
		tagger:    tagger,
		segmenter: segment.NewSegmenter(),
	}
}

// ID returns the wrapped engine's identifier
func (a *Adapter) ID() model.EngineID {
	return a.tagger.ID()
}

// SegmentAndTag tags text and returns it grouped into sentences. Any tagger
// failure is reported as ErrEngineUnavailable wrapping the cause.
func (a *Adapter) SegmentAndTag(ctx context.Context, text string) ([][]model.RawToken, error) {
	tokens, err := a.tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", a.tagger.ID(), ErrEngineUnavailable, err)
	}
	for i := range tokens {
		tokens[i].Engine = a.tagger.ID()
	}
	return a.segmenter.SegmentAndSplit(tokens), nil
}
