package grammar

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/model"
)

// ErrParseBudget is returned when a sentence needs more chart work than allowed.
// It signals a fault in the check itself, not a sentence that fails to conform.
var ErrParseBudget = errors.New("grammar parse budget exceeded")

const (
	defaultMaxTrees = 16
	defaultMaxEdges = 100_000
)

// whitespace symbols never reach the parser
var whitespace = map[string]bool{
	"_SP": true,
	"SP":  true,
}

// Validator checks coarse tag sequences against a grammar
type Validator struct {
	grammar  *Grammar
	maxTrees int
	maxEdges int
	logger   *zap.Logger
}

// NewValidator creates a validator. A nil grammar selects the built-in one.
func NewValidator(g *Grammar, cfg model.GrammarConfig, logger *zap.Logger) *Validator {
	if g == nil {
		g = Default()
	}
	if cfg.MaxTrees <= 0 {
		cfg.MaxTrees = defaultMaxTrees
	}
	if cfg.MaxEdges <= 0 {
		cfg.MaxEdges = defaultMaxEdges
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		grammar:  g,
		maxTrees: cfg.MaxTrees,
		maxEdges: cfg.MaxEdges,
		logger:   logger,
	}
}

// FromConfig builds the validator described by cfg, loading cfg.File when set
func FromConfig(cfg model.GrammarConfig, logger *zap.Logger) (*Validator, error) {
	var g *Grammar
	if cfg.File != "" {
		loaded, err := Load(cfg.File)
		if err != nil {
			return nil, err
		}
		g = loaded
	}
	return NewValidator(g, cfg, logger), nil
}

// Grammar returns the grammar in use
func (v *Validator) Grammar() *Grammar {
	return v.grammar
}

// Validate checks the coarse symbol sequence of a sentence
func (v *Validator) Validate(s model.Sentence) (model.ParseResult, error) {
	return v.ValidateSymbols(s.Symbols())
}

// ValidateSymbols checks a coarse tag sequence. A sequence with no derivation
// is a normal result with Succeeded false; an error means the check itself
// could not complete.
func (v *Validator) ValidateSymbols(symbols []string) (model.ParseResult, error) {
	filtered := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if whitespace[s] || strings.TrimSpace(s) == "" {
			continue
		}
		filtered = append(filtered, s)
	}

	result := model.ParseResult{Symbols: filtered}
	if len(filtered) == 0 {
		return result, nil
	}

	c := newChart(v.grammar, filtered, v.maxTrees, v.maxEdges)
	trees, err := c.parse()
	if err != nil {
		v.logger.Warn("grammar check aborted",
			zap.Strings("symbols", filtered),
			zap.Int("edges", c.edges),
			zap.Error(err))
		return result, fmt.Errorf("validate %s: %w", strings.Join(filtered, " "), err)
	}

	result.Trees = trees
	result.Succeeded = len(trees) > 0
	v.logger.Debug("grammar check",
		zap.Strings("symbols", filtered),
		zap.Bool("succeeded", result.Succeeded),
		zap.Int("trees", len(trees)))
	return result, nil
}
