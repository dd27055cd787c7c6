package model

import "fmt"

// DiagnosticKind classifies a non-fatal condition resolved by a fallback
type DiagnosticKind string

const (
	DiagUnmappedTag          DiagnosticKind = "unmapped_tag"          // Engine tag missing from its table
	DiagLookaheadUnavailable DiagnosticKind = "lookahead_unavailable" // Merge window crossed the sentence end
	DiagGrammarMismatch      DiagnosticKind = "grammar_mismatch"      // Zero derivations
	DiagEngineUnavailable    DiagnosticKind = "engine_unavailable"    // Tagger returned no result
	DiagGrammarAborted       DiagnosticKind = "grammar_aborted"       // Check could not complete
)

// Diagnostic reports a soft event surfaced alongside the annotation
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind" yaml:"kind"`
	Engine   EngineID       `json:"engine" yaml:"engine"`
	Sentence int            `json:"sentence" yaml:"sentence"` // -1 when not tied to a sentence
	Token    int            `json:"token" yaml:"token"`       // -1 when not tied to a token
	Detail   string         `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	switch {
	case d.Sentence < 0:
		return fmt.Sprintf("[%s] %s: %s", d.Engine, d.Kind, d.Detail)
	case d.Token < 0:
		return fmt.Sprintf("[%s] sentence %d: %s: %s", d.Engine, d.Sentence, d.Kind, d.Detail)
	default:
		return fmt.Sprintf("[%s] sentence %d token %d: %s: %s", d.Engine, d.Sentence, d.Token, d.Kind, d.Detail)
	}
}
