package merge

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tagharmony/internal/model"
)

// Policy selects which merge patterns an engine needs
type Policy int

const (
	// None never merges
	None Policy = iota
	// HyphenTriple rejoins "x", "-", "y" into "x-y"
	HyphenTriple
	// HyphenPairNumeral rejoins "x-" + "y" / "x" + "-y" and adjacent numerals
	HyphenPairNumeral
)

func (p Policy) String() string {
	switch p {
	case HyphenTriple:
		return "hyphen-triple"
	case HyphenPairNumeral:
		return "hyphen-pair-numeral"
	default:
		return "none"
	}
}

// Merger repairs over-segmentation in one sentence of raw tokens
type Merger struct {
	policy      Policy
	numericTags map[string]bool
}

// NewMerger creates a merger for the given policy. numericTags lists the
// engine tags the numeral-adjacency pattern treats as numbers.
func NewMerger(policy Policy, numericTags ...string) *Merger {
	m := &Merger{
		policy:      policy,
		numericTags: make(map[string]bool, len(numericTags)),
	}
	for _, tag := range numericTags {
		m.numericTags[tag] = true
	}
	return m
}

// Policy returns the merger's policy
func (m *Merger) Policy() Policy {
	return m.policy
}

type pattern int

const (
	noPattern pattern = iota
	hyphenTriple
	hyphenPair
	numeral
)

// Merge runs one left-to-right pass over tokens. The result preserves order
// and text coverage; tokens whose pattern would need lookahead past the end
// are emitted unchanged and reported as diagnostics.
func (m *Merger) Merge(tokens []model.RawToken) ([]model.MergedToken, []model.Diagnostic) {
	out := make([]model.MergedToken, 0, len(tokens))
	var diags []model.Diagnostic

	i := 0
	for i < len(tokens) {
		p := m.match(tokens, i)
		if p == noPattern {
			if m.needsMissingLookahead(tokens, i) {
				diags = append(diags, model.Diagnostic{
					Kind:     model.DiagLookaheadUnavailable,
					Engine:   tokens[i].Engine,
					Sentence: -1,
					Token:    i,
					Detail:   fmt.Sprintf("%q left unmerged at sentence end", tokens[i].Text),
				})
			}
			out = append(out, model.FromRaw(tokens[i]))
			i++
			continue
		}

		merged := model.FromRaw(tokens[i])
		consumed := m.absorb(&merged, tokens[i:], p)
		i += consumed

		// Keep absorbing while any pattern fires at the merged token so a
		// second pass over the output finds nothing left to do.
		for i < len(tokens) {
			window := append([]model.RawToken{{Text: merged.Text, Tag: merged.Tag, Engine: merged.Engine}}, tokens[i:]...)
			next := m.match(window, 0)
			if next == noPattern {
				break
			}
			i += m.absorb(&merged, window, next) - 1
		}

		out = append(out, merged)
	}

	return out, diags
}

// absorb folds the pattern's window starting at tokens[0] into merged and
// returns how many tokens of the window were consumed, including tokens[0].
func (m *Merger) absorb(merged *model.MergedToken, tokens []model.RawToken, p pattern) int {
	width := 2
	if p == hyphenTriple {
		width = 3
	}
	var b strings.Builder
	b.WriteString(merged.Text)
	for _, tok := range tokens[1:width] {
		b.WriteString(tok.Text)
	}
	merged.Text = b.String()
	merged.Parts += width - 1
	return width
}

// match returns the highest-priority pattern firing at position i
func (m *Merger) match(tokens []model.RawToken, i int) pattern {
	switch m.policy {
	case HyphenTriple:
		if i+2 < len(tokens) && tokens[i+1].Text == "-" {
			return hyphenTriple
		}
	case HyphenPairNumeral:
		if i+1 < len(tokens) {
			if strings.HasSuffix(tokens[i].Text, "-") || strings.HasPrefix(tokens[i+1].Text, "-") {
				return hyphenPair
			}
			if m.numericTags[tokens[i].Tag] && m.numericTags[tokens[i+1].Tag] {
				return numeral
			}
		}
	}
	return noPattern
}

// needsMissingLookahead reports whether a pattern was cut off by the sentence end
func (m *Merger) needsMissingLookahead(tokens []model.RawToken, i int) bool {
	switch m.policy {
	case HyphenTriple:
		return i+2 >= len(tokens) && i+1 < len(tokens) && tokens[i+1].Text == "-"
	case HyphenPairNumeral:
		return i+1 >= len(tokens) && strings.HasSuffix(tokens[i].Text, "-") && len(tokens[i].Text) > 1
	}
	return false
}
