package segment

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/tagharmony/internal/model"
)

// Sentinel is the empty-text token that marks end of input
const Sentinel = ""

// Segmenter overrides an engine's sentence boundaries with a fixed rule set
type Segmenter struct {
	forceBreakAfter map[string]bool
}

// NewSegmenter creates a segmenter with the standard boundary-forcing punctuation
func NewSegmenter() *Segmenter {
	return &Segmenter{
		forceBreakAfter: map[string]bool{
			":":   true,
			");":  true,
			"***": true,
			";":   true,
		},
	}
}

// Apply rewrites boundary flags in place. Text and token count are untouched,
// and applying it to its own output changes nothing.
func (s *Segmenter) Apply(tokens []model.RawToken) {
	for i := range tokens {
		next := i + 1
		if next >= len(tokens) {
			break
		}
		if s.forceBreakAfter[tokens[i].Text] {
			tokens[next].SentStart = true
		}
		if tokens[i].Text == "." && tokens[next].Text == Sentinel {
			tokens[i].SentEnd = true
		}
	}
}

// BreakOffsets returns the byte offsets in text where Apply will force a
// sentence start: just past each break marker that is followed by whitespace.
// Engines that accept boundary hints receive them before tagging.
func (s *Segmenter) BreakOffsets(text string) []int {
	seen := make(map[int]bool)
	for marker := range s.forceBreakAfter {
		for from := 0; ; {
			i := strings.Index(text[from:], marker)
			if i < 0 {
				break
			}
			end := from + i + len(marker)
			if end < len(text) && unicode.IsSpace(rune(text[end])) {
				seen[end] = true
			}
			from = end
		}
	}

	offsets := make([]int, 0, len(seen))
	for off := range seen {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	return offsets
}

// WithSentinel returns tokens followed by the end-of-input sentinel
func WithSentinel(tokens []model.RawToken) []model.RawToken {
	out := make([]model.RawToken, len(tokens), len(tokens)+1)
	copy(out, tokens)
	var engine model.EngineID
	if len(tokens) > 0 {
		engine = tokens[0].Engine
	}
	return append(out, model.RawToken{Text: Sentinel, Engine: engine})
}

// Split groups a flagged token stream into sentences. A sentence starts at a
// SentStart token or right after a SentEnd token; sentinels are dropped.
func Split(tokens []model.RawToken) [][]model.RawToken {
	var sentences [][]model.RawToken
	var current []model.RawToken

	flush := func() {
		if len(current) > 0 {
			sentences = append(sentences, current)
			current = nil
		}
	}

	for _, tok := range tokens {
		if tok.Text == Sentinel {
			continue
		}
		if tok.SentStart {
			flush()
		}
		current = append(current, tok)
		if tok.SentEnd {
			flush()
		}
	}
	flush()

	return sentences
}

// SegmentAndSplit applies the override rules to a copy of tokens and groups the result
func (s *Segmenter) SegmentAndSplit(tokens []model.RawToken) [][]model.RawToken {
	stream := WithSentinel(tokens)
	s.Apply(stream)
	return Split(stream)
}

// Sentencize renders each sentence as one line of space-joined text,
// skipping whitespace-only tokens
func Sentencize(sentences [][]model.RawToken) []string {
	lines := make([]string, 0, len(sentences))
	for _, sent := range sentences {
		words := make([]string, 0, len(sent))
		for _, tok := range sent {
			if strings.TrimSpace(tok.Text) == "" {
				continue
			}
			words = append(words, tok.Text)
		}
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return lines
}
