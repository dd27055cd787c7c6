package engine

import (
	"regexp"
	"strings"
)

// reWord matches, in priority order: numbers with inner separators, multi-rune
// punctuation the segmenter keys on, words (optionally hyphen-led or with a
// clitic), and any other single non-space rune.
var reWord = regexp.MustCompile(`\p{N}+(?:[.,]\p{N}+)*|\.\.\.|\*\*\*|\);|--|-?[\p{L}\p{N}]+(?:['’][\p{L}]+)?|['’][\p{L}]+|[^\s\p{L}\p{N}]`)

// Tokenize splits English text Treebank-style. Clitics are split off
// ("can't" -> "ca" "n't", "we'll" -> "we" "'ll"), and hyphenated words are
// cut before each hyphen ("20-something" -> "20" "-something").
func Tokenize(text string) []string {
	var out []string
	for _, w := range reWord.FindAllString(text, -1) {
		out = append(out, splitClitic(w)...)
	}
	return out
}

func splitClitic(w string) []string {
	w = strings.ReplaceAll(w, "’", "'")
	lower := strings.ToLower(w)
	if strings.HasSuffix(lower, "n't") && len(w) > 3 {
		return []string{w[:len(w)-3], w[len(w)-3:]}
	}
	if i := strings.IndexByte(w, '\''); i > 0 {
		return []string{w[:i], w[i:]}
	}
	return []string{w}
}
