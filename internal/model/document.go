package model

import "strings"

// Sentence is an ordered run of normalized tokens.
// Token order is the original left-to-right order and is never changed.
type Sentence struct {
	Index  int               `json:"index" yaml:"index"`
	Tokens []NormalizedToken `json:"tokens" yaml:"tokens"`
	Parse  *ParseResult      `json:"parse,omitempty" yaml:"parse,omitempty"` // Set only when grammar checking ran
}

// Symbols returns the coarse tag sequence of the sentence
func (s Sentence) Symbols() []string {
	symbols := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		symbols[i] = tok.Coarse
	}
	return symbols
}

// Text joins token texts with single spaces, skipping whitespace tokens
func (s Sentence) Text() string {
	parts := make([]string, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		if tok.Tag == TagSpace {
			continue
		}
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}

// Document holds one engine's annotation of an input text
type Document struct {
	ID          string       `json:"id" yaml:"id"`
	Engine      EngineID     `json:"engine" yaml:"engine"`
	Sentences   []Sentence   `json:"sentences" yaml:"sentences"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ParseTree is one derivation under the validation grammar
type ParseTree struct {
	Label    string       `json:"label" yaml:"label"`
	Children []*ParseTree `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node is a terminal
func (t *ParseTree) IsLeaf() bool {
	return len(t.Children) == 0
}

// String renders the tree in bracketed form, e.g. (S (NP DT NN) ...)
func (t *ParseTree) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *ParseTree) write(b *strings.Builder) {
	if t.IsLeaf() {
		b.WriteString(t.Label)
		return
	}
	b.WriteString("(")
	b.WriteString(t.Label)
	for _, c := range t.Children {
		b.WriteString(" ")
		c.write(b)
	}
	b.WriteString(")")
}

// Pretty renders the tree one node per line, indented by depth
func (t *ParseTree) Pretty() string {
	var b strings.Builder
	var walk func(n *ParseTree, depth int)
	walk = func(n *ParseTree, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Label)
		b.WriteString("\n")
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t, 0)
	return b.String()
}

// ParseResult is the grammar-check outcome for one sentence
type ParseResult struct {
	Succeeded bool         `json:"succeeded" yaml:"succeeded"`
	Trees     []*ParseTree `json:"trees,omitempty" yaml:"trees,omitempty"`
	Symbols   []string     `json:"symbols" yaml:"symbols"` // Sequence that was checked
}
