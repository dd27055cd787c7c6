package grammar

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidGrammar is returned for grammar text that cannot be used for validation
var ErrInvalidGrammar = errors.New("invalid grammar")

//go:embed default.cfg
var defaultGrammar string

// Symbol is one right-hand-side element of a production
type Symbol struct {
	Name     string
	Terminal bool
}

func (s Symbol) String() string {
	if s.Terminal {
		return "'" + s.Name + "'"
	}
	return s.Name
}

// Production is a single alternative: LHS -> RHS...
type Production struct {
	LHS string
	RHS []Symbol
}

// Grammar is a context-free grammar over coarse tag symbols
type Grammar struct {
	start       string
	order       []string
	productions map[string][]Production
}

// Default returns the built-in grammar
func Default() *Grammar {
	g, err := Parse(defaultGrammar)
	if err != nil {
		panic(fmt.Sprintf("built-in grammar: %v", err))
	}
	return g
}

// Load reads and parses a grammar file
func Load(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	g, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse reads NLTK-style rule text:
//
//	S -> NP VP TERM | VP TERM
//	TERM -> '.'
//
// Quoted symbols are terminals, bare symbols are nonterminals, '#' starts a
// comment line and a line beginning with '|' continues the previous rule.
// The first rule's left-hand side is the start symbol.
func Parse(text string) (*Grammar, error) {
	g := &Grammar{productions: make(map[string][]Production)}

	lhs := ""
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rhs string
		if strings.HasPrefix(line, "|") {
			if lhs == "" {
				return nil, fmt.Errorf("%w: line %d: continuation without a rule", ErrInvalidGrammar, n+1)
			}
			rhs = line[1:]
		} else {
			left, right, ok := strings.Cut(line, "->")
			if !ok {
				return nil, fmt.Errorf("%w: line %d: missing '->'", ErrInvalidGrammar, n+1)
			}
			lhs = strings.TrimSpace(left)
			if !isIdent(lhs) {
				return nil, fmt.Errorf("%w: line %d: bad left-hand side %q", ErrInvalidGrammar, n+1, lhs)
			}
			rhs = right
		}

		alternatives, err := splitAlternatives(rhs)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidGrammar, n+1, err)
		}
		for _, alt := range alternatives {
			g.add(Production{LHS: lhs, RHS: alt})
		}
	}

	if g.start == "" {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidGrammar)
	}
	if err := g.check(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustParse is Parse for grammar text known to be valid
func MustParse(text string) *Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}

// Start returns the start symbol
func (g *Grammar) Start() string {
	return g.start
}

// Productions returns the alternatives of a nonterminal
func (g *Grammar) Productions(lhs string) []Production {
	return g.productions[lhs]
}

// String renders the grammar back as rule text, one line per nonterminal
func (g *Grammar) String() string {
	var b strings.Builder
	for _, lhs := range g.order {
		b.WriteString(lhs)
		b.WriteString(" ->")
		for i, p := range g.productions[lhs] {
			if i > 0 {
				b.WriteString(" |")
			}
			for _, s := range p.RHS {
				b.WriteString(" ")
				b.WriteString(s.String())
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Grammar) add(p Production) {
	if g.start == "" {
		g.start = p.LHS
	}
	if _, ok := g.productions[p.LHS]; !ok {
		g.order = append(g.order, p.LHS)
	}
	g.productions[p.LHS] = append(g.productions[p.LHS], p)
}

// check rejects references to undefined nonterminals and cycles of unit
// productions (A -> B, B -> A), which would give a span infinitely many trees.
func (g *Grammar) check() error {
	unit := make(map[string][]string)
	for _, lhs := range g.order {
		for _, p := range g.productions[lhs] {
			for _, s := range p.RHS {
				if !s.Terminal {
					if _, ok := g.productions[s.Name]; !ok {
						return fmt.Errorf("%w: %s refers to undefined symbol %s", ErrInvalidGrammar, lhs, s.Name)
					}
				}
			}
			if len(p.RHS) == 1 && !p.RHS[0].Terminal {
				unit[lhs] = append(unit[lhs], p.RHS[0].Name)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var visit func(string) error
	visit = func(n string) error {
		switch state[n] {
		case visiting:
			return fmt.Errorf("%w: unit production cycle through %s", ErrInvalidGrammar, n)
		case done:
			return nil
		}
		state[n] = visiting
		for _, next := range unit[n] {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}
	for _, lhs := range g.order {
		if err := visit(lhs); err != nil {
			return err
		}
	}
	return nil
}

// splitAlternatives tokenizes a right-hand side into '|'-separated symbol lists
func splitAlternatives(rhs string) ([][]Symbol, error) {
	var (
		alts    [][]Symbol
		current []Symbol
	)
	flush := func() error {
		if len(current) == 0 {
			return errors.New("empty alternative")
		}
		alts = append(alts, current)
		current = nil
		return nil
	}

	for i := 0; i < len(rhs); {
		c := rhs[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '|':
			if err := flush(); err != nil {
				return nil, err
			}
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(rhs[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated terminal at %q", rhs[i:])
			}
			name := rhs[i+1 : i+1+end]
			if name == "" {
				return nil, errors.New("empty terminal")
			}
			current = append(current, Symbol{Name: name, Terminal: true})
			i += end + 2
		default:
			j := i
			for j < len(rhs) && !strings.ContainsRune(" \t\r|'\"", rune(rhs[j])) {
				j++
			}
			name := rhs[i:j]
			if !isIdent(name) {
				return nil, fmt.Errorf("bad symbol %q", name)
			}
			current = append(current, Symbol{Name: name})
			i = j
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return alts, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r == '$' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
