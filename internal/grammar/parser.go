package grammar

import (
	"github.com/ppiankov/tagharmony/internal/model"
)

type spanKey struct {
	symbol string
	start  int
	end    int
}

// chart enumerates derivations of a symbol sequence. Trees for each
// (nonterminal, span) are computed once and shared between parents.
type chart struct {
	grammar  *Grammar
	symbols  []string
	maxTrees int
	maxEdges int

	edges   int
	memo    map[spanKey][]*model.ParseTree
	pending map[spanKey]bool
}

func newChart(g *Grammar, symbols []string, maxTrees, maxEdges int) *chart {
	return &chart{
		grammar:  g,
		symbols:  symbols,
		maxTrees: maxTrees,
		maxEdges: maxEdges,
		memo:     make(map[spanKey][]*model.ParseTree),
		pending:  make(map[spanKey]bool),
	}
}

// parse returns up to maxTrees derivations of the whole sequence from the start symbol
func (c *chart) parse() ([]*model.ParseTree, error) {
	return c.trees(Symbol{Name: c.grammar.Start()}, 0, len(c.symbols))
}

func (c *chart) step() error {
	c.edges++
	if c.edges > c.maxEdges {
		return ErrParseBudget
	}
	return nil
}

// trees returns the derivations of sym over symbols[start:end]
func (c *chart) trees(sym Symbol, start, end int) ([]*model.ParseTree, error) {
	if sym.Terminal {
		if end == start+1 && c.symbols[start] == sym.Name {
			return []*model.ParseTree{{Label: sym.Name}}, nil
		}
		return nil, nil
	}

	key := spanKey{symbol: sym.Name, start: start, end: end}
	if trees, ok := c.memo[key]; ok {
		return trees, nil
	}
	if c.pending[key] {
		return nil, nil
	}
	c.pending[key] = true
	defer delete(c.pending, key)

	var out []*model.ParseTree
	for _, p := range c.grammar.Productions(sym.Name) {
		seqs, err := c.sequences(p.RHS, start, end)
		if err != nil {
			return nil, err
		}
		for _, children := range seqs {
			if err := c.step(); err != nil {
				return nil, err
			}
			out = append(out, &model.ParseTree{Label: sym.Name, Children: children})
			if len(out) >= c.maxTrees {
				break
			}
		}
		if len(out) >= c.maxTrees {
			break
		}
	}

	c.memo[key] = out
	return out, nil
}

// sequences returns every way rhs can cover symbols[start:end], each symbol
// taking at least one position.
func (c *chart) sequences(rhs []Symbol, start, end int) ([][]*model.ParseTree, error) {
	if end-start < len(rhs) {
		return nil, nil
	}
	if len(rhs) == 1 {
		trees, err := c.trees(rhs[0], start, end)
		if err != nil {
			return nil, err
		}
		out := make([][]*model.ParseTree, len(trees))
		for i, t := range trees {
			out[i] = []*model.ParseTree{t}
		}
		return out, nil
	}

	var out [][]*model.ParseTree
	for split := start + 1; split <= end-(len(rhs)-1); split++ {
		if err := c.step(); err != nil {
			return nil, err
		}
		heads, err := c.trees(rhs[0], start, split)
		if err != nil {
			return nil, err
		}
		if len(heads) == 0 {
			continue
		}
		tails, err := c.sequences(rhs[1:], split, end)
		if err != nil {
			return nil, err
		}
		for _, h := range heads {
			for _, tail := range tails {
				seq := make([]*model.ParseTree, 0, len(rhs))
				seq = append(seq, h)
				seq = append(seq, tail...)
				out = append(out, seq)
				if len(out) >= c.maxTrees {
					return out, nil
				}
			}
		}
	}
	return out, nil
}
