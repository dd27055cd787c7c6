package normalize

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/model"
)

// SpaceTag is the whitespace tag that keeps its full spelling as a coarse bucket
const SpaceTag = "_SP"

// contractedAux are clitic auxiliaries split off by tokenizers ("we'll" -> "we" "'ll")
var contractedAux = map[string]bool{
	"'ll": true, "'re": true, "'ve": true, "'m": true, "'d": true,
	"ca": true, "wo": true,
}

// subordinators are words that taggers file under the preposition class but
// that open a conditional or exception clause
var subordinators = map[string]bool{
	"if": true, "unless": true, "except": true, "whether": true,
	"because": true, "although": true, "though": true, "whereas": true,
	"while": true,
}

var sentenceFinal = map[string]bool{
	".": true, "!": true, "?": true, "。": true, "！": true, "？": true,
}

// Coarse is the engine-neutral bucket of a tag: its first two characters,
// with the whitespace tag kept whole.
func Coarse(tag string) string {
	if tag == SpaceTag {
		return tag
	}
	r := []rune(tag)
	if len(r) <= 2 {
		return tag
	}
	return string(r[:2])
}

// Normalizer maps (engine, tag, text) onto the universal vocabulary
type Normalizer struct {
	tables map[model.EngineID]*Table
	logger *zap.Logger
}

// NewNormalizer creates a normalizer loaded with the built-in tables
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Normalizer{
		tables: make(map[model.EngineID]*Table),
		logger: logger,
	}
	for _, t := range DefaultTables() {
		n.Register(t)
	}
	return n
}

// Register adds or replaces the table of one engine
func (n *Normalizer) Register(t *Table) {
	n.tables[t.Engine] = t
}

// Table returns the table used for an engine, falling back to the neutral one
func (n *Normalizer) Table(engine model.EngineID) *Table {
	if t, ok := n.tables[engine]; ok {
		return t
	}
	return NeutralTable(engine)
}

// Normalize maps one token. The second return value is false when the tag was
// absent from the engine's table and the OTHER fallback was used.
func (n *Normalizer) Normalize(tok model.MergedToken) (model.NormalizedToken, bool) {
	table := n.Table(tok.Engine)
	out := model.NormalizedToken{Text: tok.Text, EngineTag: tok.Tag}

	tag, ok := n.lookup(table, tok)
	if !ok {
		out.Tag = model.TagOther
		out.Coarse = Coarse(tok.Tag)
		return out, false
	}

	out.Tag = tag
	out.Coarse = coarseFor(table, tok, tag)
	return out, true
}

// NormalizeSentence maps every token of a sentence, in order. Unmapped tags
// come back as diagnostics with Token set to the position in tokens.
func (n *Normalizer) NormalizeSentence(tokens []model.MergedToken) ([]model.NormalizedToken, []model.Diagnostic) {
	out := make([]model.NormalizedToken, len(tokens))
	var diags []model.Diagnostic

	for i, tok := range tokens {
		norm, mapped := n.Normalize(tok)
		out[i] = norm
		if !mapped {
			n.logger.Debug("unmapped engine tag",
				zap.String("engine", string(tok.Engine)),
				zap.String("tag", tok.Tag),
				zap.String("text", tok.Text),
				zap.String("fallback", norm.Coarse))
			diags = append(diags, model.Diagnostic{
				Kind:     model.DiagUnmappedTag,
				Engine:   tok.Engine,
				Sentence: -1,
				Token:    i,
				Detail:   fmt.Sprintf("tag %q on %q fell back to %s/%s", tok.Tag, tok.Text, norm.Tag, norm.Coarse),
			})
		}
	}

	return out, diags
}

func (n *Normalizer) lookup(table *Table, tok model.MergedToken) (model.UniversalTag, bool) {
	lower := strings.ToLower(tok.Text)
	if contractedAux[lower] {
		return model.TagAux, true
	}
	if subordinators[lower] && containsTag(table.PrepositionTags, tok.Tag) {
		return model.TagSconj, true
	}

	key := tok.Tag
	if table.Bucketed {
		key = Coarse(tok.Tag)
	}
	if tag, ok := table.Tags[key]; ok {
		return tag, true
	}
	if table.Separator != "" {
		parts := strings.Split(tok.Tag, table.Separator)
		for i := len(parts) - 1; i > 0; i-- {
			if tag, ok := table.Tags[strings.Join(parts[:i], table.Separator)]; ok {
				return tag, true
			}
		}
	}
	return "", false
}

func coarseFor(table *Table, tok model.MergedToken, tag model.UniversalTag) string {
	if table.Coarse == CoarseTruncate {
		return Coarse(tok.Tag)
	}
	if tag == model.TagPunct && sentenceFinal[tok.Text] {
		return "."
	}
	return universalBuckets[tag]
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
