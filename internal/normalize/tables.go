package normalize

import "github.com/ppiankov/tagharmony/internal/model"

// CoarseMode selects how a table derives grammar terminal symbols
type CoarseMode int

const (
	// CoarseTruncate keeps the first two characters of a Penn-style tag
	CoarseTruncate CoarseMode = iota
	// CoarseUniversal derives a Penn-style bucket from the universal tag
	CoarseUniversal
)

// Table maps one engine's tag vocabulary onto the universal tags
type Table struct {
	Engine model.EngineID
	Tags   map[string]model.UniversalTag
	Coarse CoarseMode

	// PrepositionTags denote the shared preposition/subordinator class that
	// the subordinator override may turn into SCONJ.
	PrepositionTags []string

	// Separator splits hierarchical tags ("名詞,数") so a lookup can fall back
	// to the top-level category. Empty means tags are flat.
	Separator string

	// Bucketed tables are keyed by the two-character coarse bucket of a tag
	Bucketed bool
}

var pennTags = map[string]model.UniversalTag{
	"CC":     model.TagCconj,
	"CD":     model.TagNum,
	"DT":     model.TagDet,
	"EX":     model.TagPron,
	"FW":     model.TagOther,
	"IN":     model.TagAdp,
	"JJ":     model.TagAdj,
	"JJR":    model.TagAdj,
	"JJS":    model.TagAdj,
	"LS":     model.TagOther,
	"MD":     model.TagAux,
	"NN":     model.TagNoun,
	"NNS":    model.TagNoun,
	"NNP":    model.TagNoun,
	"NNPS":   model.TagNoun,
	"PDT":    model.TagDet,
	"POS":    model.TagPart,
	"PRP":    model.TagPron,
	"PRP$":   model.TagPron,
	"RB":     model.TagAdv,
	"RBR":    model.TagAdv,
	"RBS":    model.TagAdv,
	"RP":     model.TagPart,
	"SYM":    model.TagOther,
	"TO":     model.TagPart,
	"UH":     model.TagOther,
	"VB":     model.TagVerb,
	"VBD":    model.TagVerb,
	"VBG":    model.TagVerb,
	"VBN":    model.TagVerb,
	"VBP":    model.TagVerb,
	"VBZ":    model.TagVerb,
	"WDT":    model.TagDet,
	"WP":     model.TagPron,
	"WP$":    model.TagPron,
	"WRB":    model.TagAdv,
	".":      model.TagPunct,
	",":      model.TagPunct,
	":":      model.TagPunct,
	"``":     model.TagPunct,
	"''":     model.TagPunct,
	"-LRB-":  model.TagPunct,
	"-RRB-":  model.TagPunct,
	"(":      model.TagPunct,
	")":      model.TagPunct,
	"-":      model.TagPunct,
	"-NONE-": model.TagOther,
	"#":      model.TagOther,
	"$":      model.TagOther,
}

// spacyExtras are the fine-grained tags spaCy adds on top of Penn Treebank
var spacyExtras = map[string]model.UniversalTag{
	"HYPH": model.TagPunct,
	"NFP":  model.TagPunct,
	"_SP":  model.TagSpace,
	"ADD":  model.TagOther,
	"XX":   model.TagOther,
	"AFX":  model.TagAdj,
}

var udTags = map[string]model.UniversalTag{
	"NOUN":  model.TagNoun,
	"PROPN": model.TagNoun,
	"VERB":  model.TagVerb,
	"AUX":   model.TagAux,
	"ADJ":   model.TagAdj,
	"ADV":   model.TagAdv,
	"DET":   model.TagDet,
	"ADP":   model.TagAdp,
	"SCONJ": model.TagSconj,
	"CCONJ": model.TagCconj,
	"PART":  model.TagPart,
	"PRON":  model.TagPron,
	"NUM":   model.TagNum,
	"PUNCT": model.TagPunct,
	"SYM":   model.TagOther,
	"INTJ":  model.TagOther,
	"X":     model.TagOther,
	"SPACE": model.TagSpace,
}

var ipaTags = map[string]model.UniversalTag{
	"名詞":      model.TagNoun,
	"名詞,数":    model.TagNum,
	"名詞,代名詞":  model.TagPron,
	"動詞":      model.TagVerb,
	"助動詞":     model.TagAux,
	"形容詞":     model.TagAdj,
	"副詞":      model.TagAdv,
	"連体詞":     model.TagDet,
	"助詞":      model.TagAdp,
	"助詞,接続助詞": model.TagSconj,
	"助詞,終助詞":  model.TagPart,
	"助詞,副助詞":  model.TagPart,
	"接続詞":     model.TagCconj,
	"記号":      model.TagPunct,
	"記号,空白":   model.TagSpace,
	"感動詞":     model.TagOther,
	"接頭詞":     model.TagOther,
	"フィラー":    model.TagOther,
	"その他":     model.TagOther,
}

// neutralTags keys the engine-neutral variant on two-character buckets
var neutralTags = map[string]model.UniversalTag{
	"CC":  model.TagCconj,
	"CD":  model.TagNum,
	"DT":  model.TagDet,
	"EX":  model.TagPron,
	"IN":  model.TagAdp,
	"JJ":  model.TagAdj,
	"MD":  model.TagAux,
	"NN":  model.TagNoun,
	"PD":  model.TagDet,
	"PO":  model.TagPart,
	"PR":  model.TagPron,
	"RB":  model.TagAdv,
	"RP":  model.TagPart,
	"TO":  model.TagPart,
	"VB":  model.TagVerb,
	"WD":  model.TagDet,
	"WP":  model.TagPron,
	"WR":  model.TagAdv,
	".":   model.TagPunct,
	",":   model.TagPunct,
	":":   model.TagPunct,
	"_SP": model.TagSpace,
}

func merged(maps ...map[string]model.UniversalTag) map[string]model.UniversalTag {
	out := make(map[string]model.UniversalTag)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// DefaultTables returns the built-in table of every known engine
func DefaultTables() []*Table {
	return []*Table{
		{Engine: model.EngineRule, Tags: pennTags, Coarse: CoarseTruncate, PrepositionTags: []string{"IN"}},
		{Engine: model.EngineOpenAI, Tags: pennTags, Coarse: CoarseTruncate, PrepositionTags: []string{"IN"}},
		{Engine: model.EngineSpacy, Tags: merged(pennTags, spacyExtras), Coarse: CoarseTruncate, PrepositionTags: []string{"IN"}},
		{Engine: model.EngineStanza, Tags: udTags, Coarse: CoarseUniversal, PrepositionTags: []string{"ADP", "SCONJ"}},
		{Engine: model.EngineKagome, Tags: ipaTags, Coarse: CoarseUniversal, Separator: ",", PrepositionTags: []string{"助詞,接続助詞"}},
	}
}

// NeutralTable is used for engines without a table of their own
func NeutralTable(engine model.EngineID) *Table {
	return &Table{Engine: engine, Tags: neutralTags, Coarse: CoarseTruncate, PrepositionTags: []string{"IN"}, Bucketed: true}
}

// universalBuckets derive a grammar terminal from a universal tag
var universalBuckets = map[model.UniversalTag]string{
	model.TagNoun:  "NN",
	model.TagVerb:  "VB",
	model.TagAux:   "VB",
	model.TagAdj:   "JJ",
	model.TagAdv:   "RB",
	model.TagDet:   "DT",
	model.TagAdp:   "IN",
	model.TagSconj: "IN",
	model.TagCconj: "CC",
	model.TagPart:  "RP",
	model.TagPron:  "PR",
	model.TagNum:   "CD",
	model.TagPunct: ",",
	model.TagSpace: SpaceTag,
	model.TagOther: "XX",
}
