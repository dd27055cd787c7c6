package model

// EngineID identifies one external tagging engine
type EngineID string

const (
	EngineRule   EngineID = "rule"   // In-process Penn Treebank tagger
	EngineSpacy  EngineID = "spacy"  // spaCy service, fine-grained Penn tags
	EngineStanza EngineID = "stanza" // Stanza service, UD upos tags
	EngineKagome EngineID = "kagome" // Kagome morphological analyzer, IPA dictionary
	EngineOpenAI EngineID = "openai" // Chat-completion model asked for Penn tags
)

// KnownEngines lists every engine the registry can build, in display order
func KnownEngines() []EngineID {
	return []EngineID{EngineRule, EngineSpacy, EngineStanza, EngineKagome, EngineOpenAI}
}

// RawToken is one (text, tag) pair as produced by a tagger
type RawToken struct {
	Text      string   `json:"text"`
	Tag       string   `json:"tag"`
	Engine    EngineID `json:"engine"`
	SentStart bool     `json:"sent_start,omitempty"` // Token opens a sentence
	SentEnd   bool     `json:"sent_end,omitempty"`   // Token is sentence-final punctuation
}

// MergedToken is a raw token, or 2+ adjacent raw tokens joined back together.
// Tag is always the tag of the first constituent.
type MergedToken struct {
	Text   string   `json:"text"`
	Tag    string   `json:"tag"`
	Engine EngineID `json:"engine"`
	Parts  int      `json:"parts"` // Number of raw tokens consumed
}

// FromRaw wraps a single raw token without merging
func FromRaw(t RawToken) MergedToken {
	return MergedToken{Text: t.Text, Tag: t.Tag, Engine: t.Engine, Parts: 1}
}

// UniversalTag is the engine-agnostic part-of-speech category
type UniversalTag string

const (
	TagNoun  UniversalTag = "NOUN"
	TagVerb  UniversalTag = "VERB"
	TagAux   UniversalTag = "AUX"
	TagAdj   UniversalTag = "ADJ"
	TagAdv   UniversalTag = "ADV"
	TagDet   UniversalTag = "DET"
	TagAdp   UniversalTag = "ADP"
	TagSconj UniversalTag = "SCONJ"
	TagCconj UniversalTag = "CCONJ"
	TagPart  UniversalTag = "PART"
	TagPron  UniversalTag = "PRON"
	TagNum   UniversalTag = "NUM"
	TagPunct UniversalTag = "PUNCT"
	TagSpace UniversalTag = "SPACE"
	TagOther UniversalTag = "OTHER"
)

var universalTags = map[UniversalTag]bool{
	TagNoun: true, TagVerb: true, TagAux: true, TagAdj: true, TagAdv: true,
	TagDet: true, TagAdp: true, TagSconj: true, TagCconj: true, TagPart: true,
	TagPron: true, TagNum: true, TagPunct: true, TagSpace: true, TagOther: true,
}

// Valid reports whether t belongs to the closed universal vocabulary
func (t UniversalTag) Valid() bool {
	return universalTags[t]
}

// NormalizedToken is the durable output unit of the pipeline
type NormalizedToken struct {
	Text      string       `json:"text" yaml:"text"`
	Tag       UniversalTag `json:"tag" yaml:"tag"`
	EngineTag string       `json:"engine_tag" yaml:"engine_tag"` // Tag as the engine emitted it
	Coarse    string       `json:"coarse" yaml:"coarse"`         // Grammar terminal symbol
}
