package merge

import "github.com/ppiankov/tagharmony/internal/model"

// profile is the splitting behavior of one engine's tokenizer
type profile struct {
	policy      Policy
	numericTags []string
}

// profiles records how each engine over-splits. spaCy splits hyphenated words
// into three tokens; the rule tokenizer, Stanza and the chat model split
// numerals and leave hyphens attached to one side.
var profiles = map[model.EngineID]profile{
	model.EngineRule:   {policy: HyphenPairNumeral, numericTags: []string{"CD"}},
	model.EngineSpacy:  {policy: HyphenTriple},
	model.EngineStanza: {policy: HyphenPairNumeral, numericTags: []string{"NUM"}},
	model.EngineKagome: {policy: HyphenPairNumeral, numericTags: []string{"名詞,数"}},
	model.EngineOpenAI: {policy: HyphenPairNumeral, numericTags: []string{"CD"}},
}

// ForEngine returns the merger matching an engine's tokenizer; unknown engines never merge
func ForEngine(id model.EngineID) *Merger {
	p, ok := profiles[id]
	if !ok {
		return NewMerger(None)
	}
	return NewMerger(p.policy, p.numericTags...)
}
