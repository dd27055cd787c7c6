package engine

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/ppiankov/tagharmony/internal/model"
)

var (
	proseOnce  sync.Once
	proseModel *prose.Model
)

// sharedModel decodes the embedded averaged-perceptron weights once per
// process. Tagging only reads the model, so every RuleTagger shares it.
func sharedModel() *prose.Model {
	proseOnce.Do(func() {
		proseModel = prose.ModelFromData("tagharmony")
	})
	return proseModel
}

// RuleTagger is the in-process Penn Treebank tagger, an averaged perceptron
// (prose). Sentences come from prose's Punkt segmenter; a statement ending in
// '.', '!' or '?' also ends a sentence, since programs often continue in
// lowercase where Punkt would not break.
type RuleTagger struct {
	model *prose.Model
}

// NewRuleTagger creates the rule-based tagger
func NewRuleTagger() *RuleTagger {
	return &RuleTagger{model: sharedModel()}
}

// ID returns the engine identifier
func (t *RuleTagger) ID() model.EngineID {
	return model.EngineRule
}

// Tag segments, tokenizes and tags text
func (t *RuleTagger) Tag(ctx context.Context, text string) ([]model.RawToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text,
		prose.UsingModel(t.model),
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	var tokens []model.RawToken
	for _, sent := range doc.Sentences() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tagged, err := t.tagSentence(sent.Text)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tagged...)
	}
	return tokens, nil
}

// tagSentence tags one Punkt sentence. Tokenize pre-splits hyphens and the
// clitics prose keeps attached; prose then tags the space-joined words.
func (t *RuleTagger) tagSentence(text string) ([]model.RawToken, error) {
	words := Tokenize(text)
	if len(words) == 0 {
		return nil, nil
	}

	doc, err := prose.NewDocument(strings.Join(words, " "),
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	tagged := doc.Tokens()
	tokens := make([]model.RawToken, len(tagged))
	start := true
	for i, tok := range tagged {
		tokens[i] = model.RawToken{
			Text:      tok.Text,
			Tag:       fixTag(tok.Text, tok.Tag),
			Engine:    model.EngineRule,
			SentStart: start,
			SentEnd:   isTerminal(tok.Text) || i == len(tagged)-1,
		}
		start = tokens[i].SentEnd
	}
	return tokens, nil
}

// fixTag undoes prose reading a bare "0" as a Treebank empty element
func fixTag(text, tag string) string {
	if tag == "-NONE-" && text != "" && strings.IndexFunc(text, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return "CD"
	}
	return tag
}

func isTerminal(text string) bool {
	return text == "." || text == "!" || text == "?"
}
