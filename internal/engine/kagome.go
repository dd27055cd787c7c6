package engine

import (
	"context"
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/ppiankov/tagharmony/internal/model"
)

var japaneseSentenceFinal = map[string]bool{
	"。": true, "！": true, "？": true, "!": true, "?": true, ".": true,
}

// KagomeTagger tags Japanese text with the Kagome morphological analyzer and
// the IPA dictionary. Tags are the IPA part of speech joined with its first
// subcategory, e.g. "名詞,数" or "助詞,格助詞".
type KagomeTagger struct {
	tok *tokenizer.Tokenizer
}

// NewKagomeTagger loads the IPA dictionary
func NewKagomeTagger() (*KagomeTagger, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome tokenizer: %w", err)
	}
	return &KagomeTagger{tok: t}, nil
}

// ID returns the engine identifier
func (k *KagomeTagger) ID() model.EngineID {
	return model.EngineKagome
}

// Tag segments text into morphemes
func (k *KagomeTagger) Tag(ctx context.Context, text string) ([]model.RawToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	morphs := k.tok.Tokenize(text)
	tokens := make([]model.RawToken, 0, len(morphs))
	start := true
	for _, m := range morphs {
		tag := ipaTag(m.POS())
		if tag == "" {
			continue
		}
		end := japaneseSentenceFinal[m.Surface]
		tokens = append(tokens, model.RawToken{
			Text:      m.Surface,
			Tag:       tag,
			Engine:    model.EngineKagome,
			SentStart: start,
			SentEnd:   end,
		})
		start = end
	}
	return tokens, nil
}

// ipaTag joins the top-level part of speech with its first subcategory
func ipaTag(pos []string) string {
	if len(pos) == 0 {
		return ""
	}
	if len(pos) > 1 && pos[1] != "" && pos[1] != "*" {
		return pos[0] + "," + pos[1]
	}
	return pos[0]
}
