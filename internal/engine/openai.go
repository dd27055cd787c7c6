package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/tagharmony/internal/model"
)

// ErrMissingAPIKey is returned when the chat-completion engine has no key
var ErrMissingAPIKey = errors.New("OpenAI API key is required")

const openAISystemPrompt = `You are a part-of-speech tagger. Tokenize the user's text the way the Penn Treebank does and tag every token with a Penn Treebank tag.
Reply with a JSON array only, one [token, tag] pair per token, in order, with nothing else. Example:
[["multiply","VB"],["a","DT"],["value","NN"],["by","IN"],["42","CD"],[".","."]]`

// OpenAITagger asks a chat-completion model for Penn Treebank tags
type OpenAITagger struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAITagger creates the chat-completion tagger
func NewOpenAITagger(cfg model.OpenAIConfig, httpClient *http.Client) (*OpenAITagger, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAITagger{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   modelName,
		timeout: timeout,
	}, nil
}

// ID returns the engine identifier
func (o *OpenAITagger) ID() model.EngineID {
	return model.EngineOpenAI
}

// Tag sends text to the model and parses its [token, tag] reply
func (o *OpenAITagger) Tag(ctx context.Context, text string) ([]model.RawToken, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	pairs, err := parseTagPairs(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	tokens := make([]model.RawToken, len(pairs))
	start := true
	for i, p := range pairs {
		end := p[1] == "."
		tokens[i] = model.RawToken{
			Text:      p[0],
			Tag:       p[1],
			Engine:    model.EngineOpenAI,
			SentStart: start,
			SentEnd:   end,
		}
		start = end
	}
	return tokens, nil
}

// parseTagPairs decodes a JSON array of [token, tag] pairs, tolerating a
// surrounding markdown code fence
func parseTagPairs(content string) ([][2]string, error) {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "["); i > 0 {
		content = content[i:]
	}
	if i := strings.LastIndex(content, "]"); i >= 0 && i < len(content)-1 {
		content = content[:i+1]
	}

	var raw [][]string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode tagger reply: %w", err)
	}

	pairs := make([][2]string, 0, len(raw))
	for i, r := range raw {
		if len(r) != 2 || r[0] == "" || r[1] == "" {
			return nil, fmt.Errorf("decode tagger reply: entry %d is not a [token, tag] pair", i)
		}
		pairs = append(pairs, [2]string{r[0], r[1]})
	}
	return pairs, nil
}
