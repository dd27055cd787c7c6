package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/engine"
	"github.com/ppiankov/tagharmony/internal/grammar"
	"github.com/ppiankov/tagharmony/internal/merge"
	"github.com/ppiankov/tagharmony/internal/model"
	"github.com/ppiankov/tagharmony/internal/normalize"
	"github.com/ppiankov/tagharmony/internal/worker"
)

var (
	// ErrAllEnginesFailed is returned when no configured engine produced a document
	ErrAllEnginesFailed = errors.New("every engine failed")

	// ErrGrammarDisabled is returned by Validate when grammar checking is off
	ErrGrammarDisabled = errors.New("grammar checking is disabled")
)

// Annotator orchestrates the annotation process: tag with every configured
// engine, then merge, normalize and optionally grammar-check each sentence
type Annotator struct {
	adapters    []*engine.Adapter
	normalizer  *normalize.Normalizer
	validator   *grammar.Validator // nil when grammar checking is off
	engineLimit int
	sentLimit   int
	html        bool
	logger      *zap.Logger
}

// Result holds one Document per engine that succeeded, in configuration order
type Result struct {
	Documents   []model.Document   `json:"documents" yaml:"documents"`
	Diagnostics []model.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"` // Engine-level failures
}

// NewAnnotator creates an annotator over already-built engine adapters
func NewAnnotator(cfg *model.Config, adapters []*engine.Adapter, logger *zap.Logger) (*Annotator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(adapters) == 0 {
		return nil, model.ErrNoEngine
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var validator *grammar.Validator
	if cfg.Grammar.Enabled {
		v, err := grammar.FromConfig(cfg.Grammar, logger)
		if err != nil {
			return nil, fmt.Errorf("load grammar: %w", err)
		}
		validator = v
	}

	engineLimit := cfg.Concurrency.Engines
	if engineLimit <= 0 {
		engineLimit = len(adapters)
	}

	return &Annotator{
		adapters:    adapters,
		normalizer:  normalize.NewNormalizer(logger),
		validator:   validator,
		engineLimit: engineLimit,
		sentLimit:   cfg.Concurrency.Sentences,
		html:        cfg.Input.HTML,
		logger:      logger,
	}, nil
}

// New builds the engines cfg enables and returns an annotator over them
func New(cfg *model.Config, logger *zap.Logger) (*Annotator, error) {
	adapters, err := engine.NewRegistry(logger).Build(cfg)
	if err != nil {
		return nil, err
	}
	return NewAnnotator(cfg, adapters, logger)
}

// Engines lists the engines in run order
func (a *Annotator) Engines() []model.EngineID {
	ids := make([]model.EngineID, len(a.adapters))
	for i, ad := range a.adapters {
		ids[i] = ad.ID()
	}
	return ids
}

// Annotate runs every engine over text concurrently. Documents stay separate
// per engine. An engine that fails is reported in Result.Diagnostics and left
// out; Annotate itself fails only when no engine succeeded.
func (a *Annotator) Annotate(ctx context.Context, text string) (*Result, error) {
	text, err := Prepare(text, a.html)
	if err != nil {
		return nil, fmt.Errorf("prepare input: %w", err)
	}

	docs := make([]*model.Document, len(a.adapters))
	errs := make([]error, len(a.adapters))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, a.engineLimit)

	for i, ad := range a.adapters {
		wg.Add(1)
		go func(idx int, ad *engine.Adapter) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[idx] = fmt.Errorf("%s: %w", ad.ID(), ctx.Err())
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			docs[idx], errs[idx] = a.annotateEngine(ctx, ad, text)
		}(i, ad)
	}

	wg.Wait()

	result := &Result{}
	var failed []error
	for i, ad := range a.adapters {
		if errs[i] != nil {
			a.logger.Warn("engine failed", zap.String("engine", string(ad.ID())), zap.Error(errs[i]))
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				Kind:     model.DiagEngineUnavailable,
				Engine:   ad.ID(),
				Sentence: -1,
				Token:    -1,
				Detail:   errs[i].Error(),
			})
			failed = append(failed, errs[i])
			continue
		}
		result.Documents = append(result.Documents, *docs[i])
	}

	if len(result.Documents) == 0 {
		return result, fmt.Errorf("%w: %w", ErrAllEnginesFailed, errors.Join(failed...))
	}
	return result, nil
}

// Validate grammar-checks one sentence
func (a *Annotator) Validate(sentence model.Sentence) (model.ParseResult, error) {
	if a.validator == nil {
		return model.ParseResult{}, ErrGrammarDisabled
	}
	return a.validator.Validate(sentence)
}

// annotateEngine tags text with one engine and processes its sentences on a
// worker pool, keeping the engine's sentence order
func (a *Annotator) annotateEngine(ctx context.Context, ad *engine.Adapter, text string) (*model.Document, error) {
	sentences, err := ad.SegmentAndTag(ctx, text)
	if err != nil {
		return nil, err
	}

	merger := merge.ForEngine(ad.ID())
	jobs := make([]worker.Job, len(sentences))
	for i, raw := range sentences {
		jobs[i] = &sentenceJob{
			index:      i,
			raw:        raw,
			merger:     merger,
			normalizer: a.normalizer,
			validator:  a.validator,
		}
	}

	results := worker.Run(ctx, a.sentLimit, jobs)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ad.ID(), err)
	}

	doc := &model.Document{
		ID:        uuid.NewString(),
		Engine:    ad.ID(),
		Sentences: make([]model.Sentence, 0, len(results)),
	}
	for _, r := range results {
		sr := r.(*sentenceResult)
		doc.Sentences = append(doc.Sentences, sr.sentence)
		doc.Diagnostics = append(doc.Diagnostics, sr.diagnostics...)
	}

	a.logger.Debug("engine annotated",
		zap.String("engine", string(ad.ID())),
		zap.String("document", doc.ID),
		zap.Int("sentences", len(doc.Sentences)),
		zap.Int("diagnostics", len(doc.Diagnostics)))
	return doc, nil
}

// sentenceJob merges, normalizes and checks one sentence
type sentenceJob struct {
	index      int
	raw        []model.RawToken
	merger     *merge.Merger
	normalizer *normalize.Normalizer
	validator  *grammar.Validator
}

type sentenceResult struct {
	index       int
	sentence    model.Sentence
	diagnostics []model.Diagnostic
}

func (r *sentenceResult) Seq() int        { return r.index }
func (r *sentenceResult) GetError() error { return nil }

func (j *sentenceJob) Seq() int { return j.index }

// Execute never fails: every soft condition becomes a diagnostic
func (j *sentenceJob) Execute(ctx context.Context) worker.Result {
	merged, diags := j.merger.Merge(j.raw)
	tokens, normDiags := j.normalizer.NormalizeSentence(merged)
	diags = append(diags, normDiags...)

	sentence := model.Sentence{Index: j.index, Tokens: tokens}

	if j.validator != nil {
		parse, err := j.validator.Validate(sentence)
		switch {
		case err != nil:
			diags = append(diags, model.Diagnostic{
				Kind:   model.DiagGrammarAborted,
				Engine: engineOf(j.raw),
				Token:  -1,
				Detail: err.Error(),
			})
		default:
			sentence.Parse = &parse
			if !parse.Succeeded {
				diags = append(diags, model.Diagnostic{
					Kind:   model.DiagGrammarMismatch,
					Engine: engineOf(j.raw),
					Token:  -1,
					Detail: "no derivation for " + strings.Join(parse.Symbols, " "),
				})
			}
		}
	}

	for i := range diags {
		diags[i].Sentence = j.index
	}
	return &sentenceResult{index: j.index, sentence: sentence, diagnostics: diags}
}

func engineOf(tokens []model.RawToken) model.EngineID {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].Engine
}
