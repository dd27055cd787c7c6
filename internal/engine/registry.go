package engine

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/cache"
	"github.com/ppiankov/tagharmony/internal/model"
	"github.com/ppiankov/tagharmony/internal/util"
	"github.com/ppiankov/tagharmony/internal/worker"
)

// Deps are the shared collaborators handed to engine constructors
type Deps struct {
	HTTPClient *http.Client
	Limiter    *worker.Limiter
	Logger     *zap.Logger
}

// Constructor builds one engine from the run configuration
type Constructor func(cfg *model.Config, deps Deps) (Tagger, error)

// Registry maps engine identifiers to constructors
type Registry struct {
	mu           sync.RWMutex
	constructors map[model.EngineID]Constructor
	logger       *zap.Logger
}

// NewRegistry creates a registry holding every built-in engine
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		constructors: make(map[model.EngineID]Constructor),
		logger:       logger,
	}

	r.Register(model.EngineRule, func(cfg *model.Config, deps Deps) (Tagger, error) {
		return NewRuleTagger(), nil
	})
	r.Register(model.EngineSpacy, func(cfg *model.Config, deps Deps) (Tagger, error) {
		return NewSpacyTagger(cfg.Services.Spacy, deps.HTTPClient, deps.Limiter, deps.Logger), nil
	})
	r.Register(model.EngineStanza, func(cfg *model.Config, deps Deps) (Tagger, error) {
		return NewStanzaTagger(cfg.Services.Stanza, deps.HTTPClient, deps.Limiter, deps.Logger), nil
	})
	r.Register(model.EngineKagome, func(cfg *model.Config, deps Deps) (Tagger, error) {
		return NewKagomeTagger()
	})
	r.Register(model.EngineOpenAI, func(cfg *model.Config, deps Deps) (Tagger, error) {
		oc := cfg.OpenAI
		if oc.APIKey == "" {
			oc.APIKey = util.Getenv("OPENAI_API_KEY")
		}
		return NewOpenAITagger(oc, deps.HTTPClient)
	})

	return r
}

// Register adds or replaces an engine constructor
func (r *Registry) Register(id model.EngineID, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[id] = c
}

// Names lists the registered engines, built-in ones first
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Build constructs the engines cfg enables, in configuration order. Engine
// output is memoized in one shared in-memory cache when cfg.Cache is enabled.
func (r *Registry) Build(cfg *model.Config) ([]*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	limiter := worker.NewLimiter(0, 1)
	for _, svc := range []model.ServiceConfig{cfg.Services.Spacy, cfg.Services.Stanza} {
		if svc.URL != "" && svc.Rate > 0 {
			if err := limiter.SetEndpointRate(svc.URL, svc.Rate, svc.Burst); err != nil {
				return nil, fmt.Errorf("service url %q: %w", svc.URL, err)
			}
		}
	}
	deps := Deps{
		HTTPClient: util.NewHTTPClient(cfg.Proxy),
		Limiter:    limiter,
		Logger:     r.logger,
	}

	var memo cache.Cache
	if cfg.Cache.Enabled {
		memo = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapters := make([]*Adapter, 0, len(cfg.Engines))
	for _, id := range cfg.Engines {
		construct, ok := r.constructors[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownEngine, id, strings.Join(r.namesLocked(), ", "))
		}
		tagger, err := construct(cfg, deps)
		if err != nil {
			return nil, fmt.Errorf("build %s engine: %w", id, err)
		}
		if memo != nil {
			tagger = NewCachedTagger(tagger, memo, cfg.Cache.TTL, r.logger)
		}
		adapters = append(adapters, NewAdapter(tagger))
	}
	return adapters, nil
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.constructors))
	for _, id := range model.KnownEngines() {
		if _, ok := r.constructors[id]; ok {
			names = append(names, string(id))
		}
	}
	var extra []string
	for id := range r.constructors {
		if !isKnown(id) {
			extra = append(extra, string(id))
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func isKnown(id model.EngineID) bool {
	for _, k := range model.KnownEngines() {
		if k == id {
			return true
		}
	}
	return false
}
