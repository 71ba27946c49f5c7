package reasoning

import (
	"context"
	"fmt"
	"sync"

	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/logger"
)

type clientKey struct {
	provider  Provider
	model     string
	maxTokens int
}

type buildFunc func(ctx context.Context, p Provider, opts Options) (Client, error)

// Registry builds provider clients on first use and reuses them per
// (provider, model, max tokens). Construct one per process and inject it.
type Registry struct {
	cfg     config.ReasoningConfig
	build   buildFunc
	mu      sync.Mutex
	clients map[clientKey]Client
}

// NewRegistry creates a registry over the configured providers.
func NewRegistry(cfg config.ReasoningConfig) *Registry {
	return &Registry{
		cfg:     cfg,
		build:   buildClient,
		clients: make(map[clientKey]Client),
	}
}

// Client returns the client for provider p. An empty model or non-positive
// maxTokens falls back to the configured defaults.
func (r *Registry) Client(ctx context.Context, p Provider, model string, maxTokens int) (Client, error) {
	pc, ok := r.cfg.Providers[string(p)]
	if !ok {
		return nil, fmt.Errorf("reasoning provider %q is not configured", p)
	}
	if model == "" {
		model = pc.Model
	}
	if maxTokens <= 0 {
		maxTokens = r.cfg.MaxTokens
	}
	key := clientKey{provider: p, model: model, maxTokens: maxTokens}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[key]; ok {
		return c, nil
	}

	c, err := r.build(ctx, p, Options{
		Model:       model,
		APIKey:      pc.APIKey,
		BaseURL:     pc.BaseURL,
		Region:      pc.Region,
		Profile:     pc.Profile,
		MaxTokens:   maxTokens,
		Temperature: r.cfg.Temperature,
		Timeout:     r.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s client: %w", p, err)
	}
	r.clients[key] = c

	logger.With(logger.Fields{
		logger.FieldProvider: string(p),
		"model":              model,
		"max_tokens":         maxTokens,
	}).Info(ctx, "Registered reasoning client")
	return c, nil
}

// Text returns the default client for the text stages.
func (r *Registry) Text(ctx context.Context) (Client, error) {
	p, err := ParseProvider(r.cfg.Provider)
	if err != nil {
		return nil, err
	}
	return r.Client(ctx, p, "", 0)
}

// Vision returns the default client for image recognition.
func (r *Registry) Vision(ctx context.Context) (Client, error) {
	p, err := ParseProvider(r.cfg.VisionProviderName())
	if err != nil {
		return nil, err
	}
	return r.Client(ctx, p, "", 0)
}

func buildClient(ctx context.Context, p Provider, opts Options) (Client, error) {
	switch p {
	case ProviderOpenAI:
		return NewOpenAIClient(opts), nil
	case ProviderGemini:
		return NewGeminiClient(opts), nil
	case ProviderBedrock:
		c, err := NewBedrockClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown reasoning provider %q", p)
}
