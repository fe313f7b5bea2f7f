// Package openai resolves word vectors through an OpenAI-compatible
// embeddings endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/robalobadob/closeword/internal/embedding"
)

// Config selects the model and endpoint.
type Config struct {
	APIKey     string
	BaseURL    string // empty => api.openai.com
	Model      string // default text-embedding-3-small
	Dimensions int    // 0 => model default
	Timeout    time.Duration
}

// Source calls the embeddings API once per word. Wrap it with sqlcache to
// pay for each word only once.
type Source struct {
	client *openai.Client
	model  string
	dim    int
	reqDim int
}

// New builds a source from cfg.
func New(cfg Config) (*Source, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key not set")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	dim := cfg.Dimensions
	if dim == 0 {
		dim = defaultDimension(cfg.Model)
	}
	return &Source{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		dim:    dim,
		reqDim: cfg.Dimensions,
	}, nil
}

// defaultDimension returns the native output size of known models.
func defaultDimension(model string) int {
	switch openai.EmbeddingModel(model) {
	case openai.LargeEmbedding3:
		return 3072
	default:
		return 1536
	}
}

func (s *Source) Name() string   { return "openai/" + s.model }
func (s *Source) Dimension() int { return s.dim }

// VectorOf returns the L2-normalized embedding of word. Transport and API
// failures are reported as embedding.ErrUnavailable.
func (s *Source) VectorOf(ctx context.Context, word string) (embedding.Vector, error) {
	if word == "" {
		return nil, embedding.ErrInvalidInput
	}
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(s.model),
		Input:      []string{word},
		Dimensions: s.reqDim,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", embedding.ErrUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: openai: no embedding data returned", embedding.ErrUnavailable)
	}

	raw := resp.Data[0].Embedding
	if len(raw) != s.dim {
		return nil, fmt.Errorf("%w: openai: got dimension %d, want %d", embedding.ErrUnavailable, len(raw), s.dim)
	}
	v := make(embedding.Vector, len(raw))
	for i := range raw {
		v[i] = float32(raw[i])
	}
	return embedding.Normalized(v), nil
}
