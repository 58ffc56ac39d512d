// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "all-minilm"
	defaultMaxChars    = 8000
)

// OllamaConfig holds configuration for the Ollama encoder.
type OllamaConfig struct {
	// BaseURL is the Ollama server (default http://localhost:11434).
	BaseURL string

	// Model is the embedding model pulled on the server (default all-minilm).
	Model string

	// MaxChars truncates input before sending (default 8000 runes), keeping
	// long abstracts under the model's context length.
	MaxChars int

	// Client is the HTTP client; nil uses a client with a 60s timeout.
	Client *http.Client
}

// OllamaEncoder embeds text through the Ollama /api/embed endpoint.
type OllamaEncoder struct {
	client    *http.Client
	baseURL   string
	model     string
	maxChars  int
	dimension atomic.Int64
	logger    *zap.Logger
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaEncoder creates an encoder for an Ollama server. No request is
// made until the first Encode.
func NewOllamaEncoder(cfg OllamaConfig, logger *zap.Logger) (*OllamaEncoder, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: ollama base URL %q must be http(s)", ErrInvalidConfig, cfg.BaseURL)
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OllamaEncoder{
		client:   client,
		baseURL:  baseURL,
		model:    model,
		maxChars: maxChars,
		logger:   logger,
	}, nil
}

// Encode embeds text, truncated to MaxChars runes.
func (e *OllamaEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return zeroVector(e.Dimension()), nil
	}

	input := truncateRunes(text, e.maxChars)
	if len(input) < len(text) {
		e.logger.Debug("truncated embedding input",
			zap.Int("original_bytes", len(text)),
			zap.Int("max_chars", e.maxChars))
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: input})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama request: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: ollama returned HTTP %d: %s", ErrEmbeddingFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: parsing ollama response: %v", ErrEmbeddingFailed, err)
	}
	if len(out.Embeddings) == 0 || len(out.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embedding", ErrEmbeddingFailed)
	}

	vec := out.Embeddings[0]
	e.dimension.CompareAndSwap(0, int64(len(vec)))
	return vec, nil
}

// Dimension returns the vector length seen on the first successful call,
// or 0 before any call.
func (e *OllamaEncoder) Dimension() int { return int(e.dimension.Load()) }

// Close is a no-op; the server owns the model.
func (e *OllamaEncoder) Close() error { return nil }
