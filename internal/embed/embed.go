// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns text into fixed-dimension vectors for relevance
// scoring. Two providers exist: a local ONNX model loaded through fastembed
// and a remote Ollama server. The encoder is process-wide state: it is
// built once by Shared and only read afterwards.
package embed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/litsearch/internal/logging"
	"github.com/pdiddy/litsearch/pkg/types"
)

var (
	// ErrInvalidConfig is returned for unusable encoder settings.
	ErrInvalidConfig = errors.New("invalid embedding config")

	// ErrEmbeddingFailed wraps provider failures during Encode.
	ErrEmbeddingFailed = errors.New("embedding failed")
)

// Encoder converts text to a vector. Implementations are deterministic for
// a given input and safe for concurrent use.
type Encoder interface {
	// Encode returns the embedding of text. Input longer than the model
	// accepts is truncated rather than rejected.
	Encode(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the vector length, or 0 if not yet known.
	Dimension() int

	// Close releases model resources.
	Close() error
}

// New builds the encoder selected by cfg.Provider.
func New(cfg types.EmbeddingConfig, logger *zap.Logger) (Encoder, error) {
	logger = logging.OrNop(logger)
	switch cfg.Provider {
	case types.EmbeddingFastEmbed, "":
		enc, err := NewFastEmbedEncoder(FastEmbedConfig{
			Model:     cfg.Model,
			CacheDir:  cfg.CacheDir,
			MaxLength: cfg.MaxLength,
		})
		if err != nil {
			return nil, err
		}
		return enc, nil
	case types.EmbeddingOllama:
		enc, err := NewOllamaEncoder(OllamaConfig{
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			MaxChars: cfg.MaxChars,
		}, logger)
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (supported: fastembed, ollama)", ErrInvalidConfig, cfg.Provider)
	}
}

var (
	sharedOnce sync.Once
	sharedEnc  Encoder
	sharedErr  error

	// newEncoder is replaced in tests.
	newEncoder = New
)

// Shared returns the process-wide encoder, building it on first use. Only
// the first call's configuration is used; a failed build is reported to
// every caller. There is no teardown: the model lives for the process.
func Shared(cfg types.EmbeddingConfig, logger *zap.Logger) (Encoder, error) {
	sharedOnce.Do(func() {
		sharedEnc, sharedErr = newEncoder(cfg, logger)
		if sharedErr == nil {
			logging.OrNop(logger).Debug("embedding model loaded",
				zap.String("provider", string(cfg.Provider)),
				zap.String("model", cfg.Model))
		}
	})
	return sharedEnc, sharedErr
}

// zeroVector is the embedding of empty text: it has zero norm, so it
// scores 0 against everything.
func zeroVector(dim int) []float32 {
	return make([]float32, dim)
}

// truncateRunes shortens s to at most max runes. A non-positive max
// disables truncation.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
