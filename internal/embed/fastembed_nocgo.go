//go:build !cgo

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
)

// ErrFastEmbedNotAvailable is returned when the binary was built without cgo.
var ErrFastEmbedNotAvailable = errors.New("fastembed: not available (built without cgo, use the ollama provider)")

// FastEmbedConfig holds configuration for the local ONNX encoder.
type FastEmbedConfig struct {
	Model     string
	CacheDir  string
	MaxLength int
}

// FastEmbedEncoder is unavailable in non-cgo builds.
type FastEmbedEncoder struct{}

// NewFastEmbedEncoder always fails without cgo.
func NewFastEmbedEncoder(_ FastEmbedConfig) (*FastEmbedEncoder, error) {
	return nil, ErrFastEmbedNotAvailable
}

// Encode always fails without cgo.
func (e *FastEmbedEncoder) Encode(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrFastEmbedNotAvailable
}

// Dimension returns 0.
func (e *FastEmbedEncoder) Dimension() int { return 0 }

// Close is a no-op.
func (e *FastEmbedEncoder) Close() error { return nil }
