// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces short plain-language summaries of ranked
// papers with a generative model. It runs after ranking and never affects
// which papers are returned or in what order.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/litsearch/internal/httputil"
	"github.com/pdiddy/litsearch/internal/logging"
	"github.com/pdiddy/litsearch/pkg/types"
)

// Messages shown in place of a summary.
const (
	NoAbstractMessage    = "No abstract available for summarization."
	NotConfiguredMessage = "Please configure your Gemini API key to enable summarization."
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// DefaultMaxChars bounds a summary when no limit is configured.
const DefaultMaxChars = 500

// ErrNoAPIKey is returned by NewGeminiClient when no API key is configured.
var ErrNoAPIKey = errors.New("no Gemini API key configured")

// Summarizer turns a paper's title and abstract into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, title, abstract string) (string, error)
}

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Summarize the following research paper in 1-2 clear, informative paragraphs:

Title: {{.Title}}

Abstract: {{.Abstract}}

Provide a concise summary that captures the main points, methodology, and key findings.
Focus on readability and information density.
`))

// geminiAPIBase is the Generative Language API root. Package-level var for
// test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	APIKey     string
	Model      string
	MaxChars   int
	MaxRetries int
	Timeout    time.Duration
	Client     *http.Client
	Logger     *zap.Logger
}

// NewGeminiClient builds a client from configuration. It returns
// ErrNoAPIKey when cfg carries no key.
func NewGeminiClient(cfg types.SummaryConfig, logger *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	c := &GeminiClient{
		APIKey:     strings.TrimSpace(cfg.APIKey),
		Model:      cfg.Model,
		MaxChars:   cfg.MaxChars,
		MaxRetries: cfg.MaxRetries,
		Timeout:    cfg.Timeout,
		Logger:     logger,
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	return c, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Summarize asks the model for a one or two paragraph summary and trims it
// to MaxChars characters, appending "..." when cut.
func (c *GeminiClient) Summarize(ctx context.Context, title, abstract string) (string, error) {
	prompt, err := renderPrompt(title, abstract)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Logger)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	for _, cand := range gr.Candidates {
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			max := c.MaxChars
			if max <= 0 {
				max = DefaultMaxChars
			}
			return truncate(text, max), nil
		}
	}
	return "", fmt.Errorf("Gemini API returned no text")
}

// Annotate returns one summary per paper, in order. Papers without an
// abstract get NoAbstractMessage and never reach the model. A nil
// Summarizer yields NotConfiguredMessage. A failed call yields a short
// error message in place of the summary; Annotate itself never fails.
func Annotate(ctx context.Context, s Summarizer, papers []types.Paper, logger *zap.Logger) []string {
	logger = logging.OrNop(logger)
	out := make([]string, len(papers))
	for i, p := range papers {
		switch {
		case !p.HasAbstract():
			out[i] = NoAbstractMessage
		case s == nil:
			out[i] = NotConfiguredMessage
		default:
			summary, err := s.Summarize(ctx, p.Title, *p.Abstract)
			if err != nil {
				logger.Warn("summarization failed", zap.String("title", p.Title), zap.Error(err))
				out[i] = failureMessage(err)
				continue
			}
			out[i] = summary
		}
	}
	return out
}

func failureMessage(err error) string {
	return "Error generating summary: " + truncate(err.Error(), 100) + "\nPlease try again later."
}

func renderPrompt(title, abstract string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Title, Abstract string }{Title: title, Abstract: abstract}
	if err := summaryPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncate keeps the first max characters of s and appends "..." when
// anything was cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
