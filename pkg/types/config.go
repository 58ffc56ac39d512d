package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litsearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SourceConfig controls a single source adapter.
type SourceConfig struct {
	// Enabled controls whether the adapter is registered.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// MaxResults caps the adapter's contribution. Zero means the requested
	// result count.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Timeout bounds one fetch, including retries and pauses. Zero disables
	// the per-adapter bound.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// SearchConfig holds settings for the source adapters.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// NumResults is the default number of ranked results (default 5).
	NumResults int `json:"num_results" yaml:"num_results" mapstructure:"num_results"`

	SemanticScholar SourceConfig `json:"semantic_scholar" yaml:"semantic_scholar" mapstructure:"semantic_scholar"`
	Arxiv           SourceConfig `json:"arxiv" yaml:"arxiv" mapstructure:"arxiv"`
	GoogleScholar   SourceConfig `json:"google_scholar" yaml:"google_scholar" mapstructure:"google_scholar"`
	OpenAlex        SourceConfig `json:"openalex" yaml:"openalex" mapstructure:"openalex"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`

	// ScholarInterval is the pause between sequential Google Scholar requests (default 1s).
	ScholarInterval time.Duration `json:"scholar_interval" yaml:"scholar_interval" mapstructure:"scholar_interval"`
}

// EmbeddingProvider selects the embedding backend.
type EmbeddingProvider string

const (
	EmbeddingFastEmbed EmbeddingProvider = "fastembed"
	EmbeddingOllama    EmbeddingProvider = "ollama"
)

// EmbeddingConfig holds settings for the embedding encoder.
type EmbeddingConfig struct {
	// Provider is "fastembed" (local ONNX model) or "ollama".
	Provider EmbeddingProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the embedding model name. Empty selects the provider's
	// default (all-MiniLM-L6-v2 for fastembed, all-minilm for ollama).
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// CacheDir is where fastembed keeps downloaded model files.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`

	// MaxLength is the maximum number of tokens fed to the local model;
	// longer input is truncated by the tokenizer.
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`

	// BaseURL is the Ollama server URL.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxChars bounds the text sent to a remote provider.
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
}

// AIConfig holds shared settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SummaryConfig holds settings for the summarization collaborator.
type SummaryConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// MaxChars truncates generated summaries (default 500).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	// Timeout bounds one summarization request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every configuration section.
type Config struct {
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Summary   SummaryConfig   `json:"summary" yaml:"summary" mapstructure:"summary"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
// It enables the three literature sources and leaves OpenAlex off.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "litsearch/0.1",
			},
			NumResults:      5,
			SemanticScholar: SourceConfig{Enabled: true, Timeout: 60 * time.Second},
			Arxiv:           SourceConfig{Enabled: true, Timeout: 30 * time.Second},
			GoogleScholar:   SourceConfig{Enabled: true, MaxResults: 3, Timeout: 20 * time.Second},
			OpenAlex:        SourceConfig{Enabled: false, Timeout: 30 * time.Second},
			ScholarInterval: time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:  EmbeddingFastEmbed,
			CacheDir:  "local_cache",
			MaxLength: 512,
			BaseURL:   "http://localhost:11434",
			MaxChars:  8000,
		},
		Summary: SummaryConfig{
			AIConfig: AIConfig{
				Model:      "gemini-1.5-flash",
				MaxRetries: 3,
			},
			MaxChars: 500,
			Timeout:  60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
