package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litreview/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds settings for the source adapter layer.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of records returned per fetch (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// LocalPath is the JSON corpus file used by the local adapter.
	LocalPath string `json:"local_path,omitempty" yaml:"local_path,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// AssistConfig holds settings for the generative-AI service.
type AssistConfig struct {
	// Model is the Gemini model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKeys holds up to three keys; each request picks one round-robin.
	APIKeys []string `json:"api_keys,omitempty" yaml:"api_keys,omitempty"`

	// MaxOutputTokens bounds the model reply length (default 2048).
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// Timeout is the request timeout for AI calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Source SourceConfig `json:"source" yaml:"source"`
	Assist AssistConfig `json:"assist" yaml:"assist"`
}
