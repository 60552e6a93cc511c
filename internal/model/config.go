package model

import "time"

// Config is the complete claimflow configuration.
type Config struct {
	Workflow  WorkflowConfig  `yaml:"workflow" json:"workflow"`
	LLM       LLMConfig       `yaml:"llm" json:"llm"`
	Documents DocumentsConfig `yaml:"documents" json:"documents"`
	Session   SessionConfig   `yaml:"session" json:"session"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// WorkflowConfig tunes the state machine's termination heuristics.
type WorkflowConfig struct {
	// Batch presents all clarification questions together and suspends
	// until every answer is available. When false, conflicts are clarified
	// one per cycle.
	Batch bool `yaml:"batch" json:"batch"`

	// MaxValidationCycles is the circuit breaker on validation passes.
	MaxValidationCycles int `yaml:"max_validation_cycles" json:"max_validation_cycles"`

	// AcceptableCompleteness is the floor at which the stale-progress and
	// attempt-budget breakers may force finalization.
	AcceptableCompleteness float64 `yaml:"acceptable_completeness" json:"acceptable_completeness"`

	// MaxSteps is the hard ceiling on node executions per run, guarding
	// against routing defects. This is in addition to the breakers above.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`

	// QuestionsPerAttempt caps how many collection questions are asked on
	// the first pass.
	QuestionsPerAttempt int `yaml:"questions_per_attempt" json:"questions_per_attempt"`
}

// LLMConfig configures the generation collaborator.
type LLMConfig struct {
	// Provider name: "openai", "openrouter", "anthropic", "ollama", "" (offline).
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"-" json:"-"`
	BaseURL  string `yaml:"base_url" json:"base_url"`

	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	MaxTokens int           `yaml:"max_tokens" json:"max_tokens"`

	// RequestsPerSecond rate-limits provider calls; zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// DocumentsConfig configures document intake.
type DocumentsConfig struct {
	// SamplePath is used when the claimant leaves the document prompt
	// blank, and by scripted runs once their answer list is exhausted.
	SamplePath string `yaml:"sample_path" json:"sample_path"`

	// Prompt controls whether the workflow asks for a document path when
	// none was queued up front.
	Prompt bool `yaml:"prompt" json:"prompt"`

	// MaxTextBytes caps how much document text is fed to extraction.
	MaxTextBytes int `yaml:"max_text_bytes" json:"max_text_bytes"`
}

// SessionConfig configures the interactive IO session store.
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" json:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workflow: WorkflowConfig{
			Batch:                  false,
			MaxValidationCycles:    3,
			AcceptableCompleteness: 0.8,
			MaxSteps:               100,
			QuestionsPerAttempt:    3,
		},
		LLM: LLMConfig{
			Provider:          "",
			Timeout:           30 * time.Second,
			MaxTokens:         1000,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Documents: DocumentsConfig{
			SamplePath:   "sample_data/police_report_example.txt",
			Prompt:       true,
			MaxTextBytes: 6000,
		},
		Session: SessionConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Output: OutputConfig{},
	}
}
