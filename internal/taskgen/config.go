package taskgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the completion.
	MaxTokens int `mapstructure:"max_tokens"`

	// Temperature controls completion randomness (0.0-1.0).
	Temperature float64 `mapstructure:"temperature"`

	// StructuredOutput sends TaskSetSchema with the structured request so
	// providers that support it constrain the reply natively. The default
	// model does not, so it is off unless configured.
	StructuredOutput bool `mapstructure:"structured_output"`

	// PlaceholderAnswer fills TaskList.Answers, one per task.
	PlaceholderAnswer string `mapstructure:"placeholder_answer"`
}

// DefaultConfig returns the generation settings the service ships with.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Temperature:       0.7,
		PlaceholderAnswer: "Answers will vary.",
	}
}
