package generate

// Config controls the generation pipeline.
type Config struct {
	// MaxTokens is the token budget for the provider response. Large
	// lists need room; the provider may clamp to its own ceiling.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}
