package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultGeminiModel  = "gemini-2.5-flash"
	DefaultBedrockModel = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"
)

// ReasoningConfig configures the structured-output reasoning providers.
type ReasoningConfig struct {
	// Provider is used for text stages; VisionProvider for image recognition.
	// An empty VisionProvider falls back to Provider.
	Provider       string                    `mapstructure:"provider"`
	VisionProvider string                    `mapstructure:"vision_provider"`
	Timeout        time.Duration             `mapstructure:"timeout"`
	MaxTokens      int                       `mapstructure:"max_tokens"`
	Temperature    float64                   `mapstructure:"temperature"`
	Providers      map[string]ProviderConfig `mapstructure:"providers"`
}

// ProviderConfig holds credentials and the default model of one provider.
type ProviderConfig struct {
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	APIKeyEnv string `mapstructure:"api_key_env"`
	BaseURL   string `mapstructure:"base_url"`
	Region    string `mapstructure:"region"`
	// Profile names a shared AWS config profile (bedrock only).
	Profile string `mapstructure:"profile"`
}

// ResolveEnvVars loads APIKey from APIKeyEnv when no key is set directly.
func (p *ProviderConfig) ResolveEnvVars() {
	if p.APIKey == "" && p.APIKeyEnv != "" {
		p.APIKey = os.Getenv(p.APIKeyEnv)
	}
}

// VisionProviderName returns the provider used for image recognition.
func (c *ReasoningConfig) VisionProviderName() string {
	if c.VisionProvider != "" {
		return c.VisionProvider
	}
	return c.Provider
}

// Validate checks that the selected providers are known and configured.
// API keys are not required here so the service can start without them.
func (c *ReasoningConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("reasoning: timeout must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("reasoning: max_tokens must be positive")
	}
	for _, name := range []string{c.Provider, c.VisionProviderName()} {
		switch name {
		case "openai", "gemini", "bedrock":
		default:
			return fmt.Errorf("reasoning: unknown provider %q", name)
		}
		p, ok := c.Providers[name]
		if !ok {
			return fmt.Errorf("reasoning: provider %q is not configured", name)
		}
		if p.Model == "" {
			return fmt.Errorf("reasoning %q: model is required", name)
		}
		if name == "bedrock" && p.Region == "" {
			return fmt.Errorf("reasoning %q: region is required", name)
		}
	}
	return nil
}
