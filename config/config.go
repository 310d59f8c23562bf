package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug          = "cogitator-debug"
	ConfigListenAddr     = "cogitator-listen-addr"
	ConfigGenaiProvider  = "cogitator-provider"
	ConfigMaxAttempts    = "cogitator-max-attempts"
	ConfigPromptPath     = "cogitator-prompt-path"
	ConfigOpenaiApiKey   = "openai-api-key"
	ConfigOpenaiModel    = "openai-model"
	ConfigGeminiApiKey   = "gemini-api-key"
	ConfigGeminiModel    = "gemini-model"
	ConfigDeepseekApiKey = "deepseek-api-key"
	ConfigDeepseekModel  = "deepseek-model"
)

// secrets are never echoed back by SanitizedSettings.
var secrets = []string{ConfigOpenaiApiKey, ConfigGeminiApiKey, ConfigDeepseekApiKey}

// Config wraps a viper instance. Every key can be set from the environment
// by upper-casing it and replacing dashes with underscores, e.g.
// openai-api-key -> OPENAI_API_KEY.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{viper.New()}
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigListenAddr, ":8088")
	c.SetDefault(ConfigGenaiProvider, "openai")
	c.SetDefault(ConfigMaxAttempts, 1)
	c.SetDefault(ConfigPromptPath, "")
	c.SetDefault(ConfigOpenaiApiKey, "")
	c.SetDefault(ConfigOpenaiModel, "")
	c.SetDefault(ConfigGeminiApiKey, "")
	c.SetDefault(ConfigGeminiModel, "")
	c.SetDefault(ConfigDeepseekApiKey, "")
	c.SetDefault(ConfigDeepseekModel, "")
	return c
}

// Load parses command-line flags on top of the environment. Flags win over
// environment variables, which win over defaults.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("cogitator", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "enable debug logging")
	fs.String(ConfigListenAddr, ":8088", "address for the local HTTP server")
	fs.String(ConfigGenaiProvider, "openai", "LLM provider: openai, gemini or deepseek")
	fs.Int(ConfigMaxAttempts, 1, "maximum provider attempts per request")
	fs.String(ConfigPromptPath, "", "YAML prompt template; empty uses the built-in one")
	fs.String(ConfigOpenaiModel, "", "OpenAI model override")
	fs.String(ConfigGeminiModel, "", "Gemini model override")
	fs.String(ConfigDeepseekModel, "", "DeepSeek model override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	// Only flags that were explicitly set should shadow the environment.
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if bindErr == nil {
			bindErr = c.BindPFlag(f.Name, f)
		}
	})
	return bindErr
}

// ProviderKeys returns the API key and model override for the configured
// provider. Unknown providers return empty strings; the handler reports them.
func (c *Config) ProviderKeys() (provider, apiKey, model string) {
	provider = strings.ToLower(strings.TrimSpace(c.GetString(ConfigGenaiProvider)))
	switch provider {
	case "openai":
		apiKey = c.GetString(ConfigOpenaiApiKey)
		model = c.GetString(ConfigOpenaiModel)
	case "gemini":
		apiKey = c.GetString(ConfigGeminiApiKey)
		model = c.GetString(ConfigGeminiModel)
	case "deepseek":
		apiKey = c.GetString(ConfigDeepseekApiKey)
		model = c.GetString(ConfigDeepseekModel)
	}
	return provider, strings.TrimSpace(apiKey), strings.TrimSpace(model)
}

// SanitizedSettings returns all settings with secrets redacted, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	for _, k := range secrets {
		if v, ok := settings[k]; ok && v != "" {
			settings[k] = "********"
		}
	}
	return settings
}
