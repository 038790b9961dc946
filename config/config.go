package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	LLM struct {
		Provider           string  `yaml:"provider"` // "groq" or "gemini"
		RetryCount         int     `yaml:"retryCount"`
		BaseBackoffSeconds float64 `yaml:"baseBackoffSeconds"`
	} `yaml:"llm"`

	Groq struct {
		ApiKey  string `yaml:"apiKey"`
		BaseUrl string `yaml:"baseUrl"`
		Model   string `yaml:"model"`
	} `yaml:"groq"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Upload struct {
		MaxBytes int64 `yaml:"maxBytes"`
	} `yaml:"upload"`

	Cors struct {
		AllowedOrigin string `yaml:"allowedOrigin"`
	} `yaml:"cors"`
}

const (
	DefaultGroqBaseUrl = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama3-8b-8192"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// LoadConfig reads the configuration file, applies environment overrides
// and defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.Groq.ApiKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.ApiKey = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "groq"
	}
	if c.LLM.RetryCount <= 0 {
		c.LLM.RetryCount = 3
	}
	if c.LLM.BaseBackoffSeconds <= 0 {
		c.LLM.BaseBackoffSeconds = 1
	}
	if c.Groq.BaseUrl == "" {
		c.Groq.BaseUrl = DefaultGroqBaseUrl
	}
	if c.Groq.Model == "" {
		c.Groq.Model = DefaultGroqModel
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = 50 << 20 // 50MB
	}
	if c.Cors.AllowedOrigin == "" {
		c.Cors.AllowedOrigin = "http://localhost:8501"
	}
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "groq":
		key := SanitizeApiKey(c.Groq.ApiKey)
		if key == "" {
			return errors.New("groq apiKey is required: set groq.apiKey in the config file or the GROQ_API_KEY environment variable")
		}
		if !ValidGroqApiKey(key) {
			return errors.New("groq apiKey format is invalid: expected a gsk_-prefixed key on a single line")
		}
		c.Groq.ApiKey = key
	case "gemini":
		if SanitizeApiKey(c.Gemini.ApiKey) == "" {
			return errors.New("gemini apiKey is required: set gemini.apiKey in the config file or the GEMINI_API_KEY environment variable")
		}
	default:
		return fmt.Errorf("unknown llm provider %q (expected \"groq\" or \"gemini\")", c.LLM.Provider)
	}
	return nil
}

// SanitizeApiKey strips whitespace and stray newlines that sneak in when a
// key is pasted into an .env file.
func SanitizeApiKey(key string) string {
	key = strings.ReplaceAll(key, "\n", "")
	key = strings.ReplaceAll(key, " ", "")
	return strings.TrimSpace(key)
}

// ValidGroqApiKey reports whether a sanitized key looks like a Groq key.
func ValidGroqApiKey(key string) bool {
	return strings.HasPrefix(key, "gsk_") && len(key) >= 20
}

// Model returns the model name for the active provider.
func (c *Config) Model() string {
	if c.LLM.Provider == "gemini" {
		return c.Gemini.Model
	}
	return c.Groq.Model
}
