package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llm, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	rateLimit, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, LLM: llm, RateLimit: rateLimit}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Provider names a gateway variant. Selection is static configuration,
// never negotiated at runtime.
type Provider string

const (
	ProviderArk    Provider = "ark"
	ProviderOllama Provider = "ollama"
)

// LLMConfig describes the model backend.
type LLMConfig struct {
	Provider    Provider
	Timeout     time.Duration
	MaxTokens   int
	Temperature *float64

	// Ark (cloud) settings.
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string

	// Ollama (local) settings.
	OllamaBaseURL string
	OllamaModel   string
}

// Enabled reports whether the selected provider has what it needs.
func (c LLMConfig) Enabled() bool {
	switch c.Provider {
	case ProviderOllama:
		return c.OllamaModel != ""
	default:
		return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
	}
}

// NewChatModel builds the cloud chat model instance for the Ark provider.
func (c LLMConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + LLM_MODEL, or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadLLMConfig() (LLMConfig, error) {
	provider := Provider(strings.ToLower(getEnvOrDefault("LLM_PROVIDER", string(ProviderArk))))
	switch provider {
	case ProviderArk, ProviderOllama:
	default:
		return LLMConfig{}, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}

	temperature, err := parseOptionalFloatEnv("LLM_TEMPERATURE")
	if err != nil {
		return LLMConfig{}, err
	}

	maxTokens := 512
	if override, err := parseOptionalIntEnv("LLM_MAX_TOKENS"); err != nil {
		return LLMConfig{}, err
	} else if override != nil && *override > 0 {
		maxTokens = *override
	}

	// The timeout bounds one model call end to end: a slow upstream must
	// never hang a request indefinitely.
	timeoutSeconds := 35
	if override, err := parseOptionalIntEnv("LLM_TIMEOUT_SECONDS"); err != nil {
		return LLMConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return LLMConfig{
		Provider:      provider,
		Timeout:       time.Duration(timeoutSeconds) * time.Second,
		MaxTokens:     maxTokens,
		Temperature:   temperature,
		APIKey:        strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:     strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:     strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:         strings.TrimSpace(os.Getenv("LLM_MODEL")),
		BaseURL:       getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:        getEnvOrDefault("ARK_REGION", "cn-beijing"),
		OllamaBaseURL: getEnvOrDefault("OLLAMA_BASE_URL", "http://127.0.0.1:11434"),
		OllamaModel:   strings.TrimSpace(os.Getenv("OLLAMA_MODEL")),
	}, nil
}

// RateLimitConfig describes the optional per-client request limiter.
type RateLimitConfig struct {
	RedisAddr string
	Limit     int
	Window    time.Duration
}

// Enabled reports whether a limiter backend was configured.
func (c RateLimitConfig) Enabled() bool {
	return c.RedisAddr != ""
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	limit := 30
	if override, err := parseOptionalIntEnv("RATE_LIMIT_PER_MINUTE"); err != nil {
		return RateLimitConfig{}, err
	} else if override != nil && *override > 0 {
		limit = *override
	}

	return RateLimitConfig{
		RedisAddr: strings.TrimSpace(os.Getenv("RATE_LIMIT_REDIS_ADDR")),
		Limit:     limit,
		Window:    time.Minute,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
