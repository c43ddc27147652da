package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigSource defines an interface for loading configuration from various sources.
type ConfigSource interface {
	Get(key string) (string, bool)
	GetWithDefault(key, defaultValue string) string
}

// EnvConfigSource loads configuration from environment variables.
type EnvConfigSource struct{}

// Get retrieves an environment variable.
func (e *EnvConfigSource) Get(key string) (string, bool) {
	val := os.Getenv(key)
	return val, val != ""
}

// GetWithDefault retrieves an environment variable or returns a default value.
func (e *EnvConfigSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := e.Get(key); ok {
		return val
	}
	return defaultValue
}

// FileConfigSource loads configuration from a JSON or YAML file.
type FileConfigSource struct {
	data map[string]interface{}
}

// NewFileConfigSource creates a new file-based config source.
// Supports both JSON and YAML files based on file extension.
func NewFileConfigSource(filePath string) (*FileConfigSource, error) {
	data := make(map[string]interface{})

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch {
	case strings.HasSuffix(filePath, ".yaml"), strings.HasSuffix(filePath, ".yml"):
		if err := yaml.Unmarshal(fileData, &data); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case strings.HasSuffix(filePath, ".json"):
		if err := json.Unmarshal(fileData, &data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format, use .json, .yaml, or .yml")
	}

	return &FileConfigSource{data: data}, nil
}

// Get retrieves a value from the config file using dot notation (e.g., "blob.container").
func (f *FileConfigSource) Get(key string) (string, bool) {
	keys := strings.Split(key, ".")
	var current interface{} = f.data

	for _, k := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return "", false
		}
		val, exists := m[k]
		if !exists {
			return "", false
		}
		current = val
	}

	if str, ok := current.(string); ok {
		return str, true
	}
	return fmt.Sprintf("%v", current), true
}

// GetWithDefault retrieves a value from the config file or returns a default.
func (f *FileConfigSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := f.Get(key); ok {
		return val
	}
	return defaultValue
}

// CompositeConfigSource checks multiple config sources in order.
type CompositeConfigSource struct {
	sources []ConfigSource
}

// Get retrieves a value from the first source that has it.
func (c *CompositeConfigSource) Get(key string) (string, bool) {
	for _, source := range c.sources {
		if val, ok := source.Get(key); ok {
			return val, true
		}
	}
	return "", false
}

// GetWithDefault retrieves a value from sources or returns default.
func (c *CompositeConfigSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := c.Get(key); ok {
		return val
	}
	return defaultValue
}

// Config holds application configuration.
type Config struct {
	// Application configuration
	AppName     string
	AppVersion  string
	Environment string // dev, staging, prod

	// HTTP Server configuration
	HTTPPort         int
	HTTPReadTimeout  int // seconds
	HTTPWriteTimeout int // seconds
	HTTPIdleTimeout  int // seconds
	MaxUploadBytes   int64
	RateLimitRPS     float64
	RateLimitBurst   int

	// Logging configuration
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Transform service configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMTimeout    int // seconds
	LLMRPS        float64
	LLMBurst      int

	// Page layout defaults
	PageMargin   float64 // points
	LinePadding  float64 // points
	BodyFontSize float64 // points
	DefaultTitle string
	FontsDir     string

	// Blob Storage configuration
	BlobStorageAccountName string
	BlobStorageAccountKey  string
	ArtifactContainer      string

	// Service Bus configuration
	ServiceBusNamespace   string
	ServiceBusKeyName     string
	ServiceBusKeyValue    string
	ReworkQueue           string
	CompletedQueue        string
	ServiceBusConcurrency int

	// Retry configuration
	RetryMaxAttempts  int
	RetryInitialDelay int // milliseconds
	RetryMaxDelay     int // milliseconds

	// Telemetry
	NewRelicLicenseKey string
	NewRelicEnabled    bool
	SlackWebhookURL    string
	SlowRequestMs      int
}

// LoadConfig loads configuration from the provided source.
func LoadConfig(source ConfigSource) (*Config, error) {
	getInt := func(key string, defaultValue int) int {
		str := source.GetWithDefault(key, strconv.Itoa(defaultValue))
		val, err := strconv.Atoi(str)
		if err != nil {
			return defaultValue
		}
		return val
	}
	getFloat := func(key string, defaultValue float64) float64 {
		str := source.GetWithDefault(key, strconv.FormatFloat(defaultValue, 'f', -1, 64))
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return defaultValue
		}
		return val
	}
	getBool := func(key string, defaultValue bool) bool {
		str := source.GetWithDefault(key, strconv.FormatBool(defaultValue))
		val, err := strconv.ParseBool(str)
		if err != nil {
			return defaultValue
		}
		return val
	}

	cfg := &Config{}

	cfg.AppName = source.GetWithDefault("APP_NAME", "doc-rework-service")
	cfg.AppVersion = source.GetWithDefault("APP_VERSION", "1.0.0")
	cfg.Environment = source.GetWithDefault("ENVIRONMENT", "dev")

	cfg.HTTPPort = getInt("HTTP_PORT", 8080)
	cfg.HTTPReadTimeout = getInt("HTTP_READ_TIMEOUT", 30)
	cfg.HTTPWriteTimeout = getInt("HTTP_WRITE_TIMEOUT", 120)
	cfg.HTTPIdleTimeout = getInt("HTTP_IDLE_TIMEOUT", 120)
	cfg.MaxUploadBytes = int64(getInt("MAX_UPLOAD_BYTES", 25<<20))
	cfg.RateLimitRPS = getFloat("RATE_LIMIT_RPS", 0)
	cfg.RateLimitBurst = getInt("RATE_LIMIT_BURST", 10)

	cfg.LogLevel = source.GetWithDefault("LOG_LEVEL", "info")
	cfg.LogFormat = source.GetWithDefault("LOG_FORMAT", "json")

	cfg.OpenAIAPIKey = source.GetWithDefault("OPENAI_API_KEY", "")
	cfg.OpenAIBaseURL = source.GetWithDefault("OPENAI_BASE_URL", "")
	cfg.OpenAIModel = source.GetWithDefault("OPENAI_MODEL", "gpt-4-turbo")
	cfg.LLMTimeout = getInt("LLM_TIMEOUT", 120)
	cfg.LLMRPS = getFloat("LLM_RPS", 1)
	cfg.LLMBurst = getInt("LLM_BURST", 2)

	cfg.PageMargin = getFloat("PAGE_MARGIN", 72)
	cfg.LinePadding = getFloat("LINE_PADDING", 4)
	cfg.BodyFontSize = getFloat("BODY_FONT_SIZE", 10)
	cfg.DefaultTitle = source.GetWithDefault("DEFAULT_TITLE", "AI-Generated Document")
	cfg.FontsDir = source.GetWithDefault("FONTS_DIR", "fonts")

	cfg.BlobStorageAccountName = source.GetWithDefault("BLOB_STORAGE_ACCOUNT_NAME", "")
	cfg.BlobStorageAccountKey = source.GetWithDefault("BLOB_STORAGE_ACCOUNT_KEY", "")
	cfg.ArtifactContainer = source.GetWithDefault("ARTIFACT_CONTAINER", "reworked-documents")

	cfg.ServiceBusNamespace = source.GetWithDefault("SERVICE_BUS_NAMESPACE", "")
	cfg.ServiceBusKeyName = source.GetWithDefault("SERVICE_BUS_KEY_NAME", "")
	cfg.ServiceBusKeyValue = source.GetWithDefault("SERVICE_BUS_KEY_VALUE", "")
	cfg.ReworkQueue = source.GetWithDefault("REWORK_QUEUE", "rework-requests")
	cfg.CompletedQueue = source.GetWithDefault("COMPLETED_QUEUE", "rework-completed")
	cfg.ServiceBusConcurrency = getInt("SERVICE_BUS_CONCURRENCY", 1)

	cfg.RetryMaxAttempts = getInt("RETRY_MAX_ATTEMPTS", 3)
	cfg.RetryInitialDelay = getInt("RETRY_INITIAL_DELAY", 100)
	cfg.RetryMaxDelay = getInt("RETRY_MAX_DELAY", 5000)

	cfg.NewRelicLicenseKey = source.GetWithDefault("NEW_RELIC_LICENSE_KEY", "")
	cfg.NewRelicEnabled = getBool("NEW_RELIC_ENABLED", false)
	cfg.SlackWebhookURL = source.GetWithDefault("SLACK_WEBHOOK_URL", "")
	cfg.SlowRequestMs = getInt("SLOW_REQUEST_MS", 10000)

	return cfg, nil
}

// LoadConfigFromEnv loads configuration from environment variables.
func LoadConfigFromEnv() (*Config, error) {
	return LoadConfig(&EnvConfigSource{})
}

// LoadConfigFromFile loads configuration from a JSON or YAML file.
// Environment variables override file values if both are set.
func LoadConfigFromFile(filePath string) (*Config, error) {
	fileSource, err := NewFileConfigSource(filePath)
	if err != nil {
		return nil, err
	}

	composite := &CompositeConfigSource{
		sources: []ConfigSource{&EnvConfigSource{}, fileSource},
	}

	return LoadConfig(composite)
}
