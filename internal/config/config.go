package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Fetch     FetchConfig
	S3        S3Config
	OCR       OCRConfig
	Extractor ExtractorConfig
	Pipeline  PipelineConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig holds document download settings.
type FetchConfig struct {
	TimeoutSecs   int   `mapstructure:"timeout_secs"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// S3Config holds AWS S3 settings for s3:// document URLs.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// OCRConfig holds settings for the external text-recognition service.
type OCRConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds settings for the LLM fallback extractor.
type ExtractorConfig struct {
	Provider      string  `mapstructure:"provider"`
	APIKey        string  `mapstructure:"api_key"`
	Endpoint      string  `mapstructure:"endpoint"`
	DefaultModel  string  `mapstructure:"default_model"`
	TimeoutSecs   int     `mapstructure:"timeout_secs"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	RateBurst     int     `mapstructure:"rate_burst"`
}

// PipelineConfig holds extraction pipeline settings.
type PipelineConfig struct {
	PageConcurrency     int `mapstructure:"page_concurrency"`
	FallbackTimeoutSecs int `mapstructure:"fallback_timeout_secs"`
}

// Load reads configuration from environment variables with the BILLSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Fetch defaults
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_file_size_mb", 50)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// OCR defaults
	v.SetDefault("ocr.endpoint", "https://api.mistral.ai/v1/ocr")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.model", "mistral-ocr-latest")
	v.SetDefault("ocr.timeout_secs", 120)

	// Extractor defaults
	v.SetDefault("extractor.provider", "openai")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.endpoint", "")
	v.SetDefault("extractor.default_model", "gpt-4o-mini")
	v.SetDefault("extractor.timeout_secs", 60)
	v.SetDefault("extractor.rate_per_second", 2.0)
	v.SetDefault("extractor.rate_burst", 4)

	// Pipeline defaults
	v.SetDefault("pipeline.page_concurrency", 4)
	v.SetDefault("pipeline.fallback_timeout_secs", 60)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "BILLSCAN_SERVER_PORT",
		"server.read_timeout":            "BILLSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "BILLSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":             "BILLSCAN_SERVER_ENVIRONMENT",
		"log.level":                      "BILLSCAN_LOG_LEVEL",
		"log.format":                     "BILLSCAN_LOG_FORMAT",
		"cors.allowed_origins":           "BILLSCAN_CORS_ALLOWED_ORIGINS",
		"fetch.timeout_secs":             "BILLSCAN_FETCH_TIMEOUT_SECS",
		"fetch.max_file_size_mb":         "BILLSCAN_FETCH_MAX_FILE_SIZE_MB",
		"s3.region":                      "BILLSCAN_S3_REGION",
		"s3.endpoint":                    "BILLSCAN_S3_ENDPOINT",
		"s3.access_key":                  "BILLSCAN_S3_ACCESS_KEY",
		"s3.secret_key":                  "BILLSCAN_S3_SECRET_KEY",
		"ocr.endpoint":                   "BILLSCAN_OCR_ENDPOINT",
		"ocr.api_key":                    "BILLSCAN_OCR_API_KEY",
		"ocr.model":                      "BILLSCAN_OCR_MODEL",
		"ocr.timeout_secs":               "BILLSCAN_OCR_TIMEOUT_SECS",
		"extractor.provider":             "BILLSCAN_EXTRACTOR_PROVIDER",
		"extractor.api_key":              "BILLSCAN_EXTRACTOR_API_KEY",
		"extractor.endpoint":             "BILLSCAN_EXTRACTOR_ENDPOINT",
		"extractor.default_model":        "BILLSCAN_EXTRACTOR_DEFAULT_MODEL",
		"extractor.timeout_secs":         "BILLSCAN_EXTRACTOR_TIMEOUT_SECS",
		"extractor.rate_per_second":      "BILLSCAN_EXTRACTOR_RATE_PER_SECOND",
		"extractor.rate_burst":           "BILLSCAN_EXTRACTOR_RATE_BURST",
		"pipeline.page_concurrency":      "BILLSCAN_PIPELINE_PAGE_CONCURRENCY",
		"pipeline.fallback_timeout_secs": "BILLSCAN_PIPELINE_FALLBACK_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Honor it when the
	// prefixed variable is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}
	if !strings.HasPrefix(serverPort, ":") {
		serverPort = ":" + serverPort
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Fetch = FetchConfig{
		TimeoutSecs:   v.GetInt("fetch.timeout_secs"),
		MaxFileSizeMB: v.GetInt64("fetch.max_file_size_mb"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.OCR = OCRConfig{
		Endpoint:    v.GetString("ocr.endpoint"),
		APIKey:      v.GetString("ocr.api_key"),
		Model:       v.GetString("ocr.model"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}
	cfg.Extractor = ExtractorConfig{
		Provider:      v.GetString("extractor.provider"),
		APIKey:        v.GetString("extractor.api_key"),
		Endpoint:      v.GetString("extractor.endpoint"),
		DefaultModel:  v.GetString("extractor.default_model"),
		TimeoutSecs:   v.GetInt("extractor.timeout_secs"),
		RatePerSecond: v.GetFloat64("extractor.rate_per_second"),
		RateBurst:     v.GetInt("extractor.rate_burst"),
	}
	cfg.Pipeline = PipelineConfig{
		PageConcurrency:     v.GetInt("pipeline.page_concurrency"),
		FallbackTimeoutSecs: v.GetInt("pipeline.fallback_timeout_secs"),
	}

	return cfg, nil
}
