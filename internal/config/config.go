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
	OCR       OCRConfig
	Extractor ExtractorConfig
	Pipeline  PipelineConfig
	Queue     QueueConfig
	S3        S3Config
	CORS      CORSConfig
	Notify    NotifyConfig
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

// OCRConfig holds text-extraction service settings.
type OCRConfig struct {
	Provider          string  `mapstructure:"provider"`
	APIKey            string  `mapstructure:"api_key"`
	Endpoint          string  `mapstructure:"endpoint"`
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ExtractorProviderConfig holds settings for a single LLM extraction provider.
type ExtractorProviderConfig struct {
	Provider          string  `mapstructure:"provider"`
	APIKey            string  `mapstructure:"api_key"`
	DefaultModel      string  `mapstructure:"default_model"`
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ExtractorConfig holds LLM field-extraction settings with multi-provider support.
type ExtractorConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider          string  `mapstructure:"provider"`
	APIKey            string  `mapstructure:"api_key"`
	DefaultModel      string  `mapstructure:"default_model"`
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`

	// Multi-provider fields
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary extraction provider config, falling back to legacy flat fields.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	if e.Primary.Provider != "" {
		return &e.Primary
	}
	return &ExtractorProviderConfig{
		Provider:          e.Provider,
		APIKey:            e.APIKey,
		DefaultModel:      e.DefaultModel,
		TimeoutSecs:       e.TimeoutSecs,
		RequestsPerSecond: e.RequestsPerSecond,
		Burst:             e.Burst,
	}
}

// SecondaryConfig returns the secondary extraction provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary extraction provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// PipelineConfig holds batch orchestration settings.
type PipelineConfig struct {
	InterDocumentDelay time.Duration `mapstructure:"inter_document_delay"`
	MinTextLength      int           `mapstructure:"min_text_length"`
}

// QueueConfig holds batch queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	MaxFileSizeMB  int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry  int64  `mapstructure:"presign_expiry"`
	ArchiveUploads bool   `mapstructure:"archive_uploads"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NotifyConfig holds batch-completion notification settings.
type NotifyConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	ToAddresses []string `mapstructure:"to_addresses"`
}

// Load reads configuration from environment variables with the PROPINTEL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PROPINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults. The write timeout must cover the synchronous
	// extract path, which waits on OCR plus one LLM call.
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// OCR defaults
	v.SetDefault("ocr.provider", "vision")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.timeout_secs", 60)
	v.SetDefault("ocr.requests_per_second", 2)
	v.SetDefault("ocr.burst", 1)

	// Extractor defaults (legacy flat)
	v.SetDefault("extractor.provider", "claude")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.timeout_secs", 120)
	v.SetDefault("extractor.requests_per_second", 1)
	v.SetDefault("extractor.burst", 1)

	// Extractor primary/secondary/tertiary defaults
	v.SetDefault("extractor.primary.provider", "")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.primary.requests_per_second", 1)
	v.SetDefault("extractor.primary.burst", 1)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.requests_per_second", 1)
	v.SetDefault("extractor.secondary.burst", 1)
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.api_key", "")
	v.SetDefault("extractor.tertiary.default_model", "")
	v.SetDefault("extractor.tertiary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.requests_per_second", 1)
	v.SetDefault("extractor.tertiary.burst", 1)

	// Pipeline defaults: the 2s delay is a deliberate throttle against
	// external rate limits, not a tunable performance knob.
	v.SetDefault("pipeline.inter_document_delay", "2s")
	v.SetDefault("pipeline.min_text_length", 10)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.concurrency", 2)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "propintel-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)
	v.SetDefault("s3.archive_uploads", false)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "ap-south-1")
	v.SetDefault("notify.from_address", "noreply@propintel.lk")
	v.SetDefault("notify.from_name", "PropIntel")
	v.SetDefault("notify.to_addresses", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "PROPINTEL_SERVER_PORT",
		"server.read_timeout":  "PROPINTEL_SERVER_READ_TIMEOUT",
		"server.write_timeout": "PROPINTEL_SERVER_WRITE_TIMEOUT",
		"server.environment":   "PROPINTEL_SERVER_ENVIRONMENT",
		"log.level":            "PROPINTEL_LOG_LEVEL",
		"log.format":           "PROPINTEL_LOG_FORMAT",
		"ocr.provider":         "PROPINTEL_OCR_PROVIDER",
		"ocr.api_key":          "PROPINTEL_OCR_API_KEY",
		"ocr.endpoint":         "PROPINTEL_OCR_ENDPOINT",
		"ocr.timeout_secs":     "PROPINTEL_OCR_TIMEOUT_SECS",
		"ocr.requests_per_second":              "PROPINTEL_OCR_REQUESTS_PER_SECOND",
		"ocr.burst":                            "PROPINTEL_OCR_BURST",
		"extractor.provider":                   "PROPINTEL_EXTRACTOR_PROVIDER",
		"extractor.api_key":                    "PROPINTEL_EXTRACTOR_API_KEY",
		"extractor.default_model":              "PROPINTEL_EXTRACTOR_DEFAULT_MODEL",
		"extractor.timeout_secs":               "PROPINTEL_EXTRACTOR_TIMEOUT_SECS",
		"extractor.requests_per_second":        "PROPINTEL_EXTRACTOR_REQUESTS_PER_SECOND",
		"extractor.burst":                      "PROPINTEL_EXTRACTOR_BURST",
		"extractor.primary.provider":           "PROPINTEL_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":            "PROPINTEL_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":      "PROPINTEL_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":       "PROPINTEL_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.primary.requests_per_second": "PROPINTEL_EXTRACTOR_PRIMARY_REQUESTS_PER_SECOND",
		"extractor.primary.burst":               "PROPINTEL_EXTRACTOR_PRIMARY_BURST",
		"extractor.secondary.provider":          "PROPINTEL_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":           "PROPINTEL_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model":     "PROPINTEL_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":      "PROPINTEL_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"extractor.secondary.requests_per_second": "PROPINTEL_EXTRACTOR_SECONDARY_REQUESTS_PER_SECOND",
		"extractor.secondary.burst":               "PROPINTEL_EXTRACTOR_SECONDARY_BURST",
		"extractor.tertiary.provider":             "PROPINTEL_EXTRACTOR_TERTIARY_PROVIDER",
		"extractor.tertiary.api_key":              "PROPINTEL_EXTRACTOR_TERTIARY_API_KEY",
		"extractor.tertiary.default_model":        "PROPINTEL_EXTRACTOR_TERTIARY_DEFAULT_MODEL",
		"extractor.tertiary.timeout_secs":         "PROPINTEL_EXTRACTOR_TERTIARY_TIMEOUT_SECS",
		"extractor.tertiary.requests_per_second":  "PROPINTEL_EXTRACTOR_TERTIARY_REQUESTS_PER_SECOND",
		"extractor.tertiary.burst":                "PROPINTEL_EXTRACTOR_TERTIARY_BURST",
		"pipeline.inter_document_delay":           "PROPINTEL_PIPELINE_INTER_DOCUMENT_DELAY",
		"pipeline.min_text_length":                "PROPINTEL_PIPELINE_MIN_TEXT_LENGTH",
		"queue.poll_interval_secs":                "PROPINTEL_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":                       "PROPINTEL_QUEUE_CONCURRENCY",
		"s3.region":                               "PROPINTEL_S3_REGION",
		"s3.bucket":                               "PROPINTEL_S3_BUCKET",
		"s3.endpoint":                             "PROPINTEL_S3_ENDPOINT",
		"s3.access_key":                           "PROPINTEL_S3_ACCESS_KEY",
		"s3.secret_key":                           "PROPINTEL_S3_SECRET_KEY",
		"s3.max_file_size_mb":                     "PROPINTEL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                       "PROPINTEL_S3_PRESIGN_EXPIRY",
		"s3.archive_uploads":                      "PROPINTEL_S3_ARCHIVE_UPLOADS",
		"cors.allowed_origins":                    "PROPINTEL_CORS_ALLOWED_ORIGINS",
		"notify.provider":                         "PROPINTEL_NOTIFY_PROVIDER",
		"notify.region":                           "PROPINTEL_NOTIFY_REGION",
		"notify.from_address":                     "PROPINTEL_NOTIFY_FROM_ADDRESS",
		"notify.from_name":                        "PROPINTEL_NOTIFY_FROM_NAME",
		"notify.to_addresses":                     "PROPINTEL_NOTIFY_TO_ADDRESSES",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PROPINTEL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PROPINTEL_SERVER_PORT") == "" {
		serverPort = ":" + port
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
	cfg.OCR = OCRConfig{
		Provider:          v.GetString("ocr.provider"),
		APIKey:            v.GetString("ocr.api_key"),
		Endpoint:          v.GetString("ocr.endpoint"),
		TimeoutSecs:       v.GetInt("ocr.timeout_secs"),
		RequestsPerSecond: v.GetFloat64("ocr.requests_per_second"),
		Burst:             v.GetInt("ocr.burst"),
	}
	cfg.Extractor = ExtractorConfig{
		Provider:          v.GetString("extractor.provider"),
		APIKey:            v.GetString("extractor.api_key"),
		DefaultModel:      v.GetString("extractor.default_model"),
		TimeoutSecs:       v.GetInt("extractor.timeout_secs"),
		RequestsPerSecond: v.GetFloat64("extractor.requests_per_second"),
		Burst:             v.GetInt("extractor.burst"),
		Primary: ExtractorProviderConfig{
			Provider:          v.GetString("extractor.primary.provider"),
			APIKey:            v.GetString("extractor.primary.api_key"),
			DefaultModel:      v.GetString("extractor.primary.default_model"),
			TimeoutSecs:       v.GetInt("extractor.primary.timeout_secs"),
			RequestsPerSecond: v.GetFloat64("extractor.primary.requests_per_second"),
			Burst:             v.GetInt("extractor.primary.burst"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:          v.GetString("extractor.secondary.provider"),
			APIKey:            v.GetString("extractor.secondary.api_key"),
			DefaultModel:      v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:       v.GetInt("extractor.secondary.timeout_secs"),
			RequestsPerSecond: v.GetFloat64("extractor.secondary.requests_per_second"),
			Burst:             v.GetInt("extractor.secondary.burst"),
		},
		Tertiary: ExtractorProviderConfig{
			Provider:          v.GetString("extractor.tertiary.provider"),
			APIKey:            v.GetString("extractor.tertiary.api_key"),
			DefaultModel:      v.GetString("extractor.tertiary.default_model"),
			TimeoutSecs:       v.GetInt("extractor.tertiary.timeout_secs"),
			RequestsPerSecond: v.GetFloat64("extractor.tertiary.requests_per_second"),
			Burst:             v.GetInt("extractor.tertiary.burst"),
		},
	}
	cfg.Pipeline = PipelineConfig{
		InterDocumentDelay: v.GetDuration("pipeline.inter_document_delay"),
		MinTextLength:      v.GetInt("pipeline.min_text_length"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.S3 = S3Config{
		Region:         v.GetString("s3.region"),
		Bucket:         v.GetString("s3.bucket"),
		Endpoint:       v.GetString("s3.endpoint"),
		AccessKey:      v.GetString("s3.access_key"),
		SecretKey:      v.GetString("s3.secret_key"),
		MaxFileSizeMB:  v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry:  v.GetInt64("s3.presign_expiry"),
		ArchiveUploads: v.GetBool("s3.archive_uploads"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	// Parse notification recipients from comma-separated string
	var recipients []string
	for _, r := range strings.Split(v.GetString("notify.to_addresses"), ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			recipients = append(recipients, r)
		}
	}
	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		FromName:    v.GetString("notify.from_name"),
		ToAddresses: recipients,
	}

	return cfg, nil
}
