package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"geoaddr/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Backend    BackendConfig
	Geocoder   GeocoderConfig
	Extraction ExtractionConfig
	Pipeline   PipelineConfig
	Queue      QueueConfig
	Webhook    WebhookConfig
}

// WebhookConfig holds the shared secret for channel message ingestion.
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

// QueueConfig holds channel message worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	BatchSize        int `mapstructure:"batch_size"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BackendProviderConfig holds settings for a single LLM extraction backend.
type BackendProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// BackendConfig holds the ordered LLM backend chain.
type BackendConfig struct {
	Primary   BackendProviderConfig `mapstructure:"primary"`
	Secondary BackendProviderConfig `mapstructure:"secondary"`
	Tertiary  BackendProviderConfig `mapstructure:"tertiary"`
}

// Providers returns the configured providers in priority order, skipping empty slots.
func (b *BackendConfig) Providers() []*BackendProviderConfig {
	var out []*BackendProviderConfig
	for _, p := range []*BackendProviderConfig{&b.Primary, &b.Secondary, &b.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// GeocoderConfig holds Nominatim client and retry settings.
type GeocoderConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	UserAgent     string        `mapstructure:"user_agent"`
	TimeoutSecs   int           `mapstructure:"timeout_secs"`
	Retries       int           `mapstructure:"retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	VariantDelay  time.Duration `mapstructure:"variant_delay"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Transliterate bool          `mapstructure:"transliterate"`
}

// ExtractionConfig holds the offline extractor scores.
type ExtractionConfig struct {
	StreetTypeFirst     float64 `mapstructure:"street_type_first"`
	StreetTypeLast      float64 `mapstructure:"street_type_last"`
	PrepositionComma    float64 `mapstructure:"preposition_comma"`
	PrepositionBuilding float64 `mapstructure:"preposition_building"`
	CityFirst           float64 `mapstructure:"city_first"`
	AddressLabel        float64 `mapstructure:"address_label"`
	BareName            float64 `mapstructure:"bare_name"`
	AddressSpan         float64 `mapstructure:"address_span"`
	Location            float64 `mapstructure:"location"`
	MinConfidence       float64 `mapstructure:"min_confidence"`
}

// PipelineConfig holds orchestrator settings.
type PipelineConfig struct {
	BatchDelay time.Duration `mapstructure:"batch_delay"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for batch report uploads.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the GEOADDR_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GEOADDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "geoaddr")
	v.SetDefault("db.password", "geoaddr_secret")
	v.SetDefault("db.name", "geoaddr_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "geoaddr-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Backend chain defaults
	v.SetDefault("backend.primary.provider", "groq")
	v.SetDefault("backend.primary.api_key", "")
	v.SetDefault("backend.primary.model", "")
	v.SetDefault("backend.primary.base_url", "")
	v.SetDefault("backend.primary.timeout_secs", 0)
	v.SetDefault("backend.secondary.provider", "gemini")
	v.SetDefault("backend.secondary.api_key", "")
	v.SetDefault("backend.secondary.model", "")
	v.SetDefault("backend.secondary.base_url", "")
	v.SetDefault("backend.secondary.timeout_secs", 0)
	v.SetDefault("backend.tertiary.provider", "")
	v.SetDefault("backend.tertiary.api_key", "")
	v.SetDefault("backend.tertiary.model", "")
	v.SetDefault("backend.tertiary.base_url", "")
	v.SetDefault("backend.tertiary.timeout_secs", 0)

	// Geocoder defaults
	v.SetDefault("geocoder.endpoint", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "addr_extract_ai_v3/1.0")
	v.SetDefault("geocoder.timeout_secs", 10)
	v.SetDefault("geocoder.retries", 2)
	v.SetDefault("geocoder.retry_delay", "1s")
	v.SetDefault("geocoder.variant_delay", "1100ms")
	v.SetDefault("geocoder.rate_per_second", 1.0)
	v.SetDefault("geocoder.transliterate", true)

	// Extraction defaults
	v.SetDefault("extraction.street_type_first", 0.8)
	v.SetDefault("extraction.street_type_last", 0.8)
	v.SetDefault("extraction.preposition_comma", 0.7)
	v.SetDefault("extraction.preposition_building", 0.7)
	v.SetDefault("extraction.city_first", 0.75)
	v.SetDefault("extraction.address_label", 0.6)
	v.SetDefault("extraction.bare_name", 0.5)
	v.SetDefault("extraction.address_span", 0.6)
	v.SetDefault("extraction.location", 0.5)
	v.SetDefault("extraction.min_confidence", 0.3)

	// Pipeline defaults
	v.SetDefault("pipeline.batch_delay", "1100ms")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.batch_size", 20)
	v.SetDefault("queue.concurrency", 1)

	v.SetDefault("webhook.secret", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "GEOADDR_SERVER_PORT",
		"server.read_timeout":            "GEOADDR_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "GEOADDR_SERVER_WRITE_TIMEOUT",
		"server.environment":             "GEOADDR_SERVER_ENVIRONMENT",
		"db.host":                        "GEOADDR_DB_HOST",
		"db.port":                        "GEOADDR_DB_PORT",
		"db.user":                        "GEOADDR_DB_USER",
		"db.password":                    "GEOADDR_DB_PASSWORD",
		"db.name":                        "GEOADDR_DB_NAME",
		"db.sslmode":                     "GEOADDR_DB_SSLMODE",
		"db.max_open":                    "GEOADDR_DB_MAX_OPEN",
		"db.max_idle":                    "GEOADDR_DB_MAX_IDLE",
		"s3.region":                      "GEOADDR_S3_REGION",
		"s3.bucket":                      "GEOADDR_S3_BUCKET",
		"s3.endpoint":                    "GEOADDR_S3_ENDPOINT",
		"s3.access_key":                  "GEOADDR_S3_ACCESS_KEY",
		"s3.secret_key":                  "GEOADDR_S3_SECRET_KEY",
		"s3.presign_expiry":              "GEOADDR_S3_PRESIGN_EXPIRY",
		"log.level":                      "GEOADDR_LOG_LEVEL",
		"log.format":                     "GEOADDR_LOG_FORMAT",
		"cors.allowed_origins":           "GEOADDR_CORS_ALLOWED_ORIGINS",
		"backend.primary.provider":       "GEOADDR_BACKEND_PRIMARY_PROVIDER",
		"backend.primary.api_key":        "GEOADDR_BACKEND_PRIMARY_API_KEY",
		"backend.primary.model":          "GEOADDR_BACKEND_PRIMARY_MODEL",
		"backend.primary.base_url":       "GEOADDR_BACKEND_PRIMARY_BASE_URL",
		"backend.primary.timeout_secs":   "GEOADDR_BACKEND_PRIMARY_TIMEOUT_SECS",
		"backend.secondary.provider":     "GEOADDR_BACKEND_SECONDARY_PROVIDER",
		"backend.secondary.api_key":      "GEOADDR_BACKEND_SECONDARY_API_KEY",
		"backend.secondary.model":        "GEOADDR_BACKEND_SECONDARY_MODEL",
		"backend.secondary.base_url":     "GEOADDR_BACKEND_SECONDARY_BASE_URL",
		"backend.secondary.timeout_secs": "GEOADDR_BACKEND_SECONDARY_TIMEOUT_SECS",
		"backend.tertiary.provider":      "GEOADDR_BACKEND_TERTIARY_PROVIDER",
		"backend.tertiary.api_key":       "GEOADDR_BACKEND_TERTIARY_API_KEY",
		"backend.tertiary.model":         "GEOADDR_BACKEND_TERTIARY_MODEL",
		"backend.tertiary.base_url":      "GEOADDR_BACKEND_TERTIARY_BASE_URL",
		"backend.tertiary.timeout_secs":  "GEOADDR_BACKEND_TERTIARY_TIMEOUT_SECS",
		"geocoder.endpoint":              "GEOADDR_GEOCODER_ENDPOINT",
		"geocoder.user_agent":            "GEOADDR_GEOCODER_USER_AGENT",
		"geocoder.timeout_secs":          "GEOADDR_GEOCODER_TIMEOUT_SECS",
		"geocoder.retries":               "GEOADDR_GEOCODER_RETRIES",
		"geocoder.retry_delay":           "GEOADDR_GEOCODER_RETRY_DELAY",
		"geocoder.variant_delay":         "GEOADDR_GEOCODER_VARIANT_DELAY",
		"geocoder.rate_per_second":       "GEOADDR_GEOCODER_RATE_PER_SECOND",
		"geocoder.transliterate":         "GEOADDR_GEOCODER_TRANSLITERATE",
		"extraction.min_confidence":      "GEOADDR_EXTRACTION_MIN_CONFIDENCE",
		"pipeline.batch_delay":           "GEOADDR_PIPELINE_BATCH_DELAY",
		"queue.poll_interval_secs":       "GEOADDR_QUEUE_POLL_INTERVAL_SECS",
		"queue.batch_size":               "GEOADDR_QUEUE_BATCH_SIZE",
		"queue.concurrency":              "GEOADDR_QUEUE_CONCURRENCY",
		"webhook.secret":                 "GEOADDR_WEBHOOK_SECRET",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GEOADDR_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GEOADDR_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Backend = BackendConfig{
		Primary:   providerConfig(v, "backend.primary"),
		Secondary: providerConfig(v, "backend.secondary"),
		Tertiary:  providerConfig(v, "backend.tertiary"),
	}
	applyProviderKeyFallbacks(&cfg.Backend)

	cfg.Geocoder = GeocoderConfig{
		Endpoint:      v.GetString("geocoder.endpoint"),
		UserAgent:     v.GetString("geocoder.user_agent"),
		TimeoutSecs:   v.GetInt("geocoder.timeout_secs"),
		Retries:       v.GetInt("geocoder.retries"),
		RetryDelay:    v.GetDuration("geocoder.retry_delay"),
		VariantDelay:  v.GetDuration("geocoder.variant_delay"),
		RatePerSecond: v.GetFloat64("geocoder.rate_per_second"),
		Transliterate: v.GetBool("geocoder.transliterate"),
	}

	// The floor can be raised but never lowered. Scores below it disable
	// the template instead of being lifted.
	minConf := v.GetFloat64("extraction.min_confidence")
	if minConf < domain.MinConfidence {
		minConf = domain.MinConfidence
	}
	cfg.Extraction = ExtractionConfig{
		StreetTypeFirst:     v.GetFloat64("extraction.street_type_first"),
		StreetTypeLast:      v.GetFloat64("extraction.street_type_last"),
		PrepositionComma:    v.GetFloat64("extraction.preposition_comma"),
		PrepositionBuilding: v.GetFloat64("extraction.preposition_building"),
		CityFirst:           v.GetFloat64("extraction.city_first"),
		AddressLabel:        v.GetFloat64("extraction.address_label"),
		BareName:            v.GetFloat64("extraction.bare_name"),
		AddressSpan:         v.GetFloat64("extraction.address_span"),
		Location:            v.GetFloat64("extraction.location"),
		MinConfidence:       minConf,
	}

	cfg.Pipeline = PipelineConfig{
		BatchDelay: v.GetDuration("pipeline.batch_delay"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		BatchSize:        v.GetInt("queue.batch_size"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	cfg.Webhook = WebhookConfig{
		Secret: v.GetString("webhook.secret"),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) BackendProviderConfig {
	return BackendProviderConfig{
		Provider:    v.GetString(prefix + ".provider"),
		APIKey:      v.GetString(prefix + ".api_key"),
		Model:       v.GetString(prefix + ".model"),
		BaseURL:     v.GetString(prefix + ".base_url"),
		TimeoutSecs: v.GetInt(prefix + ".timeout_secs"),
	}
}

// applyProviderKeyFallbacks fills missing credentials from the conventional
// provider environment variables.
func applyProviderKeyFallbacks(b *BackendConfig) {
	for _, p := range []*BackendProviderConfig{&b.Primary, &b.Secondary, &b.Tertiary} {
		switch p.Provider {
		case "groq":
			if p.APIKey == "" {
				p.APIKey = os.Getenv("GROQ_API_KEY")
			}
		case "gemini":
			if p.APIKey == "" {
				p.APIKey = os.Getenv("GEMINI_API_KEY")
			}
		case "openai":
			if p.APIKey == "" {
				p.APIKey = os.Getenv("OPENAI_API_KEY")
			}
		case "claude":
			if p.APIKey == "" {
				p.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			}
		case "ollama", "openai_compat":
			if p.BaseURL == "" {
				p.BaseURL = os.Getenv("OLLAMA_URL")
			}
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
