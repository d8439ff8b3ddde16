package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir  string `json:"log_dir"`
	TempDir string `json:"temp_dir"`

	// Base URL used to build share links
	WebBaseURL string `json:"web_base_url"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Rate Limiting
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	// Transcript acquisition
	Transcript TranscriptConfig `json:"transcript"`

	// Generation backend
	LLM LLMConfig `json:"llm"`

	// Application version
	Version string `json:"version"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	PerDay            int  `json:"per_day"`
}

// TranscriptConfig controls the transcript acquisition pipeline: external
// tool paths and overrides, per-stage timeouts, and the video length policy.
type TranscriptConfig struct {
	YTDLPPath       string        `json:"ytdlp_path"`
	WhisperPath     string        `json:"whisper_path"`
	WhisperModel    string        `json:"whisper_model"`
	WhisperLanguage string        `json:"whisper_language"`
	MaxDuration     time.Duration `json:"max_duration"`
	MetadataTimeout time.Duration `json:"metadata_timeout"`
	CaptionTimeout  time.Duration `json:"caption_timeout"`
	DownloadTimeout time.Duration `json:"download_timeout"`
	WhisperTimeout  time.Duration `json:"whisper_timeout"`
	Cookies         string        `json:"-"`
	Proxy           string        `json:"-"`
	DisableAudio    bool          `json:"disable_audio"`
}

type LLMConfig struct {
	APIKey            string        `json:"-"`
	Endpoint          string        `json:"endpoint"`
	MaxRetries        int           `json:"max_retries"`
	RetryBackoff      time.Duration `json:"retry_backoff"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	RequestsPerMinute int           `json:"requests_per_minute"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Server settings
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		// Application paths
		LogDir:  getEnv("LOG_DIR", "/var/log/threadbrief"),
		TempDir: getEnv("TEMP_DIR", "/tmp/threadbrief"),

		WebBaseURL: getEnv("WEB_BASE_URL", "http://localhost:3000"),

		// Application version
		Version: getEnv("VERSION", "1.0.0"),

		// Request and shutdown timeouts
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// CORS Configuration
		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders:   getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		// Rate Limiting
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			PerDay:            getEnvAsInt("RATE_LIMIT_PER_DAY", 2),
		},

		// Database
		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "/var/lib/threadbrief/data.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		// Transcript acquisition
		Transcript: TranscriptConfig{
			YTDLPPath:       getEnv("YTDLP_PATH", "yt-dlp"),
			WhisperPath:     getEnv("WHISPER_PATH", "whisper"),
			WhisperModel:    getEnv("WHISPER_MODEL", "base"),
			WhisperLanguage: getEnv("WHISPER_LANGUAGE", "en"),
			MaxDuration:     getEnvAsDuration("MAX_VIDEO_DURATION", 10*time.Minute),
			MetadataTimeout: getEnvAsDuration("YTDLP_META_TIMEOUT", 60*time.Second),
			CaptionTimeout:  getEnvAsDuration("CAPTION_TIMEOUT", 30*time.Second),
			DownloadTimeout: getEnvAsDuration("YTDLP_TIMEOUT", 900*time.Second),
			WhisperTimeout:  getEnvAsDuration("WHISPER_TIMEOUT", 900*time.Second),
			Cookies:         getEnv("YTDLP_COOKIES", ""),
			Proxy:           getEnv("YTDLP_PROXY", ""),
			DisableAudio:    getEnvAsBool("DISABLE_AUDIO_FALLBACK", false),
		},

		// Generation
		LLM: LLMConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			Endpoint:          getEnv("GEMINI_ENDPOINT", ""),
			MaxRetries:        getEnvAsInt("GEMINI_MAX_RETRIES", 3),
			RetryBackoff:      getEnvAsDuration("GEMINI_RETRY_BACKOFF", time.Second),
			RequestTimeout:    getEnvAsDuration("GEMINI_REQUEST_TIMEOUT", 15*time.Minute),
			RequestsPerMinute: getEnvAsInt("GEMINI_RPM", 30),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}

	if err := validateTimeouts(c); err != nil {
		return err
	}

	if err := validateLimits(c); err != nil {
		return err
	}

	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{c.TempDir, "temp directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.Transcript.MetadataTimeout <= 0 ||
		c.Transcript.CaptionTimeout <= 0 ||
		c.Transcript.DownloadTimeout <= 0 ||
		c.Transcript.WhisperTimeout <= 0 {
		return fmt.Errorf("transcript timeouts must be positive")
	}
	return nil
}

func validateLimits(c *Config) error {
	if c.Transcript.MaxDuration <= 0 {
		return fmt.Errorf("max video duration must be positive")
	}
	if c.RateLimit.PerDay <= 0 {
		return fmt.Errorf("daily rate limit must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
