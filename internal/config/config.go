package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	GCPProjectID string
	GCPLocation  string
	GeminiAPIKey string // used instead of Vertex AI when set
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = use mock even on GCP
	RequestTimeout time.Duration

	FreeInterviewsPerDay int // 0 disables the cap

	AMQPURL string // empty = in-memory events

	S3 S3Config

	RazorpayKeyID     string
	RazorpayKeySecret string
}

// S3Config points at an S3-compatible bucket (AWS or Cloudflare R2) for résumé uploads.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

func (c *Config) PaymentsEnabled() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// Load reads a .env file if present, then all env vars, and builds the config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	modeStr := getEnv("CAREERAI_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	freeDaily, err := getIntEnv("CAREERAI_FREE_INTERVIEWS_PER_DAY", 3)
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getEnv("CAREERAI_REQUEST_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("CAREERAI_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Mode: mode,

		Port:     getEnv("CAREERAI_PORT", getEnv("PORT", "8080")),
		LogLevel: getEnv("CAREERAI_LOG_LEVEL", "info"),

		GCPProjectID: getEnv("CAREERAI_GCP_PROJECT", ""),
		GCPLocation:  getEnv("CAREERAI_GCP_LOCATION", "us-central1"),
		GeminiAPIKey: getEnv("GOOGLE_API_KEY", ""),
		ModelName:    getEnv("CAREERAI_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("CAREERAI_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("CAREERAI_USE_MOCK_LLM", mode == ModeLocal),
		RequestTimeout: timeout,

		FreeInterviewsPerDay: freeDaily,

		AMQPURL: getEnv("CAREERAI_AMQP_URL", ""),

		S3: S3Config{
			Endpoint:  getEnv("CAREERAI_S3_ENDPOINT", ""),
			Region:    getEnv("CAREERAI_S3_REGION", "auto"),
			Bucket:    getEnv("CAREERAI_S3_BUCKET", ""),
			AccessKey: getEnv("CAREERAI_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("CAREERAI_S3_SECRET_KEY", ""),
		},

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return errors.New("CAREERAI_GCP_PROJECT must be set in gcp mode")
	}
	if c.StorageBackend == "firestore" && c.GCPProjectID == "" {
		return errors.New("CAREERAI_GCP_PROJECT is required for the firestore storage backend")
	}
	if !c.UseMockLLM && c.GeminiAPIKey == "" && c.GCPProjectID == "" {
		return errors.New("either GOOGLE_API_KEY or CAREERAI_GCP_PROJECT is required for the Gemini client")
	}
	if c.FreeInterviewsPerDay < 0 {
		return errors.New("CAREERAI_FREE_INTERVIEWS_PER_DAY must not be negative")
	}
	return nil
}
