package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	StoreBackend     string
	DatabaseURL      string
	FirestoreProject string

	JWTSecret string
	AdminName string
	AdminPIN  string

	AMQPURL string
	NodeID  int64

	R2Endpoint      string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string

	CORSOrigins []string
}

// Load reads the environment. Outside production a local .env file is
// loaded first if present.
func Load() *Config {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	return &Config{
		AppEnv:    getenv("APP_ENV", "development"),
		Port:      getenv("PORT", "8000"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		StoreBackend:     strings.ToLower(getenv("STORE_BACKEND", BackendMemory)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		FirestoreProject: os.Getenv("FIRESTORE_PROJECT_ID"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		AdminName: getenv("ADMIN_NAME", "Manager"),
		AdminPIN:  os.Getenv("ADMIN_PIN"),

		AMQPURL: os.Getenv("AMQP_URL"),
		NodeID:  getenvInt("NODE_ID", 1),

		R2Endpoint:      os.Getenv("R2_ENDPOINT"),
		R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
		R2Bucket:        os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
}

// Validate reports every missing variable for the selected backend.
func (c *Config) Validate() error {
	var missing []string

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("NODE_ID must be between 0 and 1023, got %d", c.NodeID)
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendFirestore:
		if c.FirestoreProject == "" {
			missing = append(missing, "FIRESTORE_PROJECT_ID")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ArchiveEnabled is true when every R2 variable is set.
func (c *Config) ArchiveEnabled() bool {
	return c.R2Endpoint != "" &&
		c.R2AccessKey != "" &&
		c.R2SecretKey != "" &&
		c.R2Bucket != ""
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return -1
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
