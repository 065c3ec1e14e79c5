package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	AppEnv  string
	LogMode string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	CartCacheTTL  time.Duration

	AuthRateLimit  int
	AuthRateWindow time.Duration

	CORSOrigins     []string
	CatalogSeedFile string

	OTelServiceName string
	OTelEnabled     bool
	OTelEndpoint    string
	OTelInsecure    bool
	OTelSampleRatio float64
}

// LoadEnv loads .env from the working directory. A missing file is not an error;
// deployed environments set variables directly.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if os.Getenv("DATABASE_URL") == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if os.Getenv("REDIS_ADDR") == "" {
		log.Println("WARNING: REDIS_ADDR not set - cart view cache disabled")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}

	return nil
}

// Load reads the typed configuration. Call LoadEnv first so .env values are visible.
func Load() Config {
	return Config{
		Port:            GetEnv("PORT", "8080"),
		AppEnv:          GetEnv("APP_ENV", "dev"),
		LogMode:         GetEnv("LOG_MODE", GetEnv("APP_ENV", "dev")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CartCacheTTL:    GetEnvDuration("CART_CACHE_TTL", 30*time.Second),
		AuthRateLimit:   GetEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:  GetEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		CORSOrigins:     splitOrigins(os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")),
		CatalogSeedFile: os.Getenv("CATALOG_SEED_FILE"),
		OTelServiceName: GetEnv("OTEL_SERVICE_NAME", "storefront-backend"),
		OTelEnabled:     GetEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTelInsecure:    GetEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OTelSampleRatio: GetEnvFloat("OTEL_SAMPLER_RATIO", 0.1),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARNING: %s=%q is not an integer, using %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARNING: %s=%q is not a duration, using %s", key, v, defaultValue)
		return defaultValue
	}
	return d
}

func GetEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return defaultValue
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARNING: %s=%q is not a number, using %g", key, v, defaultValue)
		return defaultValue
	}
	return f
}

// splitOrigins accepts comma separated lists and drops empty entries.
func splitOrigins(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
