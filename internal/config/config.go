package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	// CompanyName heads generated documents.
	CompanyName string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RateLimit RateLimitConfig
	Redis     RedisConfig
	Insert    InsertConfig
	Cache     CacheConfig
	Transport TransportConfig

	AssistantURL string
	ExtractorURL string
	GeocoderURL  string
	RouterURL    string
	// HTTPClientTimeout bounds every outbound delegate call.
	HTTPClientTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type RateLimitConfig struct {
	Enabled bool
	// Requests allowed per Window per client key.
	Limit  int
	Window time.Duration
	// Redis token bucket parameters, used when Redis is configured.
	Rate  float64
	Burst int
}

// InsertConfig tunes the advisory lock held around duplicate check and insert.
type InsertConfig struct {
	LockTTL     time.Duration
	LockWait    time.Duration
	RetryPeriod time.Duration
}

type CacheConfig struct {
	CatalogTTL     time.Duration
	GeocodeTTL     time.Duration
	JanitorSpec    string
	JanitorJobs    []string
	DedupeFilePath string
}

// TransportConfig prices a haul: base + km * rate * trips.
type TransportConfig struct {
	BaseCharge float64
	Vehicles   map[string]Vehicle
}

type Vehicle struct {
	RatePerKm float64
	Capacity  float64
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "ynmops"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		CompanyName:  getenv("COMPANY_NAME", "YNM Safety"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "ynmops"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "ynmops.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:       getenvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled: getenvBool("RATE_LIMIT_ENABLED", true),
			Limit:   getenvInt("RATE_LIMIT_REQUESTS", 20),
			Window:  getenvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Rate:    getenvFloat("RATE_LIMIT_RATE", 0.5),
			Burst:   getenvInt("RATE_LIMIT_BURST", 10),
		},
		Insert: InsertConfig{
			LockTTL:     getenvDuration("INSERT_LOCK_TTL", 10*time.Second),
			LockWait:    getenvDuration("INSERT_LOCK_WAIT", 5*time.Second),
			RetryPeriod: getenvDuration("INSERT_LOCK_RETRY", 50*time.Millisecond),
		},
		Cache: CacheConfig{
			CatalogTTL:     getenvDuration("CATALOG_CACHE_TTL", time.Minute),
			GeocodeTTL:     getenvDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
			JanitorSpec:    getenv("CACHE_JANITOR_SPEC", "@every 1m"),
			JanitorJobs:    getenvList("CACHE_JANITOR_JOBS"),
			DedupeFilePath: strings.TrimSpace(getenv("DEDUPE_CONFIG_PATH", "")),
		},
		Transport: TransportConfig{
			BaseCharge: getenvFloat("TRANSPORT_BASE_CHARGE", 500),
			Vehicles: map[string]Vehicle{
				"pickup": {
					RatePerKm: getenvFloat("TRANSPORT_PICKUP_RATE", 18),
					Capacity:  getenvFloat("TRANSPORT_PICKUP_CAPACITY", 50),
				},
				"truck": {
					RatePerKm: getenvFloat("TRANSPORT_TRUCK_RATE", 35),
					Capacity:  getenvFloat("TRANSPORT_TRUCK_CAPACITY", 400),
				},
				"trailer": {
					RatePerKm: getenvFloat("TRANSPORT_TRAILER_RATE", 60),
					Capacity:  getenvFloat("TRANSPORT_TRAILER_CAPACITY", 1200),
				},
			},
		},

		AssistantURL:      strings.TrimSpace(getenv("ASSISTANT_URL", "")),
		ExtractorURL:      strings.TrimSpace(getenv("EXTRACTOR_URL", "")),
		GeocoderURL:       strings.TrimSpace(getenv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search")),
		RouterURL:         strings.TrimSpace(getenv("ROUTER_URL", "")),
		HTTPClientTimeout: getenvDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
