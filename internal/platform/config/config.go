package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AdminToken    string
	// ZoneCategoriesPath points at the YAML with zone categories and
	// special lists. Empty uses the bundled defaults.
	ZoneCategoriesPath string

	Provisioning ProvisioningConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	Kafka        KafkaConfig
	Cache        CacheConfig
	Audit        AuditConfig
	RateLimit    RateLimitConfig
}

// ProvisioningConfig selects and configures the remote provisioning backend.
type ProvisioningConfig struct {
	// Backend is a registered builder name: "hiapi" or "cloudflare".
	Backend string
	BaseURL string
	Token   string
	Timeout time.Duration

	CloudflareToken   string
	CloudflareAccount string

	BreakerFailures int
	BreakerCooldown time.Duration
}

// RedisConfig configures the optional cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional projection and audit database.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// KafkaConfig configures the optional audit stream.
type KafkaConfig struct {
	Brokers    []string
	Topic      string
	Partitions int32
}

// CacheConfig holds TTLs for cached remote answers.
type CacheConfig struct {
	CheckTTL time.Duration
	ZonesTTL time.Duration
}

// AuditConfig tunes the asynchronous audit publishers.
type AuditConfig struct {
	// OpsSampleRate is the share of operational events kept, 0 to 1.
	OpsSampleRate         float64
	SecurityBufferSize    int
	SecurityFlushInterval time.Duration
}

// RateLimitConfig sets per-minute request limits per caller. Zero disables
// a class.
type RateLimitConfig struct {
	Disabled          bool
	ReadPerMinute     int
	WritePerMinute    int
	CheckPerMinute    int
	TransferPerMinute int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; override in every deployed environment.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:               getEnv("DOMAINPANEL_ADDR", ":8080"),
		JWTSigningKey:      jwtSigningKey,
		JWTIssuer:          getEnv("JWT_ISSUER", "domainpanel"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "domainpanel-api"),
		AdminToken:         os.Getenv("ADMIN_API_TOKEN"),
		ZoneCategoriesPath: os.Getenv("ZONE_CATEGORIES_PATH"),
		Provisioning: ProvisioningConfig{
			Backend:           getEnv("PROVISIONING_BACKEND", "hiapi"),
			BaseURL:           getEnv("PROVISIONING_URL", "http://localhost:8090/api"),
			Token:             os.Getenv("PROVISIONING_TOKEN"),
			Timeout:           getDuration("PROVISIONING_TIMEOUT", 15*time.Second),
			CloudflareToken:   os.Getenv("CLOUDFLARE_API_TOKEN"),
			CloudflareAccount: os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			BreakerFailures:   getInt("PROVISIONING_BREAKER_FAILURES", 5),
			BreakerCooldown:   getDuration("PROVISIONING_BREAKER_COOLDOWN", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Kafka: KafkaConfig{
			Brokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
			Topic:      getEnv("KAFKA_AUDIT_TOPIC", "domainpanel.audit"),
			Partitions: int32(getInt("KAFKA_AUDIT_PARTITIONS", 3)),
		},
		Cache: CacheConfig{
			CheckTTL: getDuration("CACHE_CHECK_TTL", 5*time.Minute),
			ZonesTTL: getDuration("CACHE_ZONES_TTL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Disabled:          os.Getenv("RATELIMIT_DISABLED") == "true",
			ReadPerMinute:     getInt("RATELIMIT_READ_PER_MINUTE", 300),
			WritePerMinute:    getInt("RATELIMIT_WRITE_PER_MINUTE", 60),
			CheckPerMinute:    getInt("RATELIMIT_CHECK_PER_MINUTE", 120),
			TransferPerMinute: getInt("RATELIMIT_TRANSFER_PER_MINUTE", 10),
		},
		Audit: AuditConfig{
			OpsSampleRate:         getFloat("AUDIT_OPS_SAMPLE_RATE", 1),
			SecurityBufferSize:    getInt("AUDIT_SECURITY_BUFFER", 1024),
			SecurityFlushInterval: getDuration("AUDIT_SECURITY_FLUSH_INTERVAL", time.Second),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
