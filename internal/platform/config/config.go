package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the immutable process configuration. It is built once in main
// and handed to components by value; business logic never reads the
// environment directly.
type Config struct {
	Addr      string
	Upstream  Upstream
	FormData  Domain
	AdmitCard AdmitCard
	Redis     Redis
}

// Upstream holds the knobs shared by every upstream call.
type Upstream struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	UserAgent     string
}

// Domain configures one upstream data domain.
type Domain struct {
	BaseURL     string
	Hash        string
	CacheTTL    time.Duration
	CachePrefix string
}

// AdmitCard extends Domain with the POST endpoint of the roll-number variant.
type AdmitCard struct {
	Domain
	Endpoint string
}

// Redis configures the cache store connection. An empty URL means the
// process runs with the in-memory cache instead.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr: envString("PORTAL_ADDR", ":8080"),
		Upstream: Upstream{
			Timeout:       envDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			RetryAttempts: envInt("UPSTREAM_RETRY_ATTEMPTS", 3),
			RetryDelay:    envDuration("UPSTREAM_RETRY_DELAY", 1*time.Second),
			UserAgent:     envString("UPSTREAM_USER_AGENT", "exam-portal/1.0"),
		},
		FormData: Domain{
			BaseURL:     envString("FORMDATA_BASE_URL", ""),
			Hash:        envString("FORMDATA_HASH", ""),
			CacheTTL:    envDuration("FORMDATA_CACHE_TTL", 24*time.Hour),
			CachePrefix: envString("FORMDATA_CACHE_PREFIX", "formdata"),
		},
		AdmitCard: AdmitCard{
			Domain: Domain{
				BaseURL: envString("ADMITCARD_BASE_URL", ""),
				Hash:    envString("ADMITCARD_HASH", ""),
				// Admit-card data changes often near exam dates, keep it short.
				CacheTTL:    envDuration("ADMITCARD_CACHE_TTL", 1*time.Hour),
				CachePrefix: envString("ADMITCARD_CACHE_PREFIX", "admitcard"),
			},
			Endpoint: envString("ADMITCARD_ENDPOINT", "admit-card"),
		},
		Redis: Redis{
			URL:          envString("REDIS_URL", ""),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
