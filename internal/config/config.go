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
	DatabaseURL  string
	Port         string
	WriteTimeout time.Duration

	// Auth
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	CookieSecure       bool
	CORSOrigin         string
	LoginRateLimit     int      // attempts per minute per client IP
	TrustedProxies     []string // IPs or CIDRs allowed to set X-Forwarded-For

	// Scoring service
	ScoringURL     string
	ScoringTimeout time.Duration
	ScoreCacheTTL  time.Duration
	RedisURL       string // optional L2 score cache
	RescoreRate    float64

	// Uploads and media
	UploadsDir    string
	StorageDriver string // "local" or "s3"
	MediaDir      string
	PublicBaseURL string
	S3            S3Config

	RabbitMQURL string // optional event publishing
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // R2 / MinIO; empty for AWS
	AccessKey string
	SecretKey string
	PublicURL string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		log.Println("Attempting to load from parent directory...")
		err = godotenv.Load("../../.env")
		if err != nil {
			log.Println("Warning: Could not load .env file, using environment variables")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment without touching .env files.
func FromEnv() *Config {
	port := getEnv("PORT", "8000")

	scoringURL := os.Getenv("SCORING_URL")
	if scoringURL == "" {
		scoringURL = os.Getenv("FASTAPI_URL")
	}

	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Port:         port,
		WriteTimeout: getDuration("WRITE_TIMEOUT", 2*time.Minute),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  getDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		RefreshTokenExpiry: getDuration("REFRESH_TOKEN_EXPIRY", 10*24*time.Hour),
		CookieSecure:       getBool("COOKIE_SECURE", true),
		CORSOrigin:         getEnv("CORS_ORIGIN", "http://localhost:5173"),
		LoginRateLimit:     getInt("LOGIN_RATE_LIMIT", 5),
		TrustedProxies:     getList("TRUSTED_PROXIES"),

		ScoringURL:     strings.TrimRight(scoringURL, "/"),
		ScoringTimeout: getDuration("SCORING_TIMEOUT", 60*time.Second),
		ScoreCacheTTL:  getDuration("SCORE_CACHE_TTL", 30*time.Minute),
		RedisURL:       os.Getenv("REDIS_URL"),
		RescoreRate:    getFloat("RESCORE_RATE", 5),

		UploadsDir:    getEnv("UPLOADS_DIR", "./uploads"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		MediaDir:      getEnv("MEDIA_DIR", "./media"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    getEnv("S3_REGION", "auto"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		},

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	required := []struct{ name, value string }{
		{"DATABASE_URL", c.DatabaseURL},
		{"ACCESS_TOKEN_SECRET", c.AccessTokenSecret},
		{"REFRESH_TOKEN_SECRET", c.RefreshTokenSecret},
		{"SCORING_URL", c.ScoringURL},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("set %s environment variable", r.name)
		}
	}
	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("set S3_BUCKET environment variable for STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected local or s3)", c.StorageDriver)
	}
	return nil
}

// ParseDuration accepts Go duration syntax plus a whole-day suffix ("10d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %g", key, v, def)
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}
