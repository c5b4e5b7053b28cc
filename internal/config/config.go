package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	//App
	Env           string // dev / staging / prod
	PublicBaseURL string // used to build verification links and local avatar URLs

	//HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	//Auth / Security
	JWTSecret                string
	AccessTokenTTL           time.Duration
	BcryptCost               int
	RequireEmailVerification bool

	// Infrastructure
	DBAddr        string
	DBDebug       bool
	DBAutoMigrate bool

	// Optional: empty disables the redis limiter / rabbit events.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURL      string
	RabbitExchange string

	// Outbound mail. Without an API key mail is only logged.
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string
	MailTimeout    time.Duration

	// Avatars
	AvatarDir      string
	AvatarTmpDir   string
	AvatarMaxBytes int64
	AvatarBaseURL  string

	// S3 / MinIO / R2 avatar storage, used when S3Bucket is set.
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
	S3PublicBaseURL   string

	// Rate limits (per identity, fixed window)
	RateLimitEnabled bool
	RLSignupLimit    int
	RLLoginLimit     int
	RLVerifyLimit    int
	RLWindow         time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "contacts.events"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@contacts.local"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Contacts"),
		AvatarDir:      getEnv("AVATAR_DIR", "public/avatars"),
		AvatarTmpDir:   getEnv("AVATAR_TMP_DIR", os.TempDir()),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
	}

	// PORT is the conventional single-value override used by most PaaS hosts.
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + strings.TrimPrefix(port, ":")
	}

	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost"+cfg.HTTPAddr), "/")
	cfg.AvatarBaseURL = strings.TrimRight(getEnv("AVATAR_BASE_URL", cfg.PublicBaseURL+"/avatars"), "/")

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	if !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
		return nil, fmt.Errorf("DB_ADDR must be a postgres:// URL")
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.MailTimeout, err = getDuration("MAIL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RLWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RLSignupLimit, err = getInt("RATE_LIMIT_SIGNUP", 5); err != nil {
		return nil, err
	}
	if cfg.RLLoginLimit, err = getInt("RATE_LIMIT_LOGIN", 10); err != nil {
		return nil, err
	}
	if cfg.RLVerifyLimit, err = getInt("RATE_LIMIT_VERIFY", 3); err != nil {
		return nil, err
	}

	maxBytes, err := getInt("AVATAR_MAX_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	cfg.AvatarMaxBytes = int64(maxBytes)

	if cfg.RequireEmailVerification, err = getBool("REQUIRE_EMAIL_VERIFICATION", true); err != nil {
		return nil, err
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate, err = getBool("DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.RateLimitEnabled, err = getBool("RATE_LIMIT_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.S3UsePathStyle, err = getBool("S3_USE_PATH_STYLE", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}
