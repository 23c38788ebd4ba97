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
	Port string

	DbDriver  string // postgres|mongo
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	SessionTokenTTL  time.Duration
	ResetTokenTTL    time.Duration
	OTPTTL           time.Duration
	ResetWindow      time.Duration
	ResetMaxAttempts int
	OTPPepper        string

	AuthRateLimit  int
	AuthRateWindow time.Duration

	Log      string
	LogLevel string
	Env      string // dev|prod

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AppName      string
	EmailWorkers int
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, logger зависит от конфига, а не наоборот.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	var errs []string
	dur := func(key, d string) time.Duration {
		v, err := time.ParseDuration(def(os.Getenv(key), d))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			v, _ = time.ParseDuration(d)
		}
		return v
	}
	num := func(key string, d int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return d
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return d
		}
		return v
	}

	cfg := &Config{
		Port: def(os.Getenv("PORT"), "5000"),

		DbDriver:  strings.ToLower(def(os.Getenv("DB_DRIVER"), "postgres")),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  def(os.Getenv("MONGO_DB"), "churchdir"),

		RedisAddr:     def(os.Getenv("REDIS_ADDR"), "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       num("REDIS_DB", 0),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionTokenTTL:  dur("SESSION_TOKEN_EXPIRY", "720h"),
		ResetTokenTTL:    dur("RESET_TOKEN_EXPIRY", "15m"),
		OTPTTL:           dur("OTP_TTL", "10m"),
		ResetWindow:      dur("RESET_WINDOW", "15m"),
		ResetMaxAttempts: num("RESET_MAX_ATTEMPTS", 3),
		OTPPepper:        os.Getenv("OTP_PEPPER"),

		AuthRateLimit:  num("AUTH_RATE_LIMIT", 30),
		AuthRateWindow: dur("AUTH_RATE_WINDOW", "15m"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     num("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		AppName:      def(os.Getenv("APP_NAME"), "Bethel AG Dubai"),
		EmailWorkers: num("EMAIL_WORKERS", 3),
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	if cfg.OTPPepper == "" {
		cfg.OTPPepper = cfg.JWTSecret
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	switch c.DbDriver {
	case "postgres":
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case "mongo":
		if c.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when DB_DRIVER=mongo")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DbDriver)
	}

	// без секрета нельзя ни подписать, ни проверить токен
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	if c.OTPPepper == c.JWTSecret {
		warnings = append(warnings, "OTP_PEPPER is not set, falling back to JWT_SECRET")
	}

	if c.ResetMaxAttempts < 1 {
		return nil, fmt.Errorf("RESET_MAX_ATTEMPTS must be positive")
	}
	if c.OTPTTL <= 0 || c.ResetTokenTTL <= 0 || c.ResetWindow <= 0 || c.SessionTokenTTL <= 0 {
		return nil, fmt.Errorf("token and window durations must be positive")
	}

	if c.AuthRateLimit < 1 || c.AuthRateWindow <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT and AUTH_RATE_WINDOW must be positive")
	}

	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured")
	}
	if c.EmailWorkers < 1 {
		warnings = append(warnings, "EMAIL_WORKERS < 1, using 1")
		c.EmailWorkers = 1
	}

	return warnings, nil
}

// GetDSN: полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe: DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}
