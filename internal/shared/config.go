package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	HotelsAPIURL string
	HotelsAPIRPS int

	FirebaseProjectID string
	FirebaseCredsFile string

	SendGridKey       string
	MailFrom          string
	MailFromName      string
	VerifyTemplateID  string
	BookingTemplateID string

	RazorpayKeyID   string
	RazorpaySecret  string
	RazorpayBaseURL string

	JWTSecret  string
	SessionTTL time.Duration

	WizardTTL           time.Duration
	WizardCloseDelay    time.Duration
	WizardBlockingSteps []string
	RefreshCron         string
	ImportWorkers       int
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/valley?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		HotelsAPIURL: env("HOTELS_API_URL", "http://localhost:5000/api"),
		HotelsAPIRPS: atoi("HOTELS_API_RPS", 5),

		FirebaseProjectID: env("FIREBASE_PROJECT_ID", ""),
		FirebaseCredsFile: env("FIREBASE_CREDENTIALS_FILE", ""),

		SendGridKey:       env("SENDGRID_API_KEY", ""),
		MailFrom:          env("MAIL_FROM", "bookings@valley.travel"),
		MailFromName:      env("MAIL_FROM_NAME", "Valley Travel"),
		VerifyTemplateID:  env("SENDGRID_VERIFY_TEMPLATE_ID", ""),
		BookingTemplateID: env("SENDGRID_BOOKING_TEMPLATE_ID", ""),

		RazorpayKeyID:   env("RAZORPAY_KEY_ID", ""),
		RazorpaySecret:  env("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL: env("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		JWTSecret:  env("JWT_SECRET", ""),
		SessionTTL: time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,

		WizardTTL:           time.Duration(atoi("WIZARD_TTL_SECONDS", 3600)) * time.Second,
		WizardCloseDelay:    time.Duration(atoi("WIZARD_CLOSE_DELAY_MS", 3000)) * time.Millisecond,
		WizardBlockingSteps: list("WIZARD_BLOCKING_STEPS"),
		RefreshCron:         env("DIRECTORY_REFRESH_CRON", "@every 5m"),
		ImportWorkers:       atoi("IMPORT_WORKERS", 4),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	if c.RazorpayKeyID == "" || c.RazorpaySecret == "" {
		log.Warn().Msg("RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET is empty")
	}
	if c.SendGridKey == "" {
		log.Warn().Msg("SENDGRID_API_KEY is empty, emails are only logged")
	}
	if c.FirebaseProjectID == "" {
		log.Warn().Msg("FIREBASE_PROJECT_ID is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated variable, dropping blanks.
func list(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
