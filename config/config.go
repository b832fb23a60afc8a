package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// CORS: the one origin allowed to call the contact endpoint
	AllowedOrigin string
	// Public site URL linked from notification emails
	SiteURL string
	// Mail delivery
	MailProvider     string // resend | smtp | sendgrid
	SenderAddress    string // "Name <addr>" shown as From
	RecipientAddress string // studio inbox receiving submissions
	ProviderTimeout  time.Duration
	ResendAPIKey     string
	ResendBaseURL    string
	SendGridAPIKey   string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPTLSPolicy string // mandatory | opportunistic | none
	// Contact form limits
	MaxNameLength    int
	MaxEmailLength   int
	MaxPhoneLength   int
	MaxMessageLength int
	MaxBodyBytes     int64
	// Honeypot answers are delayed by a random duration in [min, max]
	HoneypotDelayMin time.Duration
	HoneypotDelayMax time.Duration
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds int
	RateLimitContactPerIP  int
	RateLimitFailClosed    bool
	// Proxies whose X-Forwarded-For is believed; empty trusts none
	TrustedProxies []string
	// Submission archive (each backend disabled when empty)
	DBUrl           string
	ArchiveS3Bucket string
	ArchiveS3Prefix string
	// S3-compatible storage credentials for the archive bucket
	S3Provider        string // aws | wasabi | custom
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; production injects real environment variables
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: strings.TrimRight(getEnv("ALLOWED_ORIGIN", "https://www.asperrostudio.cz"), "/"),
		SiteURL:       strings.TrimRight(getEnv("SITE_URL", "https://www.asperrostudio.cz"), "/"),
		// Mail delivery
		MailProvider:     strings.ToLower(getEnv("MAIL_PROVIDER", "resend")),
		SenderAddress:    getEnv("MAIL_FROM", "AsperroStudio <noreply@asperrostudio.cz>"),
		RecipientAddress: getEnv("MAIL_TO", "mpenkava1337@gmail.com"),
		ProviderTimeout:  getEnvDuration("MAIL_PROVIDER_TIMEOUT", 10*time.Second),
		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		ResendBaseURL:    getEnv("RESEND_BASE_URL", ""),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPTLSPolicy: getEnv("SMTP_TLS_POLICY", "mandatory"),
		// Contact form limits
		MaxNameLength:    getEnvInt("CONTACT_MAX_NAME_LENGTH", 100),
		MaxEmailLength:   getEnvInt("CONTACT_MAX_EMAIL_LENGTH", 254),
		MaxPhoneLength:   getEnvInt("CONTACT_MAX_PHONE_LENGTH", 20),
		MaxMessageLength: getEnvInt("CONTACT_MAX_MESSAGE_LENGTH", 5000),
		MaxBodyBytes:     int64(getEnvInt("CONTACT_MAX_BODY_BYTES", 64<<10)),
		HoneypotDelayMin: getEnvDuration("HONEYPOT_DELAY_MIN", 250*time.Millisecond),
		HoneypotDelayMax: getEnvDuration("HONEYPOT_DELAY_MAX", 750*time.Millisecond),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 600), // 10 minute window
		RateLimitContactPerIP:  getEnvInt("RATE_LIMIT_CONTACT_PER_IP", 5),   // 5 submissions per window
		RateLimitFailClosed:    getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
		TrustedProxies:         getEnvList("TRUSTED_PROXIES"),
		DBUrl:                  getEnv("DATABASE_URL", ""),
		ArchiveS3Bucket:        getEnv("ARCHIVE_S3_BUCKET", ""),
		ArchiveS3Prefix:        getEnv("ARCHIVE_S3_PREFIX", "contact-submissions"),
		S3Provider:             getEnv("S3_PROVIDER", "aws"),
		S3Region:               getEnv("S3_REGION", "eu-central-1"),
		S3Endpoint:             getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:          getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
	}

	if cfg.HoneypotDelayMax < cfg.HoneypotDelayMin {
		cfg.HoneypotDelayMax = cfg.HoneypotDelayMin
	}

	switch cfg.MailProvider {
	case "resend":
		if cfg.ResendAPIKey == "" {
			log.Println("WARNING: RESEND_API_KEY is missing. Contact submissions will fail to send.")
		}
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			log.Println("WARNING: SENDGRID_API_KEY is missing. Contact submissions will fail to send.")
		}
	case "smtp":
		if cfg.SMTPHost == "" {
			log.Println("WARNING: SMTP_HOST is missing. Contact submissions will fail to send.")
		}
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// ClientConfig configures the terminal contact form client.
type ClientConfig struct {
	Endpoint       string
	SuccessDisplay time.Duration
	RequestTimeout time.Duration
}

func LoadClientConfig() *ClientConfig {
	_ = godotenv.Load()

	return &ClientConfig{
		Endpoint:       getEnv("CONTACT_ENDPOINT", "https://www.asperrostudio.cz/api/contact"),
		SuccessDisplay: getEnvDuration("CONTACT_SUCCESS_DISPLAY", 5*time.Second),
		RequestTimeout: getEnvDuration("CONTACT_REQUEST_TIMEOUT", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDuration accepts Go duration strings ("10s", "250ms")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}
