package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewTaxConfigHolder),
)

// Config holds client configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	// APIBaseURL is the root of the remote CRM API, e.g. https://app.lumicrm.com/api.
	APIBaseURL string
	// OAuthLoginURL is the identity provider page the browser is sent to.
	OAuthLoginURL string

	RequestTimeout time.Duration
	CookieSecure   bool

	PaymentPollInterval time.Duration
	PaymentPollAttempts int

	SearchDebounce  time.Duration
	SearchMinLength int
}

// Load loads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	cookieSecure := environment == "production"
	if !cookieSecure {
		cookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:     getenv("APP_SERVICE", "lumicrm"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,

		APIBaseURL:    strings.TrimRight(getenv("LUMICRM_API_URL", "http://localhost:8080/api"), "/"),
		OAuthLoginURL: getenv("LUMICRM_OAUTH_LOGIN_URL", "https://auth.lumicrm.com/"),

		RequestTimeout: getenvDuration("LUMICRM_REQUEST_TIMEOUT", 12*time.Second),
		CookieSecure:   cookieSecure,

		PaymentPollInterval: getenvDuration("LUMICRM_PAYMENT_POLL_INTERVAL", 2*time.Second),
		PaymentPollAttempts: getenvInt("LUMICRM_PAYMENT_POLL_ATTEMPTS", 5),

		SearchDebounce:  getenvDuration("LUMICRM_SEARCH_DEBOUNCE", 300*time.Millisecond),
		SearchMinLength: getenvInt("LUMICRM_SEARCH_MIN_LENGTH", 2),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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
