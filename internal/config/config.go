package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend drivers selectable through BACKEND_DRIVER.
const (
	DriverFirestore = "firestore"
	DriverMySQL     = "mysql"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort          string
	Env                 string
	LogLevel            string
	LogFormat           string
	AllowedOrigins      []string
	JWTSecret           string
	AccessTokenTTL      time.Duration
	BcryptCost          int
	RedisAddr           string
	RedisDB             int
	RedisPass           string
	AdminEmail          string
	AdminPassword       string
	LoginRateLimit      float64
	ShutdownGracePeriod time.Duration
	SwaggerHost         string
	Backend             BackendConfig
}

// BackendConfig carries everything needed to decide between the live and mock stores.
type BackendConfig struct {
	Driver       string
	ForceMock    bool
	MySQLDSN     string
	ProbeTimeout time.Duration
	Firebase     FirebaseConfig
}

// FirebaseConfig mirrors a Google service-account credential file.
type FirebaseConfig struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv builds Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		Env:                 getEnv("ENV", "dev"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "*")),
		JWTSecret:           getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL:      getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		BcryptCost:          getEnvInt("BCRYPT_COST", 10),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@realestate.com"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "admin123"),
		LoginRateLimit:      getEnvFloat("LOGIN_RATE_LIMIT", 10),
		ShutdownGracePeriod: getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		SwaggerHost:         os.Getenv("SWAGGER_HOST"),
		Backend: BackendConfig{
			Driver:       strings.ToLower(getEnv("BACKEND_DRIVER", DriverFirestore)),
			ForceMock:    getEnvBool("USE_MOCK_BACKEND", false) || getEnvBool("USE_MOCK_FIREBASE", false),
			MySQLDSN:     os.Getenv("MYSQL_DSN"),
			ProbeTimeout: getEnvDuration("BACKEND_PROBE_TIMEOUT", 5*time.Second),
			Firebase: FirebaseConfig{
				Type:                    os.Getenv("FIREBASE_TYPE"),
				ProjectID:               os.Getenv("FIREBASE_PROJECT_ID"),
				PrivateKeyID:            os.Getenv("FIREBASE_PRIVATE_KEY_ID"),
				PrivateKey:              strings.ReplaceAll(os.Getenv("FIREBASE_PRIVATE_KEY"), `\n`, "\n"),
				ClientEmail:             os.Getenv("FIREBASE_CLIENT_EMAIL"),
				ClientID:                os.Getenv("FIREBASE_CLIENT_ID"),
				AuthURI:                 os.Getenv("FIREBASE_AUTH_URI"),
				TokenURI:                os.Getenv("FIREBASE_TOKEN_URI"),
				AuthProviderX509CertURL: os.Getenv("FIREBASE_AUTH_PROVIDER_X509_CERT_URL"),
				ClientX509CertURL:       os.Getenv("FIREBASE_CLIENT_X509_CERT_URL"),
			},
		},
	}
}

// envValue pairs a required environment variable with its loaded value.
type envValue struct {
	name  string
	value string
}

// required lists the variables the selected driver needs, in a fixed order,
// together with their loaded values. It returns nil for an unknown driver.
func (b BackendConfig) required() []envValue {
	switch b.Driver {
	case DriverFirestore:
		f := b.Firebase
		return []envValue{
			{"FIREBASE_TYPE", f.Type},
			{"FIREBASE_PROJECT_ID", f.ProjectID},
			{"FIREBASE_PRIVATE_KEY_ID", f.PrivateKeyID},
			{"FIREBASE_PRIVATE_KEY", f.PrivateKey},
			{"FIREBASE_CLIENT_EMAIL", f.ClientEmail},
			{"FIREBASE_CLIENT_ID", f.ClientID},
			{"FIREBASE_AUTH_URI", f.AuthURI},
			{"FIREBASE_TOKEN_URI", f.TokenURI},
			{"FIREBASE_AUTH_PROVIDER_X509_CERT_URL", f.AuthProviderX509CertURL},
			{"FIREBASE_CLIENT_X509_CERT_URL", f.ClientX509CertURL},
		}
	case DriverMySQL:
		return []envValue{{"MYSQL_DSN", b.MySQLDSN}}
	default:
		return nil
	}
}

// MissingKeys returns the names of required environment variables that are
// empty for the selected driver. An unknown driver reports BACKEND_DRIVER itself.
func (b BackendConfig) MissingKeys() []string {
	required := b.required()
	if required == nil {
		return []string{"BACKEND_DRIVER"}
	}

	var missing []string
	for _, kv := range required {
		if strings.TrimSpace(kv.value) == "" {
			missing = append(missing, kv.name)
		}
	}
	return missing
}

// RequiredKeys lists the environment variables a driver needs, in a fixed order.
func RequiredKeys(driver string) []string {
	required := BackendConfig{Driver: driver}.required()
	if required == nil {
		return nil
	}
	names := make([]string, len(required))
	for i, kv := range required {
		names[i] = kv.name
	}
	return names
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return def
	}
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
