package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings are used for identifiers and
// secrets, ints and durations for limits and windows.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	DBMaxOpen     int           // max open connections in the pool
	DBMaxIdle     int           // max idle connections kept in the pool
	DBMaxLifetime time.Duration // max lifetime of a pooled connection
	JWTSecret     string        // secret used to sign access tokens
	TokenTTL      time.Duration // access token validity window
	BcryptCost    int           // bcrypt cost for password hashing
	AdminEmail    string        // seeded admin account email
	AdminPassword string        // seeded admin account password
	LogicMateURL  string        // base URL of the LogicMate ERP
	LogicMateKey  string        // API key sent to LogicMate
	SuntecURL     string        // base URL of the Suntec factory-floor system
	SuntecKey     string        // API key sent to Suntec
	ERPTimeout    time.Duration // per-call timeout for outbound ERP requests
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must(); missing
// values cause the program to exit with a fatal log message. ERP
// endpoints default to local stubs so the service starts without the
// external systems configured.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		DBMaxOpen:     envInt("DB_POOL_MAX_OPEN", 25),
		DBMaxIdle:     envInt("DB_POOL_MAX_IDLE", 25),
		DBMaxLifetime: envDur("DB_POOL_MAX_LIFETIME", 30*time.Minute),
		JWTSecret:     must("JWT_SECRET"),
		TokenTTL:      time.Duration(envInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:    mustInt("BCRYPT_COST"),
		AdminEmail:    envStr("ADMIN_EMAIL", "admin@zenith.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"), // empty disables seeding
		LogicMateURL:  envStr("ERP_LOGICMATE_URL", "http://localhost:9101"),
		LogicMateKey:  os.Getenv("ERP_LOGICMATE_API_KEY"),
		SuntecURL:     envStr("ERP_SUNTEC_URL", "http://localhost:9102"),
		SuntecKey:     os.Getenv("ERP_SUNTEC_API_KEY"),
		ERPTimeout:    envDur("ERP_TIMEOUT", 10*time.Second),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}
