package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration shared by the marketplace and
// ticketing binaries.  Each field corresponds to an environment variable.
// Mail settings are optional; when they are absent the mailer degrades to
// a logged no-op and email-dependent endpoints report the condition.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign marketplace access tokens
	TokenTTL   int    // access token time-to-live in minutes
	BcryptCost int    // bcrypt cost for password hashing
	UploadDir  string // directory where uploaded images are stored
	AdminEmail string // recipient for contact-form submissions (optional)
	SMTPHost   string // SMTP relay host (optional; empty disables email)
	SMTPPort   int    // SMTP relay port
	SMTPUser   string // SMTP username
	SMTPPass   string // SMTP password
	SMTPFrom   string // From address on outgoing mail
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		TokenTTL:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost: mustInt("BCRYPT_COST"),
		UploadDir:  getenv("UPLOAD_DIR", "uploads"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   atoi(getenv("SMTP_PORT", "587")),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		SMTPFrom:   os.Getenv("SMTP_FROM"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
