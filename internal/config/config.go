package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	Project               string // Google Cloud project id
	AuthMethod            string // compute_engine or service_account
	ServiceAccountKeyFile string // JSON key file for service_account auth
	TTL                   int    // TTL of published challenge records
	SubmitIntervalSec     int    // delay between change status polls
	SubmitTimeoutSec      int    // deadline for a change to become done
	VerifyIntervalSec     int    // delay between propagation queries
	VerifyTimeoutSec      int    // deadline for all nameservers to confirm
	QueryTimeoutSec       int    // timeout of a single DNS query
	LogLevel              string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Project:               getEnv("GCDNS_PROJECT", ""),
		AuthMethod:            getEnv("GCDNS_AUTH_METHOD", ""),
		ServiceAccountKeyFile: getEnv("GCDNS_SERVICE_ACCOUNT_KEY_FILE", ""),
		TTL:                   getEnvInt("GCDNS_TTL", 5),
		SubmitIntervalSec:     getEnvInt("GCDNS_SUBMIT_INTERVAL_SEC", 5),
		SubmitTimeoutSec:      getEnvInt("GCDNS_SUBMIT_TIMEOUT_SEC", 300),
		VerifyIntervalSec:     getEnvInt("GCDNS_VERIFY_INTERVAL_SEC", 5),
		VerifyTimeoutSec:      getEnvInt("GCDNS_VERIFY_TIMEOUT_SEC", 600),
		QueryTimeoutSec:       getEnvInt("GCDNS_QUERY_TIMEOUT_SEC", 5),
		LogLevel:              getEnv("GCDNS_LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromINI loads configuration from an INI file with environment variable
// override (priority: ENV > INI > default)
func LoadFromINI(iniPath string) (*Config, error) {
	_ = godotenv.Load()

	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := getValue(envKey, iniSection, iniKey, ""); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		return defaultValue
	}

	cfg := &Config{
		Project:               getValue("GCDNS_PROJECT", "google_cloud_dns", "project", ""),
		AuthMethod:            getValue("GCDNS_AUTH_METHOD", "auth", "method", ""),
		ServiceAccountKeyFile: getValue("GCDNS_SERVICE_ACCOUNT_KEY_FILE", "auth", "service_account_key_file", ""),
		TTL:                   getValueInt("GCDNS_TTL", "google_cloud_dns", "ttl", 5),
		SubmitIntervalSec:     getValueInt("GCDNS_SUBMIT_INTERVAL_SEC", "responder", "submit_interval_sec", 5),
		SubmitTimeoutSec:      getValueInt("GCDNS_SUBMIT_TIMEOUT_SEC", "responder", "submit_timeout_sec", 300),
		VerifyIntervalSec:     getValueInt("GCDNS_VERIFY_INTERVAL_SEC", "responder", "verify_interval_sec", 5),
		VerifyTimeoutSec:      getValueInt("GCDNS_VERIFY_TIMEOUT_SEC", "responder", "verify_timeout_sec", 600),
		QueryTimeoutSec:       getValueInt("GCDNS_QUERY_TIMEOUT_SEC", "responder", "query_timeout_sec", 5),
		LogLevel:              getValue("GCDNS_LOG_LEVEL", "log", "level", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Project == "" {
		return fmt.Errorf("GCDNS_PROJECT is required")
	}

	switch c.AuthMethod {
	case "compute_engine":
		// Nothing else needed; credentials come from the environment.
	case "service_account":
		if c.ServiceAccountKeyFile == "" {
			return fmt.Errorf("GCDNS_SERVICE_ACCOUNT_KEY_FILE is required for service_account auth")
		}
	case "":
		// Infer service_account when only a key file was given.
		if c.ServiceAccountKeyFile == "" {
			return fmt.Errorf("GCDNS_AUTH_METHOD is required (compute_engine or service_account)")
		}
		c.AuthMethod = "service_account"
	default:
		return fmt.Errorf("unknown GCDNS_AUTH_METHOD %q (want compute_engine or service_account)", c.AuthMethod)
	}

	if c.TTL <= 0 {
		return fmt.Errorf("GCDNS_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
