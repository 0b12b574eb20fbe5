package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Sheets    SheetsConfig
	Inventory InventoryConfig
	Ledger    LedgerConfig
	Auth      AuthConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath        string
	InventorySpreadsheetID string
	InventoryRange         string
	LedgerSpreadsheetID    string
	LedgerSheet            string
}

// InventoryConfig controls how the inventory snapshot is cached and ordered.
type InventoryConfig struct {
	CacheTTL      time.Duration
	CacheBackend  string
	RedisURL      string
	MainWarehouse string
	WarmSchedule  string
}

// LedgerConfig holds defaults applied to shipment submissions.
type LedgerConfig struct {
	DefaultManager   string
	DefaultWarehouse string
	Timezone         string
}

// AuthConfig holds the account table and session settings.
type AuthConfig struct {
	Accounts      []AccountConfig
	SessionSecret string
	IdleTimeout   time.Duration
	TokenTTL      time.Duration
	CookieSecure  bool
}

// AccountConfig describes one login. PasswordHash is a bcrypt hash.
type AccountConfig struct {
	Username     string
	Role         string
	PasswordHash string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API. Notifications
// are disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	GroupID       string
}

// Enabled reports whether shipment notifications should be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.GroupID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
}

// MongoDBConfig holds settings for the shipment audit store. Auditing is disabled
// when URI is empty.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	accounts, err := parseAccounts(os.Getenv("AUTH_ACCOUNTS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
			LogLevel:       getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			CredentialsPath:        os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			InventorySpreadsheetID: os.Getenv("INVENTORY_SPREADSHEET_ID"),
			InventoryRange:         getenvWithDefault("INVENTORY_RANGE", "raw_운영부재고"),
			LedgerSpreadsheetID:    os.Getenv("LEDGER_SPREADSHEET_ID"),
			LedgerSheet:            getenvWithDefault("LEDGER_SHEET", "출고증"),
		},
		Inventory: InventoryConfig{
			CacheTTL:      getDurationWithDefault("INVENTORY_CACHE_TTL", time.Minute),
			CacheBackend:  getenvWithDefault("INVENTORY_CACHE_BACKEND", "memory"),
			RedisURL:      os.Getenv("REDIS_URL"),
			MainWarehouse: getenvWithDefault("MAIN_WAREHOUSE", "본점"),
			WarmSchedule:  os.Getenv("INVENTORY_WARM_SCHEDULE"),
		},
		Ledger: LedgerConfig{
			DefaultManager:   getenvWithDefault("LEDGER_DEFAULT_MANAGER", "강경현"),
			DefaultWarehouse: getenvWithDefault("LEDGER_DEFAULT_WAREHOUSE", "SWC"),
			Timezone:         getenvWithDefault("TIMEZONE", "Asia/Seoul"),
		},
		Auth: AuthConfig{
			Accounts:      accounts,
			SessionSecret: os.Getenv("SESSION_SECRET"),
			IdleTimeout:   getDurationWithDefault("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			TokenTTL:      getDurationWithDefault("SESSION_TOKEN_TTL", 12*time.Hour),
			CookieSecure:  getenvWithDefault("SESSION_COOKIE_SECURE", "true") == "true",
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			GroupID:       os.Getenv("WHATSAPP_GROUP_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 18 * * 1-6"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ajet_stock"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Sheets.CredentialsPath == "":
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	case c.Sheets.InventorySpreadsheetID == "":
		return errors.New("INVENTORY_SPREADSHEET_ID must be provided")
	case c.Sheets.LedgerSpreadsheetID == "":
		return errors.New("LEDGER_SPREADSHEET_ID must be provided")
	case c.Sheets.InventoryRange == "":
		return errors.New("INVENTORY_RANGE must not be empty")
	case c.Sheets.LedgerSheet == "":
		return errors.New("LEDGER_SHEET must not be empty")
	}

	if c.Inventory.CacheTTL <= 0 {
		return errors.New("INVENTORY_CACHE_TTL must be positive")
	}

	switch c.Inventory.CacheBackend {
	case "memory":
	case "redis":
		if c.Inventory.RedisURL == "" {
			return errors.New("REDIS_URL must be provided when INVENTORY_CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported INVENTORY_CACHE_BACKEND %q", c.Inventory.CacheBackend)
	}

	if len(c.Auth.Accounts) == 0 {
		return errors.New("AUTH_ACCOUNTS must list at least one account")
	}

	if len(c.Auth.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}

	if c.Auth.IdleTimeout <= 0 || c.Auth.TokenTTL <= 0 {
		return errors.New("session timeouts must be positive")
	}

	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Ledger.Timezone, err)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	return nil
}

// Location returns the ledger timezone. Validate guarantees it loads.
func (c LedgerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// parseAccounts reads "USER:role:hash,USER:role:hash". Bcrypt hashes contain no
// commas, and the hash is taken as everything after the second colon.
func parseAccounts(raw string) ([]AccountConfig, error) {
	var accounts []AccountConfig
	for _, entry := range splitList(raw) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("malformed AUTH_ACCOUNTS entry %q", entry)
		}
		accounts = append(accounts, AccountConfig{
			Username:     strings.ToUpper(strings.TrimSpace(parts[0])),
			Role:         strings.TrimSpace(parts[1]),
			PasswordHash: strings.TrimSpace(parts[2]),
		})
	}
	return accounts, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
