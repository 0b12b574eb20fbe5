package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/secrets/sa.json")
	t.Setenv("INVENTORY_SPREADSHEET_ID", "inv-id")
	t.Setenv("LEDGER_SPREADSHEET_ID", "ledger-id")
	t.Setenv("AUTH_ACCOUNTS", "az:administrator:$2a$10$abc, azs : sales_operator : $2a$10$def")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "raw_운영부재고", cfg.Sheets.InventoryRange)
	assert.Equal(t, "출고증", cfg.Sheets.LedgerSheet)
	assert.Equal(t, time.Minute, cfg.Inventory.CacheTTL)
	assert.Equal(t, "memory", cfg.Inventory.CacheBackend)
	assert.Equal(t, "본점", cfg.Inventory.MainWarehouse)
	assert.Equal(t, "강경현", cfg.Ledger.DefaultManager)
	assert.Equal(t, "SWC", cfg.Ledger.DefaultWarehouse)
	assert.Equal(t, "Asia/Seoul", cfg.Ledger.Location().String())
	assert.Equal(t, 30*time.Minute, cfg.Auth.IdleTimeout)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.Empty(t, cfg.MongoDB.URI)

	require.Len(t, cfg.Auth.Accounts, 2)
	assert.Equal(t, AccountConfig{Username: "AZ", Role: "administrator", PasswordHash: "$2a$10$abc"}, cfg.Auth.Accounts[0])
	assert.Equal(t, AccountConfig{Username: "AZS", Role: "sales_operator", PasswordHash: "$2a$10$def"}, cfg.Auth.Accounts[1])
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INVENTORY_CACHE_TTL", "90")
	t.Setenv("SESSION_IDLE_TIMEOUT", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("WHATSAPP_TOKEN", "tok")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("WHATSAPP_GROUP_ID", "group")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Inventory.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.IdleTimeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.WhatsApp.Enabled())
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string][2]string{
		"missing ledger":    {"LEDGER_SPREADSHEET_ID", ""},
		"short secret":      {"SESSION_SECRET", "short"},
		"malformed account": {"AUTH_ACCOUNTS", "AZ:administrator"},
		"no accounts":       {"AUTH_ACCOUNTS", ""},
		"bad backend":       {"INVENTORY_CACHE_BACKEND", "memcached"},
		"redis without url": {"INVENTORY_CACHE_BACKEND", "redis"},
		"bad timezone":      {"TIMEZONE", "Mars/Olympus"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load("does-not-exist.env")
	assert.NoError(t, err)
}
