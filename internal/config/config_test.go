package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/opsdesk")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.SyncInterval)
	assert.Equal(t, "2025-04", cfg.ShopifyAPIVersion)
	assert.Equal(t, 3306, cfg.MySQLPort)
	assert.False(t, cfg.ShopifyConfigured())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestLegacyDSN(t *testing.T) {
	cfg := &Config{MySQLHost: "db", MySQLPort: 3307, MySQLUser: "u", MySQLPassword: "p", MySQLDatabase: "forms"}
	assert.Equal(t, "u:p@tcp(db:3307)/forms?parseTime=true", cfg.LegacyDSN())

	cfg.MySQLDSN = "u:p@tcp(legacy:3306)/forms"
	assert.Equal(t, "u:p@tcp(legacy:3306)/forms?parseTime=true", cfg.LegacyDSN())

	cfg.MySQLDSN = "u:p@tcp(legacy:3306)/forms?parseTime=false"
	assert.Equal(t, "u:p@tcp(legacy:3306)/forms?parseTime=true", cfg.LegacyDSN())

	cfg.MySQLDSN = "custom"
	assert.Equal(t, "custom", cfg.LegacyDSN())

	assert.Equal(t, "", (&Config{}).LegacyDSN())
}

func TestShopifyBaseURL(t *testing.T) {
	cfg := &Config{ShopifyShop: "demo.myshopify.com", ShopifyAPIVersion: "2025-04"}
	assert.Equal(t, "https://demo.myshopify.com/admin/api/2025-04", cfg.ShopifyBaseURL())

	cfg.ShopifyShop = "https://demo.myshopify.com/"
	assert.Equal(t, "https://demo.myshopify.com/admin/api/2025-04", cfg.ShopifyBaseURL())
}
