package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config carries everything the API process reads from the environment.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	Env         string   `env:"APP_ENV" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Legacy form-enquiry store. MySQLDSN wins when set.
	MySQLDSN      string `env:"MYSQL_DSN"`
	MySQLHost     string `env:"MYSQL_HOST"`
	MySQLPort     int    `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLUser     string `env:"MYSQL_USER"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	MySQLDatabase string `env:"MYSQL_DATABASE"`

	ShopifyShop        string `env:"SHOPIFY_SHOP"`
	ShopifyAccessToken string `env:"SHOPIFY_ADMIN_API_ACCESS_TOKEN"`
	ShopifyAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2025-04"`

	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"10m"`
	SyncEnabled  bool          `env:"SYNC_ENABLED" envDefault:"true"`

	RabbitMQURL string `env:"RABBITMQ_URL"`

	WhatsAppAccessToken string `env:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppPhoneID     string `env:"WHATSAPP_PHONE_ID"`
	WhatsAppBaseURL     string `env:"WHATSAPP_BASE_URL" envDefault:"https://graph.facebook.com/v18.0"`

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`

	StoreName string `env:"STORE_NAME" envDefault:"Your Store"`
}

// Load reads an optional .env file and then parses the process environment.
func Load(files ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// LegacyDSN returns the MySQL DSN for the legacy lead store, or "" when the
// store is not configured. parseTime is always enabled so DATETIME columns
// scan into time values.
func (c *Config) LegacyDSN() string {
	if c.MySQLDSN != "" {
		dsn, err := mysql.ParseDSN(c.MySQLDSN)
		if err != nil {
			// left as given; the connection attempt reports the error
			return c.MySQLDSN
		}
		dsn.ParseTime = true
		return dsn.FormatDSN()
	}
	if c.MySQLHost == "" || c.MySQLDatabase == "" {
		return ""
	}
	dsn := mysql.NewConfig()
	dsn.User = c.MySQLUser
	dsn.Passwd = c.MySQLPassword
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", c.MySQLHost, c.MySQLPort)
	dsn.DBName = c.MySQLDatabase
	dsn.ParseTime = true
	return dsn.FormatDSN()
}

// ShopifyConfigured reports whether commerce API calls can be made.
func (c *Config) ShopifyConfigured() bool {
	return c.ShopifyShop != "" && c.ShopifyAccessToken != ""
}

// ShopifyBaseURL builds the Admin REST root, accepting the shop either as a
// bare domain or as a full URL.
func (c *Config) ShopifyBaseURL() string {
	shop := strings.TrimRight(c.ShopifyShop, "/")
	if !strings.HasPrefix(shop, "http://") && !strings.HasPrefix(shop, "https://") {
		shop = "https://" + shop
	}
	return fmt.Sprintf("%s/admin/api/%s", shop, c.ShopifyAPIVersion)
}
