package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver string
	DBDSN    string

	JWTSecret string

	// kosong = fitur dimatikan
	RedisAddr   string
	RabbitMQURL string

	DeliveryFee    decimal.Decimal
	Discount       decimal.Decimal
	RestaurantName string
	PaymentMethod  string

	CORSOrigin         string
	CheckoutRatePerMin int
	IPRatePerMin       int
	LogLevel           string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// .env boleh tidak ada (production pakai env asli)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:          os.Getenv("DB_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		RestaurantName: getEnv("RESTAURANT_NAME", "ZEST INDIA"),
		PaymentMethod:  getEnv("PAYMENT_METHOD", "UPI"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DeliveryFee, err = getDecimal("DELIVERY_FEE", "5.00"); err != nil {
		return nil, err
	}
	if cfg.Discount, err = getDecimal("DISCOUNT", "0.50"); err != nil {
		return nil, err
	}
	if cfg.CheckoutRatePerMin, err = getInt("CHECKOUT_RATE_PER_MIN", 10); err != nil {
		return nil, err
	}
	// 0 = rate limit per IP dimatikan
	if cfg.IPRatePerMin, err = getInt("RATE_LIMIT_PER_MIN", 300); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for mysql")
		}
	case "sqlite":
		if c.DBDSN == "" {
			c.DBDSN = "zest.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DeliveryFee.IsNegative() || c.Discount.IsNegative() {
		return fmt.Errorf("DELIVERY_FEE and DISCOUNT must not be negative")
	}
	if c.CheckoutRatePerMin < 1 {
		return fmt.Errorf("CHECKOUT_RATE_PER_MIN must be at least 1")
	}
	if c.IPRatePerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
