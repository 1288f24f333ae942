package config

import (
	"fmt"
	"os"
	"strings"
)

// GatewayConfig holds the credentials and endpoints for the payment gateway.
// The key/IV sizes are part of the AES-256-CBC contract and are validated at
// load time so a bad deployment fails before the first checkout.
type GatewayConfig struct {
	MerchantID  string
	Version     string
	ReturnURL   string
	NotifyURL   string
	HashKey     string // 32 bytes
	HashIV      string // 16 bytes
	FrontendURL string // base URL the return handler redirects to
}

type Config struct {
	Port         string
	Env          string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	KafkaBrokers []string // empty means event publishing is disabled
	KafkaTopic   string
	ExpirySpec   string // schedule for the unpaid-order sweep
	Gateway      GatewayConfig
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("APP_ENV", "development"),
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "hookloop"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		KafkaTopic: getEnv("KAFKA_PAYMENT_TOPIC", "payment-events"),
		ExpirySpec: getEnv("ORDER_EXPIRY_CRON", "@every 5m"),
		Gateway: GatewayConfig{
			MerchantID:  os.Getenv("PAY_MERCHANT_ID"),
			Version:     os.Getenv("PAY_VERSION"),
			ReturnURL:   os.Getenv("PAY_RETURN_URL"),
			NotifyURL:   os.Getenv("PAY_NOTIFY_URL"),
			HashKey:     os.Getenv("PAY_HASH_KEY"),
			HashIV:      os.Getenv("PAY_HASH_IV"),
			FrontendURL: os.Getenv("FRONT_REMOTE_URL"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variable JWT_SECRET")
	}
	if err := cfg.Gateway.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every gateway setting is present and the secrets have
// the exact sizes AES-256-CBC requires.
func (g GatewayConfig) Validate() error {
	missing := []string{}
	for name, val := range map[string]string{
		"PAY_MERCHANT_ID":  g.MerchantID,
		"PAY_VERSION":      g.Version,
		"PAY_RETURN_URL":   g.ReturnURL,
		"PAY_NOTIFY_URL":   g.NotifyURL,
		"PAY_HASH_KEY":     g.HashKey,
		"PAY_HASH_IV":      g.HashIV,
		"FRONT_REMOTE_URL": g.FrontendURL,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required gateway environment variables: %s", strings.Join(missing, ", "))
	}
	if len(g.HashKey) != 32 {
		return fmt.Errorf("PAY_HASH_KEY must be exactly 32 bytes, got %d", len(g.HashKey))
	}
	if len(g.HashIV) != 16 {
		return fmt.Errorf("PAY_HASH_IV must be exactly 16 bytes, got %d", len(g.HashIV))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
