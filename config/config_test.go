package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validGateway() GatewayConfig {
	return GatewayConfig{
		MerchantID:  "MS123456789",
		Version:     "2.0",
		ReturnURL:   "https://api.example.com/plan/return",
		NotifyURL:   "https://api.example.com/plan/notify",
		HashKey:     strings.Repeat("k", 32),
		HashIV:      strings.Repeat("i", 16),
		FrontendURL: "https://app.example.com",
	}
}

func TestGatewayValidate_OK(t *testing.T) {
	assert.NoError(t, validGateway().Validate())
}

func TestGatewayValidate_MissingFields(t *testing.T) {
	gw := validGateway()
	gw.MerchantID = ""
	gw.NotifyURL = ""

	err := gw.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PAY_MERCHANT_ID")
	assert.Contains(t, err.Error(), "PAY_NOTIFY_URL")
}

func TestGatewayValidate_WrongKeySizes(t *testing.T) {
	gw := validGateway()
	gw.HashKey = "too-short"
	err := gw.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PAY_HASH_KEY")

	gw = validGateway()
	gw.HashIV = strings.Repeat("i", 17)
	err = gw.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PAY_HASH_IV")
}

func TestLoadConfig_FailsFastOnBadSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAY_MERCHANT_ID", "MS123456789")
	t.Setenv("PAY_VERSION", "2.0")
	t.Setenv("PAY_RETURN_URL", "https://api.example.com/plan/return")
	t.Setenv("PAY_NOTIFY_URL", "https://api.example.com/plan/notify")
	t.Setenv("PAY_HASH_KEY", "short")
	t.Setenv("PAY_HASH_IV", strings.Repeat("i", 16))
	t.Setenv("FRONT_REMOTE_URL", "https://app.example.com")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PAY_HASH_KEY", strings.Repeat("k", 32))
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, strings.Repeat("k", 32), cfg.Gateway.HashKey)
	assert.Equal(t, "payment-events", cfg.KafkaTopic)
}

func TestLoadConfig_KafkaBrokersSplit(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAY_MERCHANT_ID", "MS123456789")
	t.Setenv("PAY_VERSION", "2.0")
	t.Setenv("PAY_RETURN_URL", "https://api.example.com/plan/return")
	t.Setenv("PAY_NOTIFY_URL", "https://api.example.com/plan/notify")
	t.Setenv("PAY_HASH_KEY", strings.Repeat("k", 32))
	t.Setenv("PAY_HASH_IV", strings.Repeat("i", 16))
	t.Setenv("FRONT_REMOTE_URL", "https://app.example.com")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
