package newebpay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTradeResult(t *testing.T) {
	payload := `{"Status":"SUCCESS","Message":"done",` +
		`"Result":{"MerchantOrderNo":"P1700000000000002","PaymentType":"WEBATM",` +
		`"PayBankCode":"012","PayTime":"2024-01-01T10:00:00Z","Amt":599,"ItemDesc":"PREMIUM"}}`

	ciphertext, err := Encrypt(payload, testKey, testIV)
	assert.NoError(t, err)

	result, err := DecodeTradeResult(ciphertext, testKey, testIV)
	assert.NoError(t, err)
	assert.Equal(t, "SUCCESS", result.Status)
	assert.Equal(t, "P1700000000000002", result.Result.MerchantOrderNo)
	assert.Equal(t, "WEBATM", result.Result.PaymentType)
	assert.Equal(t, "012", result.Result.PayBankCode)
	assert.Equal(t, "2024-01-01T10:00:00Z", result.Result.PayTime)
	assert.Equal(t, 599, result.Result.Amt)
	assert.Equal(t, "PREMIUM", result.Result.ItemDesc)
}

func TestDecodeTradeResultUnescapesPayload(t *testing.T) {
	// The gateway percent-encodes the JSON before encrypting it.
	payload := `{"Status":"SUCCESS","Result":{"MerchantOrderNo":"S1","ItemDesc":"STANDARD%20PLAN","Amt":299}}`

	ciphertext, err := Encrypt(payload, testKey, testIV)
	assert.NoError(t, err)

	result, err := DecodeTradeResult(ciphertext, testKey, testIV)
	assert.NoError(t, err)
	assert.Equal(t, "STANDARD PLAN", result.Result.ItemDesc)
}

func TestDecodeTradeResultRejectsGarbage(t *testing.T) {
	_, err := DecodeTradeResult("zz-not-hex", testKey, testIV)
	assert.Error(t, err)

	// Valid ciphertext whose plaintext is not JSON.
	ciphertext, err := Encrypt("definitely not json", testKey, testIV)
	assert.NoError(t, err)
	_, err = DecodeTradeResult(ciphertext, testKey, testIV)
	assert.Error(t, err)
}
