package newebpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTradeInfo() TradeInfo {
	return NewTradeInfo(
		"MS123456789",
		"2.0",
		"S1700000000000001",
		299,
		"STANDARD",
		900,
		"https://api.example.com/plan/return",
		"https://api.example.com/plan/notify",
		"buyer@example.com",
		"1700000000",
	)
}

func TestNewTradeInfoFixedFlags(t *testing.T) {
	info := sampleTradeInfo()

	assert.Equal(t, "JSON", info.RespondType)
	assert.Equal(t, "en", info.LoginType)
	assert.Equal(t, 0, info.EmailModify)
	assert.Equal(t, 1, info.WEBATM)
}

func TestSerializeFieldOrder(t *testing.T) {
	got := sampleTradeInfo().Serialize()

	want := "MerchantID=MS123456789" +
		"&RespondType=JSON" +
		"&TimeStamp=1700000000" +
		"&Version=2.0" +
		"&LoginType=en" +
		"&MerchantOrderNo=S1700000000000001" +
		"&Amt=299" +
		"&ItemDesc=STANDARD" +
		"&TradeLimit=900" +
		"&ReturnURL=https://api.example.com/plan/return" +
		"&NotifyURL=https://api.example.com/plan/notify" +
		"&Email=buyer@example.com" +
		"&EmailModify=0" +
		"&WEBATM=1"

	assert.Equal(t, want, got)
}

func TestSerializeOrderIsNotAlphabetical(t *testing.T) {
	// The gateway rebuilds and checksums this exact sequence; a sorted
	// rendering would be rejected.
	got := sampleTradeInfo().Serialize()
	keys := []string{}
	for _, pair := range strings.Split(got, "&") {
		keys = append(keys, strings.SplitN(pair, "=", 2)[0])
	}

	assert.Equal(t, []string{
		"MerchantID", "RespondType", "TimeStamp", "Version", "LoginType",
		"MerchantOrderNo", "Amt", "ItemDesc", "TradeLimit",
		"ReturnURL", "NotifyURL", "Email", "EmailModify", "WEBATM",
	}, keys)
}
