package newebpay

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// TradeResult is the decrypted payload the gateway sends back on both the
// server notification and the browser return.
type TradeResult struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Result  TradeDetail `json:"Result"`
}

// StatusSuccess is the gateway's code for a completed payment; every other
// status is a failure.
const StatusSuccess = "SUCCESS"

// TradeDetail carries the payment metadata inside a TradeResult.
type TradeDetail struct {
	MerchantOrderNo string `json:"MerchantOrderNo"`
	PaymentType     string `json:"PaymentType"`
	PayBankCode     string `json:"PayBankCode"`
	PayTime         string `json:"PayTime"`
	Amt             int    `json:"Amt"`
	ItemDesc        string `json:"ItemDesc"`
}

// DecodeTradeResult decrypts a callback ciphertext and parses it into a
// TradeResult. The gateway percent-encodes the JSON before encrypting, so the
// plaintext is unescaped before parsing.
func DecodeTradeResult(hexCiphertext, key, iv string) (*TradeResult, error) {
	plaintext, err := Decrypt(hexCiphertext, key, iv)
	if err != nil {
		return nil, err
	}

	unescaped, err := url.PathUnescape(plaintext)
	if err != nil {
		return nil, fmt.Errorf("newebpay: unescape trade result: %w", err)
	}

	var result TradeResult
	if err := json.Unmarshal([]byte(unescaped), &result); err != nil {
		return nil, fmt.Errorf("newebpay: parse trade result: %w", err)
	}
	return &result, nil
}
