package newebpay

import (
	"fmt"
	"strings"
)

// Fixed protocol flags. EmailModify is always 0 (the payer may not edit the
// listed email) and WEBATM is always 1.
const (
	emailModify = 0
	webATM      = 1
)

// TradeInfo is the order payload sent to the gateway. Field names and JSON
// tags follow the gateway's parameter names.
type TradeInfo struct {
	MerchantID      string `json:"MerchantID"`
	RespondType     string `json:"RespondType"`
	TimeStamp       string `json:"TimeStamp"`
	Version         string `json:"Version"`
	LoginType       string `json:"LoginType"`
	MerchantOrderNo string `json:"MerchantOrderNo"`
	Amt             int    `json:"Amt"`
	ItemDesc        string `json:"ItemDesc"`
	TradeLimit      int    `json:"TradeLimit"`
	ReturnURL       string `json:"ReturnURL"`
	NotifyURL       string `json:"NotifyURL"`
	Email           string `json:"Email"`
	EmailModify     int    `json:"EmailModify"`
	WEBATM          int    `json:"WEBATM"`
}

// NewTradeInfo builds a trade payload with the protocol's fixed flags set.
func NewTradeInfo(merchantID, version, merchantOrderNo string, amt int, itemDesc string,
	tradeLimit int, returnURL, notifyURL, email, timestamp string) TradeInfo {
	return TradeInfo{
		MerchantID:      merchantID,
		RespondType:     "JSON",
		TimeStamp:       timestamp,
		Version:         version,
		LoginType:       "en",
		MerchantOrderNo: merchantOrderNo,
		Amt:             amt,
		ItemDesc:        itemDesc,
		TradeLimit:      tradeLimit,
		ReturnURL:       returnURL,
		NotifyURL:       notifyURL,
		Email:           email,
		EmailModify:     emailModify,
		WEBATM:          webATM,
	}
}

// Serialize renders the payload as `key=value&key=value` in the exact field
// order the gateway reconstructs and checksums. The order is part of the wire
// contract; it is neither alphabetical nor negotiable.
func (t TradeInfo) Serialize() string {
	pairs := []struct {
		key   string
		value string
	}{
		{"MerchantID", t.MerchantID},
		{"RespondType", t.RespondType},
		{"TimeStamp", t.TimeStamp},
		{"Version", t.Version},
		{"LoginType", t.LoginType},
		{"MerchantOrderNo", t.MerchantOrderNo},
		{"Amt", fmt.Sprintf("%d", t.Amt)},
		{"ItemDesc", t.ItemDesc},
		{"TradeLimit", fmt.Sprintf("%d", t.TradeLimit)},
		{"ReturnURL", t.ReturnURL},
		{"NotifyURL", t.NotifyURL},
		{"Email", t.Email},
		{"EmailModify", fmt.Sprintf("%d", t.EmailModify)},
		{"WEBATM", fmt.Sprintf("%d", t.WEBATM)},
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}
