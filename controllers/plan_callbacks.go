package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yunyunfunnydays/hookloop-server/common/logger"
	"github.com/yunyunfunnydays/hookloop-server/config"
	"github.com/yunyunfunnydays/hookloop-server/pkg/newebpay"
	"go.uber.org/zap"
)

// CallbackController consumes the two gateway-initiated callbacks. Notify is
// the authoritative one; Return only decorates the browser redirect.
type CallbackController struct {
	Service IOrderService
	Gateway config.GatewayConfig
}

func NewCallbackController(service IOrderService, gateway config.GatewayConfig) *CallbackController {
	return &CallbackController{Service: service, Gateway: gateway}
}

// Notify handles POST /plan/notify, the server-to-server payment result.
// The gateway retries on non-200 responses, so every internal failure is
// logged and acknowledged rather than surfaced.
func (cc *CallbackController) Notify(c *gin.Context) {
	tradeInfo := c.PostForm("TradeInfo")
	tradeSha := c.PostForm("TradeSha")

	if err := cc.Service.HandleNotify(c, tradeInfo, tradeSha); err != nil {
		logger.Error(c, "Payment notification not applied", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// Return handles POST /plan/return, the browser redirect from the gateway.
// It decrypts the result purely for display and never touches order state.
func (cc *CallbackController) Return(c *gin.Context) {
	result, err := newebpay.DecodeTradeResult(c.PostForm("TradeInfo"), cc.Gateway.HashKey, cc.Gateway.HashIV)
	if err != nil {
		logger.Error(c, "Failed to decode payment return payload", err)
		c.Redirect(http.StatusFound, cc.Gateway.FrontendURL+"/plan?Status=ERROR")
		return
	}

	// Every value is query-escaped even though the gateway is trusted.
	query := url.Values{}
	query.Set("Status", result.Status)
	query.Set("MerchantOrderNo", result.Result.MerchantOrderNo)
	query.Set("PaymentType", result.Result.PaymentType)
	query.Set("PayTime", result.Result.PayTime)
	query.Set("Amt", strconv.Itoa(result.Result.Amt))
	query.Set("ItemDesc", result.Result.ItemDesc)

	logger.Info(c, "Payment return redirect",
		zap.String("merchant_order_no", result.Result.MerchantOrderNo),
		zap.String("status", result.Status))

	c.Redirect(http.StatusFound, cc.Gateway.FrontendURL+"/plan?"+query.Encode())
}
