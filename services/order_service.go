package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	apperrors "github.com/yunyunfunnydays/hookloop-server/common/errors"
	"github.com/yunyunfunnydays/hookloop-server/common/logger"
	"github.com/yunyunfunnydays/hookloop-server/config"
	"github.com/yunyunfunnydays/hookloop-server/models"
	"github.com/yunyunfunnydays/hookloop-server/pkg/newebpay"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IOrderRepository is the persistence surface the order service needs.
type IOrderRepository interface {
	Create(ctx context.Context, order *models.PaymentOrder) error
	FindByMerchantOrderNo(ctx context.Context, merchantOrderNo string) (*models.PaymentOrder, error)
	CompleteIfUnpaid(ctx context.Context, merchantOrderNo string, updates bson.M) (bool, error)
	FindStaleUnpaid(ctx context.Context, cutoff time.Time) ([]*models.PaymentOrder, error)
}

// IEventProducer publishes payment events; implementations must tolerate a
// nil receiver.
type IEventProducer interface {
	SendPaymentEvent(ctx context.Context, event models.PaymentEvent) error
}

// planPrices is the closed set of purchasable plans. Price is always derived
// here, never taken from client input. FREE is handled by the frontend and
// never reaches this service.
var planPrices = map[string]int{
	"STANDARD": 299,
	"PREMIUM":  599,
}

const (
	// subscriptionPeriod is one billing cycle.
	subscriptionPeriod = 30 * 24 * time.Hour
	// tradeLimitSeconds is the gateway-side window to finish the trade.
	tradeLimitSeconds = 900
)

// orderSeq disambiguates order numbers generated within the same millisecond.
var orderSeq atomic.Uint32

// CreateOrderResult is what the client forwards to the gateway. The hash
// key/IV themselves never leave the server.
type CreateOrderResult struct {
	TradeInfo    newebpay.TradeInfo `json:"tradeInfo"`
	AesEncrypted string             `json:"aesEncrypted"`
	ShaEncrypted string             `json:"shaEncrypted"`
}

type OrderService struct {
	orders  IOrderRepository
	gateway config.GatewayConfig
	events  IEventProducer
	now     func() time.Time
}

func NewOrderService(orders IOrderRepository, gateway config.GatewayConfig, events IEventProducer) *OrderService {
	return &OrderService{
		orders:  orders,
		gateway: gateway,
		events:  events,
		now:     time.Now,
	}
}

// CreateOrder builds and encrypts a gateway order for the target plan and
// persists the UN-PAID record the notification will later resolve.
func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, targetPlan string) (*CreateOrderResult, error) {
	if user.IsArchived {
		return nil, apperrors.NewValidation("user is archived")
	}
	price, ok := planPrices[targetPlan]
	if targetPlan == "" || !ok {
		return nil, apperrors.NewValidation("plan for payment is required")
	}
	if err := s.gateway.Validate(); err != nil {
		return nil, apperrors.NewConfiguration("payment gateway is not configured", err)
	}

	now := s.now().UTC()
	merchantOrderNo := newMerchantOrderNo(targetPlan, now)

	tradeInfo := newebpay.NewTradeInfo(
		s.gateway.MerchantID,
		s.gateway.Version,
		merchantOrderNo,
		price,
		targetPlan,
		tradeLimitSeconds,
		s.gateway.ReturnURL,
		s.gateway.NotifyURL,
		user.Email,
		fmt.Sprintf("%d", now.Unix()),
	)

	aesEncrypted, err := newebpay.Encrypt(tradeInfo.Serialize(), s.gateway.HashKey, s.gateway.HashIV)
	if err != nil {
		// Validate already checked the sizes, so any failure here is a
		// configuration problem.
		return nil, apperrors.NewConfiguration("failed to encrypt trade info", err)
	}
	shaEncrypted := newebpay.Checksum(aesEncrypted, s.gateway.HashKey, s.gateway.HashIV)

	order := &models.PaymentOrder{
		PlanName:        targetPlan,
		Price:           price,
		UserID:          user.ID,
		MerchantOrderNo: merchantOrderNo,
		Status:          models.OrderStatusUnpaid,
		EndAt:           now.Add(subscriptionPeriod), // tentative; notify overwrites on success
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.From(err)
	}

	logger.Info(ctx, "Payment order created",
		zap.String("merchant_order_no", merchantOrderNo),
		zap.String("plan", targetPlan),
		zap.Int("price", price))

	return &CreateOrderResult{
		TradeInfo:    tradeInfo,
		AesEncrypted: aesEncrypted,
		ShaEncrypted: shaEncrypted,
	}, nil
}

// HandleNotify verifies and decrypts a server-to-server gateway notification
// and applies the authoritative state transition.
func (s *OrderService) HandleNotify(ctx context.Context, hexCiphertext, checksum string) error {
	if !newebpay.VerifyChecksum(hexCiphertext, checksum, s.gateway.HashKey, s.gateway.HashIV) {
		return apperrors.NewCrypto(errors.New("notify checksum mismatch"))
	}

	result, err := newebpay.DecodeTradeResult(hexCiphertext, s.gateway.HashKey, s.gateway.HashIV)
	if err != nil {
		return apperrors.NewCrypto(err)
	}

	return s.ApplyTradeResult(ctx, result)
}

// ApplyTradeResult transitions the order named by the trade result. The
// update is a compare-and-swap against UN-PAID: a repeat of an already
// applied outcome is a no-op, a conflicting repeat is logged as an anomaly
// and never overwrites the terminal state.
func (s *OrderService) ApplyTradeResult(ctx context.Context, result *newebpay.TradeResult) error {
	detail := result.Result
	intended := models.OrderStatusFail
	if result.Status == newebpay.StatusSuccess {
		intended = models.OrderStatusSuccess
	}

	payTime := s.parsePayTime(ctx, detail.PayTime)
	updates := bson.M{
		"status":      intended,
		"paymentType": detail.PaymentType,
		"payBankCode": detail.PayBankCode,
		"payTime":     payTime,
	}
	if intended == models.OrderStatusSuccess {
		// Authoritative expiry replaces the tentative one set at creation.
		updates["endAt"] = payTime.Add(subscriptionPeriod)
	}

	applied, err := s.orders.CompleteIfUnpaid(ctx, detail.MerchantOrderNo, updates)
	if err != nil {
		return apperrors.From(err)
	}

	if !applied {
		return s.recordUnappliedNotify(ctx, detail.MerchantOrderNo, intended)
	}

	logger.Info(ctx, "Payment order resolved",
		zap.String("merchant_order_no", detail.MerchantOrderNo),
		zap.String("status", string(intended)))

	s.publishTransition(ctx, detail.MerchantOrderNo, intended, detail.Amt)
	return nil
}

// recordUnappliedNotify distinguishes an unknown order from a duplicate or
// conflicting notification for an order already in a terminal state.
func (s *OrderService) recordUnappliedNotify(ctx context.Context, merchantOrderNo string, intended models.OrderStatus) error {
	order, err := s.orders.FindByMerchantOrderNo(ctx, merchantOrderNo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NewNotFound("order not found: " + merchantOrderNo)
		}
		return apperrors.From(err)
	}

	if order.Status == intended {
		logger.Info(ctx, "Duplicate gateway notification ignored",
			zap.String("merchant_order_no", merchantOrderNo),
			zap.String("status", string(order.Status)))
		return nil
	}

	logger.Error(ctx, "Conflicting gateway notification for settled order", nil,
		zap.String("merchant_order_no", merchantOrderNo),
		zap.String("recorded_status", string(order.Status)),
		zap.String("notified_status", string(intended)))
	return nil
}

// ExpireStaleOrders fails every order that outlived the gateway's trade
// window without a notification. Each order goes through the same
// conditional update as the notify path, so a late notification that races
// the sweep wins exactly one of the two.
func (s *OrderService) ExpireStaleOrders(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-tradeLimitSeconds * time.Second)
	stale, err := s.orders.FindStaleUnpaid(ctx, cutoff)
	if err != nil {
		return 0, apperrors.From(err)
	}

	expired := 0
	for _, order := range stale {
		applied, err := s.orders.CompleteIfUnpaid(ctx, order.MerchantOrderNo, bson.M{
			"status": models.OrderStatusFail,
		})
		if err != nil {
			logger.Error(ctx, "Failed to expire stale order", err,
				zap.String("merchant_order_no", order.MerchantOrderNo))
			continue
		}
		if !applied {
			continue // settled between the find and the update
		}
		expired++
		if s.events != nil {
			_ = s.events.SendPaymentEvent(ctx, models.PaymentEvent{
				Type:            models.EventPaymentExpired,
				MerchantOrderNo: order.MerchantOrderNo,
				UserID:          order.UserID.Hex(),
				PlanName:        order.PlanName,
				Amount:          order.Price,
				Timestamp:       s.now().UTC(),
			})
		}
	}
	return expired, nil
}

func (s *OrderService) publishTransition(ctx context.Context, merchantOrderNo string, status models.OrderStatus, amt int) {
	if s.events == nil {
		return
	}
	eventType := models.EventPaymentFailed
	if status == models.OrderStatusSuccess {
		eventType = models.EventPaymentSucceeded
	}

	event := models.PaymentEvent{
		Type:            eventType,
		MerchantOrderNo: merchantOrderNo,
		Amount:          amt,
		Timestamp:       s.now().UTC(),
	}
	// Best-effort enrichment; the transition itself already happened.
	if order, err := s.orders.FindByMerchantOrderNo(ctx, merchantOrderNo); err == nil {
		event.UserID = order.UserID.Hex()
		event.PlanName = order.PlanName
	}
	_ = s.events.SendPaymentEvent(ctx, event)
}

// parsePayTime accepts the timestamp formats the gateway has been seen to
// send. An unparseable value falls back to the current time so a success
// notification is never dropped over a formatting quirk.
func (s *OrderService) parsePayTime(ctx context.Context, raw string) time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-0215:04:05", // gateway omits the separator
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	logger.Warn(ctx, "Unparseable PayTime in gateway notification", zap.String("pay_time", raw))
	return s.now().UTC()
}

// newMerchantOrderNo derives the externally visible order reference:
// plan initial + epoch milliseconds + a three-digit sequence that keeps two
// orders created in the same millisecond distinct.
func newMerchantOrderNo(plan string, now time.Time) string {
	seq := orderSeq.Add(1) % 1000
	return fmt.Sprintf("%c%d%03d", plan[0], now.UnixMilli(), seq)
}
