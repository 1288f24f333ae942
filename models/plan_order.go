package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of a payment order. Transitions are
// one-way: UN-PAID is the only non-terminal state.
type OrderStatus string

const (
	OrderStatusUnpaid  OrderStatus = "UN-PAID"
	OrderStatusSuccess OrderStatus = "PAY-SUCCESS"
	OrderStatusFail    OrderStatus = "PAY-FAIL"
)

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusSuccess || s == OrderStatusFail
}

// PaymentOrder is one checkout attempt for a paid plan. It is a permanent
// financial record and is never deleted.
type PaymentOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanName        string             `bson:"name" json:"name"`
	Price           int                `bson:"price" json:"price"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	MerchantOrderNo string             `bson:"merchantOrderNo" json:"merchantOrderNo"`
	Status          OrderStatus        `bson:"status" json:"status"`
	EndAt           time.Time          `bson:"endAt" json:"endAt"`

	// Populated by the gateway notification only.
	PaymentType string     `bson:"paymentType,omitempty" json:"paymentType,omitempty"`
	PayBankCode string     `bson:"payBankCode,omitempty" json:"payBankCode,omitempty"`
	PayTime     *time.Time `bson:"payTime,omitempty" json:"payTime,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
