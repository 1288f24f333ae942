package repository

import (
	"context"
	"time"

	"github.com/yunyunfunnydays/hookloop-server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection("plans"),
	}
}

// EnsureIndexes creates the unique index that backs merchantOrderNo lookups
// and guarantees order-number uniqueness under concurrent creation.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "merchantOrderNo", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *OrderRepository) Create(ctx context.Context, order *models.PaymentOrder) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *OrderRepository) FindByMerchantOrderNo(ctx context.Context, merchantOrderNo string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.collection.FindOne(ctx, bson.M{"merchantOrderNo": merchantOrderNo}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CompleteIfUnpaid atomically applies updates to the order identified by
// merchantOrderNo, but only while its status is still UN-PAID. Returns false
// when the order has already reached a terminal state (or does not exist),
// which makes duplicate gateway notifications safe.
func (r *OrderRepository) CompleteIfUnpaid(ctx context.Context, merchantOrderNo string, updates bson.M) (bool, error) {
	updates["updatedAt"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"merchantOrderNo": merchantOrderNo, "status": models.OrderStatusUnpaid},
		bson.M{"$set": updates},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// FindStaleUnpaid lists orders still UN-PAID whose creation predates cutoff.
// The caller transitions each one through CompleteIfUnpaid so a notification
// racing the sweep cannot be overwritten.
func (r *OrderRepository) FindStaleUnpaid(ctx context.Context, cutoff time.Time) ([]*models.PaymentOrder, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"status": models.OrderStatusUnpaid, "createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.PaymentOrder
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
