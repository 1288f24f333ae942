package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the slice of the account document this service reads. Accounts are
// created and authenticated elsewhere; payment only needs the contact email
// and the archived flag.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Username   string             `bson:"username" json:"username"`
	IsArchived bool               `bson:"isArchived" json:"isArchived"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
