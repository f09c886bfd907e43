package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project groups wallets under a unique name. The reporting core uses it only
// to resolve scope and never mutates it.
type Project struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	WalletIDs []string           `bson:"wallet_ids" json:"wallet_ids"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
