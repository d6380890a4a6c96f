package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interaction keeps the AI analysis blobs (profile, intelligence, metrics)
// schema-free: their shape is owned by the AI collaborator, not this service.
type Interaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	OwnerID         primitive.ObjectID `bson:"owner_id"       json:"-"`
	CustomerID      string             `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	Date            string             `bson:"date"           json:"date"`
	RawInput        string             `bson:"raw_input"      json:"rawInput"`
	CustomerProfile map[string]any     `bson:"customer_profile" json:"customerProfile"`
	Intelligence    map[string]any     `bson:"intelligence"   json:"intelligence"`
	Metrics         map[string]any     `bson:"metrics"        json:"metrics"`
	Suggestions     []string           `bson:"suggestions"    json:"suggestions"`
	CreatedAt       time.Time          `bson:"created_at"     json:"-"`
}
