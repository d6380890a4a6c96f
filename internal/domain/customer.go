package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Customer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id"      json:"-"`
	Name      string             `bson:"name"          json:"name"`
	Company   string             `bson:"company"       json:"company"`
	Role      string             `bson:"role"          json:"role"`
	Industry  string             `bson:"industry"      json:"industry"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Tags      []string           `bson:"tags"          json:"tags"`
	CreatedAt time.Time          `bson:"created_at"    json:"createdAt"`
}
