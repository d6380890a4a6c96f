package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseModule struct {
	Name     string   `bson:"name"     json:"name"`
	Topics   []string `bson:"topics"   json:"topics"`
	Duration string   `bson:"duration" json:"duration"`
}

// CoursePlan is the one resource that references another owned resource:
// CustomerID must point at a customer belonging to the same owner.
type CoursePlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID `bson:"owner_id"      json:"-"`
	CustomerID string             `bson:"customer_id"   json:"customerId"`
	Title      string             `bson:"title"         json:"title"`
	Objective  string             `bson:"objective"     json:"objective"`
	Modules    []CourseModule     `bson:"modules"       json:"modules"`
	Resources  []string           `bson:"resources"     json:"resources"`
	CreatedAt  time.Time          `bson:"created_at"    json:"createdAt"`
}
