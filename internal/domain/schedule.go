package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SchedulePending   = "pending"
	ScheduleCompleted = "completed"
)

// NormalizeScheduleStatus collapses anything that is not "completed" into
// "pending".
func NormalizeScheduleStatus(s string) string {
	if s == ScheduleCompleted {
		return ScheduleCompleted
	}
	return SchedulePending
}

type Schedule struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"owner_id"      json:"-"`
	CustomerID  string             `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	Title       string             `bson:"title"         json:"title"`
	Date        string             `bson:"date"          json:"date"`
	Time        string             `bson:"time,omitempty" json:"time,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status"        json:"status"` // pending | completed
	CreatedAt   time.Time          `bson:"created_at"    json:"-"`
}
