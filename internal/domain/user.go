package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"

	DefaultLanguage = "zh"
	DefaultTheme    = "classic"
)

// User is an identity record. PasswordHash is set only for email/password
// accounts; federated accounts carry an empty hash and can never pass a
// password check.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	Email        string             `bson:"email"          json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	DisplayName  string             `bson:"display_name"   json:"displayName"`
	Avatar       *string            `bson:"avatar"         json:"avatar"`
	Language     string             `bson:"language"       json:"language"`
	Theme        string             `bson:"theme"          json:"theme"`
	Provider     string             `bson:"provider"       json:"-"` // "email" | "google"
	CreatedAt    time.Time          `bson:"created_at"     json:"-"`
	UpdatedAt    time.Time          `bson:"updated_at"     json:"-"`
}
