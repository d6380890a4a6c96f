package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned uniformly for "does not exist" and "belongs to
// someone else"; callers must not be able to tell the two apart.
var ErrNotFound = errors.New("not found")

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database

	colUsers        *mongo.Collection
	colCustomers    *mongo.Collection
	colInteractions *mongo.Collection
	colSchedules    *mongo.Collection
	colCoursePlans  *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:          cli,
		DB:              db,
		colUsers:        db.Collection("users"),
		colCustomers:    db.Collection("customers"),
		colInteractions: db.Collection("interactions"),
		colSchedules:    db.Collection("schedules"),
		colCoursePlans:  db.Collection("coursePlans"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	// users: email uniqueness backs the DuplicateEmail check against races
	if _, err := s.colUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}); err != nil {
		return err
	}

	ownerIdx := func(coll *mongo.Collection, sortKey string, desc bool) error {
		dir := 1
		if desc {
			dir = -1
		}
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: sortKey, Value: dir}},
			Options: options.Index().SetName("owner_" + sortKey),
		})
		return err
	}
	if err := ownerIdx(s.colCustomers, "created_at", true); err != nil {
		return err
	}
	if err := ownerIdx(s.colInteractions, "date", true); err != nil {
		return err
	}
	if err := ownerIdx(s.colSchedules, "date", false); err != nil {
		return err
	}
	return ownerIdx(s.colCoursePlans, "created_at", true)
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce *mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
