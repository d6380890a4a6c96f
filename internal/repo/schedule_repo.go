package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/crm-service/internal/domain"
)

func (s *Store) CreateSchedule(ctx context.Context, sc *domain.Schedule) (*domain.Schedule, error) {
	sc.CreatedAt = time.Now().UTC()
	id, err := insertOwned(ctx, s.colSchedules, sc)
	if err != nil {
		return nil, err
	}
	return findOwned[domain.Schedule](ctx, s.colSchedules, sc.OwnerID, id)
}

// ListSchedules orders by date then time ascending. Both are ISO strings, so
// the lexicographic sort matches chronological order; entries without a time
// sort before timed ones on the same day.
func (s *Store) ListSchedules(ctx context.Context, owner primitive.ObjectID, customerID string) ([]domain.Schedule, error) {
	extra := bson.M{}
	if customerID != "" {
		extra["customer_id"] = customerID
	}
	return listOwned[domain.Schedule](ctx, s.colSchedules, owner, extra,
		bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
}

func (s *Store) GetSchedule(ctx context.Context, owner, id primitive.ObjectID) (*domain.Schedule, error) {
	return findOwned[domain.Schedule](ctx, s.colSchedules, owner, id)
}

func (s *Store) PatchSchedule(ctx context.Context, owner, id primitive.ObjectID, set bson.M) (*domain.Schedule, error) {
	return patchOwned[domain.Schedule](ctx, s.colSchedules, owner, id, set)
}

func (s *Store) DeleteSchedule(ctx context.Context, owner, id primitive.ObjectID) error {
	return deleteOwned(ctx, s.colSchedules, owner, id)
}
