package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/crm-service/internal/domain"
)

func (s *Store) CreateCoursePlan(ctx context.Context, cp *domain.CoursePlan) (*domain.CoursePlan, error) {
	cp.CreatedAt = time.Now().UTC()
	id, err := insertOwned(ctx, s.colCoursePlans, cp)
	if err != nil {
		return nil, err
	}
	return findOwned[domain.CoursePlan](ctx, s.colCoursePlans, cp.OwnerID, id)
}

func (s *Store) ListCoursePlans(ctx context.Context, owner primitive.ObjectID, customerID string) ([]domain.CoursePlan, error) {
	extra := bson.M{}
	if customerID != "" {
		extra["customer_id"] = customerID
	}
	return listOwned[domain.CoursePlan](ctx, s.colCoursePlans, owner, extra,
		bson.D{{Key: "created_at", Value: -1}})
}

func (s *Store) GetCoursePlan(ctx context.Context, owner, id primitive.ObjectID) (*domain.CoursePlan, error) {
	return findOwned[domain.CoursePlan](ctx, s.colCoursePlans, owner, id)
}

func (s *Store) DeleteCoursePlan(ctx context.Context, owner, id primitive.ObjectID) error {
	return deleteOwned(ctx, s.colCoursePlans, owner, id)
}
