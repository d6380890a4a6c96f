package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/crm-service/internal/domain"
)

func (s *Store) CreateInteraction(ctx context.Context, in *domain.Interaction) (*domain.Interaction, error) {
	in.CreatedAt = time.Now().UTC()
	id, err := insertOwned(ctx, s.colInteractions, in)
	if err != nil {
		return nil, err
	}
	return findOwned[domain.Interaction](ctx, s.colInteractions, in.OwnerID, id)
}

// ListInteractions orders newest-first by the interaction date, which
// defaults to creation time when the client sends none.
func (s *Store) ListInteractions(ctx context.Context, owner primitive.ObjectID, customerID string) ([]domain.Interaction, error) {
	extra := bson.M{}
	if customerID != "" {
		extra["customer_id"] = customerID
	}
	return listOwned[domain.Interaction](ctx, s.colInteractions, owner, extra,
		bson.D{{Key: "date", Value: -1}})
}

func (s *Store) GetInteraction(ctx context.Context, owner, id primitive.ObjectID) (*domain.Interaction, error) {
	return findOwned[domain.Interaction](ctx, s.colInteractions, owner, id)
}

func (s *Store) DeleteInteraction(ctx context.Context, owner, id primitive.ObjectID) error {
	return deleteOwned(ctx, s.colInteractions, owner, id)
}
