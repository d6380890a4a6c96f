package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/crm-service/internal/domain"
)

// CreateCustomer inserts and re-reads, so the caller gets the record exactly
// as persisted.
func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.CreatedAt = time.Now().UTC()
	id, err := insertOwned(ctx, s.colCustomers, c)
	if err != nil {
		return nil, err
	}
	return findOwned[domain.Customer](ctx, s.colCustomers, c.OwnerID, id)
}

func (s *Store) ListCustomers(ctx context.Context, owner primitive.ObjectID) ([]domain.Customer, error) {
	return listOwned[domain.Customer](ctx, s.colCustomers, owner, nil,
		bson.D{{Key: "created_at", Value: -1}})
}

func (s *Store) GetCustomer(ctx context.Context, owner, id primitive.ObjectID) (*domain.Customer, error) {
	return findOwned[domain.Customer](ctx, s.colCustomers, owner, id)
}

func (s *Store) PatchCustomer(ctx context.Context, owner, id primitive.ObjectID, set bson.M) (*domain.Customer, error) {
	return patchOwned[domain.Customer](ctx, s.colCustomers, owner, id, set)
}

func (s *Store) DeleteCustomer(ctx context.Context, owner, id primitive.ObjectID) error {
	return deleteOwned(ctx, s.colCustomers, owner, id)
}
