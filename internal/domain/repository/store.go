package repository

import (
	"context"

	"github.com/polkiloo/storerating/internal/domain/model"
)

// StoreRepository provides access to the stores catalogue.
type StoreRepository interface {
	List(ctx context.Context) ([]model.Store, error)
	Create(ctx context.Context, store model.Store) (*model.Store, error)
}
