package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/domain/repository"
)

// StoreUseCase manages the store catalogue.
type StoreUseCase struct {
	stores repository.StoreRepository
}

// NewStoreUseCase constructs StoreUseCase.
func NewStoreUseCase(stores repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{stores: stores}
}

// List returns every store.
func (u *StoreUseCase) List(ctx context.Context) ([]model.Store, error) {
	stores, err := u.stores.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrStoreUnavailable, err)
	}
	return stores, nil
}

// Create validates the draft and persists a new store.
func (u *StoreUseCase) Create(ctx context.Context, draft model.StoreDraft) (*model.Store, error) {
	if err := ValidateStoreDraft(&draft); err != nil {
		return nil, err
	}

	store, err := u.stores.Create(ctx, model.Store{
		Name:       draft.Name,
		Address:    draft.Address,
		Rating:     *draft.Rating,
		UserRating: *draft.UserRating,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrStoreUnavailable, err)
	}
	return store, nil
}
