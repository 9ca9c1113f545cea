package app

import (
	"context"

	"github.com/polkiloo/storerating/internal/domain/model"
	"github.com/polkiloo/storerating/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RatingFacade is the single entry point the transport layer talks to.
type RatingFacade struct {
	auth   *usecase.AuthUseCase
	stores *usecase.StoreUseCase
	health HealthChecker
}

func NewRatingFacade(auth *usecase.AuthUseCase, stores *usecase.StoreUseCase, health HealthChecker) *RatingFacade {
	return &RatingFacade{auth: auth, stores: stores, health: health}
}

func (f *RatingFacade) Login(ctx context.Context, email, password string) (*model.Session, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *RatingFacade) Register(ctx context.Context, in model.Registration) error {
	_, err := f.auth.Register(ctx, in)
	return err
}

func (f *RatingFacade) ParseToken(token string) (*model.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *RatingFacade) Profile(ctx context.Context, userID int64) (*model.UserView, error) {
	usr, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := usr.View()
	return &view, nil
}

func (f *RatingFacade) Stores(ctx context.Context) ([]model.Store, error) {
	return f.stores.List(ctx)
}

func (f *RatingFacade) CreateStore(ctx context.Context, draft model.StoreDraft) (*model.Store, error) {
	return f.stores.Create(ctx, draft)
}

func (f *RatingFacade) Health(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
