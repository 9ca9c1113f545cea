package handlers

import (
	"context"

	"github.com/polkiloo/storerating/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Register(ctx context.Context, in model.Registration) error
	ParseToken(token string) (*model.Claims, error)
	Profile(ctx context.Context, userID int64) (*model.UserView, error)
}

// StoreFacade encapsulates store catalogue operations exposed via HTTP.
type StoreFacade interface {
	Stores(ctx context.Context) ([]model.Store, error)
	CreateStore(ctx context.Context, draft model.StoreDraft) (*model.Store, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// RatingFacade aggregates the full set of operations used across handlers.
type RatingFacade interface {
	AuthFacade
	StoreFacade
	HealthFacade
}
