package test

import (
	"context"

	"github.com/polkiloo/storerating/internal/domain/model"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	LoginFn    func(context.Context, string, string) (*model.Session, error)
	RegisterFn func(context.Context, model.Registration) error
	ParseFn    func(string) (*model.Claims, error)
	ProfileFn  func(context.Context, int64) (*model.UserView, error)
}

// Login returns a session for successful authentication scenarios.
func (s AuthFacadeStub) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return &model.Session{Token: "token", User: model.UserView{Name: "Ann", Email: email, Role: model.RoleUser}}, nil
}

// Register succeeds unless overridden.
func (s AuthFacadeStub) Register(ctx context.Context, in model.Registration) error {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return nil
}

// ParseToken returns claims for an authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (*model.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &model.Claims{UserID: 1, Email: "a@b.com", Name: "Ann", Role: model.RoleUser}, nil
}

// Profile returns the redacted view of the user.
func (s AuthFacadeStub) Profile(ctx context.Context, id int64) (*model.UserView, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, id)
	}
	return &model.UserView{Name: "Ann", Email: "a@b.com", Role: model.RoleUser}, nil
}

// StoreFacadeStub provides controllable behaviour for store endpoints.
type StoreFacadeStub struct {
	StoresFn      func(context.Context) ([]model.Store, error)
	CreateStoreFn func(context.Context, model.StoreDraft) (*model.Store, error)
}

// Stores returns predefined stores.
func (s StoreFacadeStub) Stores(ctx context.Context) ([]model.Store, error) {
	if s.StoresFn != nil {
		return s.StoresFn(ctx)
	}
	return []model.Store{{ID: 1, Name: "Corner", Address: "1 Main st", Rating: 4, UserRating: 3}}, nil
}

// CreateStore echoes the draft back with an identifier.
func (s StoreFacadeStub) CreateStore(ctx context.Context, draft model.StoreDraft) (*model.Store, error) {
	if s.CreateStoreFn != nil {
		return s.CreateStoreFn(ctx, draft)
	}
	store := &model.Store{ID: 7, Name: draft.Name, Address: draft.Address}
	if draft.Rating != nil {
		store.Rating = *draft.Rating
	}
	if draft.UserRating != nil {
		store.UserRating = *draft.UserRating
	}
	return store, nil
}

// HealthFacadeStub reports configured health.
type HealthFacadeStub struct {
	Err error
}

// Health returns the configured error.
func (s HealthFacadeStub) Health(ctx context.Context) error {
	return s.Err
}

// RatingFacadeStub aggregates facade dependencies for HTTP layer tests.
type RatingFacadeStub struct {
	AuthFacadeStub
	StoreFacadeStub
	HealthFacadeStub
}
