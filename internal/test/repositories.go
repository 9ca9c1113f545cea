package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	Users   map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
	Lookups int
	Writes  int
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Seed inserts user directly, assigning the next identifier.
func (s *UserRepositoryStub) Seed(user model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(user)
}

func (s *UserRepositoryStub) insert(user model.User) *model.User {
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	stored := user
	s.Users[user.Email] = &stored
	s.ByID[user.ID] = &stored
	return &stored
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	return s.insert(user), nil
}

// GetByEmail fetches user by exact email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StoreRepositoryStub allows tests to customize behaviour.
type StoreRepositoryStub struct {
	ListFn   func(context.Context) ([]model.Store, error)
	CreateFn func(context.Context, model.Store) (*model.Store, error)
	Created  []model.Store
}

// List delegates to override or returns no stores.
func (s *StoreRepositoryStub) List(ctx context.Context) ([]model.Store, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return append([]model.Store(nil), s.Created...), nil
}

// Create records the store and assigns sequential identifiers.
func (s *StoreRepositoryStub) Create(ctx context.Context, store model.Store) (*model.Store, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, store)
	}
	store.ID = int64(len(s.Created) + 1)
	s.Created = append(s.Created, store)
	return &store, nil
}
