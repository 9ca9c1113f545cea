package test

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/storerating/internal/domain/model"
	pkgAuth "github.com/polkiloo/storerating/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
	Compares  *atomic.Int32
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(ctx context.Context, password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(ctx context.Context, hash string, password string) error {
	if h.Compares != nil {
		h.Compares.Add(1)
	}
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(model.Claims) (string, time.Time, error)
	ParseFn func(string) (*model.Claims, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(claims model.Claims) (string, time.Time, error) {
	if s.IssueFn != nil {
		return s.IssueFn(claims)
	}
	return "token", time.Now().Add(time.Hour), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (*model.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &model.Claims{UserID: 1, Role: model.RoleUser}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Claims  *model.Claims
	Err     error
	ParseFn func(string) (*model.Claims, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (*model.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Claims == nil {
		return &model.Claims{UserID: 1, Role: model.RoleUser}, nil
	}
	return s.Claims, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
