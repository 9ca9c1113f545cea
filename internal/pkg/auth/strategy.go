package auth

import (
	"time"

	"github.com/polkiloo/storerating/internal/domain/model"
)

// Strategy issues and verifies session tokens.
type Strategy interface {
	IssueToken(claims model.Claims) (string, time.Time, error)
	ParseToken(token string) (*model.Claims, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
	// Now overrides the clock, tests only.
	Now func() time.Time
}
