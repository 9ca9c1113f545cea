package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storerating/internal/config"
)

// Module provides authentication primitives via fx.
// The hasher is exposed as a concrete type; the hashing pool decorates it as PasswordHasher.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

type hasherParams struct {
	fx.In

	Config *config.Config
}

func newPasswordHasher(p hasherParams) *BcryptHasher {
	return NewBcryptHasher(p.Config.BcryptCost)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.JWTSecret, Options{})
}
