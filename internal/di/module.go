package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storerating/internal/app"
	"github.com/polkiloo/storerating/internal/config"
	"github.com/polkiloo/storerating/internal/logger"
	"github.com/polkiloo/storerating/internal/pkg/auth"
	"github.com/polkiloo/storerating/internal/server/http/handlers"
	"github.com/polkiloo/storerating/internal/server/http/router"
	"github.com/polkiloo/storerating/internal/storage/postgres"
	"github.com/polkiloo/storerating/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended
// last so tests can replace infrastructure.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.RatingFacade) handlers.RatingFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
