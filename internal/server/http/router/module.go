package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/storerating/internal/config"
	"github.com/polkiloo/storerating/internal/server/http/handlers"
	"github.com/polkiloo/storerating/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	newRouter,
	newLoginLimiter,
)

type routerParams struct {
	fx.In

	Facade  handlers.RatingFacade
	Limiter *middleware.LoginLimiter
	Config  *config.Config
	Logger  *slog.Logger
}

func newRouter(p routerParams) (*gin.Engine, error) {
	return Setup(p.Facade, p.Limiter, p.Logger, p.Config.TrustedProxies)
}

func newLoginLimiter(cfg *config.Config) *middleware.LoginLimiter {
	return middleware.NewLoginLimiter(cfg.LoginRate, cfg.LoginBurst)
}
