package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/storerating/internal/config"
	"github.com/polkiloo/storerating/internal/pkg/auth"
	"github.com/polkiloo/storerating/internal/usecase"
	"github.com/polkiloo/storerating/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewRatingFacade,
		newHTTPServer,
		newHashPool,
		func(p *worker.HashPool) auth.PasswordHasher { return p },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = time.Minute
)

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

type poolParams struct {
	fx.In

	Hasher *auth.BcryptHasher
	Config *config.Config
	Logger *slog.Logger
}

func newHashPool(p poolParams) *worker.HashPool {
	return worker.NewHashPool(p.Hasher, p.Config.HashWorkers, p.Config.HashQueue, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Pool       *worker.HashPool
	Auth       *usecase.AuthUseCase
	Config     *config.Config
}

var listen = net.Listen

// registerLifecycle binds the listener synchronously so a bad address fails
// startup, then serves in the background. A serve error asks fx to shut down.
func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Pool.Start()
			if err := p.Auth.PrepareDecoy(ctx); err != nil {
				p.Logger.Warn("decoy hash not prepared, retrying on first unknown email", slog.String("error", err.Error()))
			}
			ln, err := listen("tcp", p.Server.Addr)
			if err != nil {
				p.Pool.Stop()
				return fmt.Errorf("listen on %s: %w", p.Server.Addr, err)
			}
			p.Logger.Info("storerating listening",
				slog.String("addr", ln.Addr().String()),
				slog.Int("hash_workers", p.Config.HashWorkers),
			)
			go func() {
				if err := p.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			// drain in-flight requests before the pool stops accepting hash jobs
			err := p.Server.Shutdown(shutdownCtx)
			p.Pool.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			p.Logger.Info("storerating stopped")
			return nil
		},
	})
}
