package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/storerating/internal/config"
	"github.com/polkiloo/storerating/internal/pkg/auth"
	testhelpers "github.com/polkiloo/storerating/internal/test"
	"github.com/polkiloo/storerating/internal/usecase"
	"github.com/polkiloo/storerating/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestPool() *worker.HashPool {
	return worker.NewHashPool(auth.NewBcryptHasher(bcrypt.MinCost), 1, 1, discardLogger())
}

func newTestAuth(hashes *atomic.Int32) *usecase.AuthUseCase {
	hasher := testhelpers.HasherStub{HashFn: func(p string) (string, error) {
		if hashes != nil {
			hashes.Add(1)
		}
		return "hash:" + p, nil
	}}
	return usecase.NewAuthUseCase(testhelpers.NewUserRepositoryStub(), hasher, testhelpers.StrategyStub{})
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
	if server.ReadHeaderTimeout == 0 {
		t.Fatal("expected read header timeout to be set")
	}
}

func TestNewHashPoolUsesConfig(t *testing.T) {
	pool := newHashPool(poolParams{
		Hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		Config: &config.Config{HashWorkers: 2, HashQueue: 8},
		Logger: discardLogger(),
	})
	if pool == nil {
		t.Fatal("expected hash pool instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	pool := newTestPool()
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}
	var decoyHashes atomic.Int32
	authUC := newTestAuth(&decoyHashes)

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Pool:       pool,
		Auth:       authUC,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	if _, err := pool.Hash(context.Background(), "pw"); err != nil {
		t.Fatalf("expected pool to run after start, got %v", err)
	}
	if decoyHashes.Load() != 1 {
		t.Fatalf("expected decoy hash to be prepared on start, got %d hashes", decoyHashes.Load())
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = recorder.Stop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}

	if _, err := pool.Hash(context.Background(), "pw"); !errors.Is(err, worker.ErrPoolStopped) {
		t.Fatalf("expected pool to be stopped, got %v", err)
	}
}

type brokenListener struct {
	net.Listener
}

func (l brokenListener) Accept() (net.Conn, error) {
	return nil, errors.New("accept failed")
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	inner, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	original := listen
	listen = func(string, string) (net.Listener, error) { return brokenListener{Listener: inner}, nil }
	t.Cleanup(func() {
		listen = original
		_ = inner.Close()
	})

	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		Pool:       newTestPool(),
		Auth:       newTestAuth(nil),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}
	if shutdowner.Calls() != 1 {
		t.Fatalf("expected a single shutdown request, got %d", shutdowner.Calls())
	}
	_ = recorder.Stop(context.Background())
}

func TestRegisterLifecycleFailsOnBadAddress(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	pool := newTestPool()
	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Pool:       pool,
		Auth:       newTestAuth(nil),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail for an unusable address")
	}
	if _, err := pool.Hash(context.Background(), "pw"); !errors.Is(err, worker.ErrPoolStopped) {
		t.Fatalf("expected pool to be released after failed start, got %v", err)
	}
}

func TestLifecycleRecorderRunsHooksInFxOrder(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var order []string
	for _, name := range []string{"pool", "server"} {
		name := name
		recorder.Append(fx.Hook{
			OnStart: func(context.Context) error { order = append(order, "start "+name); return nil },
			OnStop:  func(context.Context) error { order = append(order, "stop "+name); return nil },
		})
	}
	recorder.Append(fx.Hook{})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := recorder.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start pool", "start server", "stop server", "stop pool"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
