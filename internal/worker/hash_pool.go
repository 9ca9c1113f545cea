package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/storerating/internal/pkg/auth"
)

// ErrPoolStopped is returned for jobs submitted to a pool that is not running.
var ErrPoolStopped = errors.New("hash pool stopped")

type hashJob struct {
	ctx    context.Context
	run    func(ctx context.Context) error
	result chan error
}

// HashPool runs bcrypt work on a fixed number of goroutines so that
// concurrent logins cannot saturate the CPU. It implements auth.PasswordHasher.
type HashPool struct {
	hasher  auth.PasswordHasher
	workers int
	logger  *slog.Logger

	jobs    chan hashJob
	stopped chan struct{}
	running atomic.Bool
	once    sync.Once
	wg      sync.WaitGroup
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// NewHashPool constructs a pool with the given number of workers and queue size.
func NewHashPool(hasher auth.PasswordHasher, workers, queue int, logger *slog.Logger) *HashPool {
	if workers <= 0 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}
	return &HashPool{
		hasher:  hasher,
		workers: workers,
		logger:  logger,
		jobs:    make(chan hashJob, queue),
		stopped: make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (p *HashPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}
	p.running.Store(true)
}

// Stop rejects new jobs and waits for running ones to return.
func (p *HashPool) Stop() {
	p.running.Store(false)
	p.once.Do(func() { close(p.stopped) })

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Hash hashes password on a pool worker.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	var hash string
	err := p.submit(ctx, func(ctx context.Context) error {
		h, err := p.hasher.Hash(ctx, password)
		hash = h
		return err
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Compare checks password against hash on a pool worker.
func (p *HashPool) Compare(ctx context.Context, hash, password string) error {
	return p.submit(ctx, func(ctx context.Context) error {
		return p.hasher.Compare(ctx, hash, password)
	})
}

func (p *HashPool) submit(ctx context.Context, run func(ctx context.Context) error) error {
	if !p.running.Load() {
		return ErrPoolStopped
	}

	job := hashJob{ctx: ctx, run: run, result: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	case p.jobs <- job:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-job.result:
		return err
	case <-p.stopped:
		return ErrPoolStopped
	}
}

func (p *HashPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.handle(job)
		}
	}
}

func (p *HashPool) handle(job hashJob) {
	// the submitter may already be gone; skip work nobody waits for
	if err := job.ctx.Err(); err != nil {
		job.result <- err
		return
	}
	err := job.run(job.ctx)
	if err != nil && p.logger != nil && job.ctx.Err() == nil && !isMismatch(err) {
		p.logger.Debug("hash job failed", slog.String("error", err.Error()))
	}
	job.result <- err
}

func isMismatch(err error) bool {
	return errors.Is(err, bcrypt.ErrMismatchedHashAndPassword)
}
