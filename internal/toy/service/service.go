package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/karajelley/lab-toy-factory/internal/toy"
	"github.com/karajelley/lab-toy-factory/internal/toy/cache"
	"github.com/karajelley/lab-toy-factory/internal/toy/repository"
	"github.com/karajelley/lab-toy-factory/pkg/logger"
	"github.com/karajelley/lab-toy-factory/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateName and ErrNotFound are the repository's own sentinels, so
// store errors reach callers unwrapped.
var (
	ErrValidation    = errors.New("toy validation failed")
	ErrDuplicateName = repository.ErrDuplicateName
	ErrNotFound      = repository.ErrNotFound
)

// Service defines the toy operations used by the handler layer.
type Service interface {
	Create(ctx context.Context, in toy.CreateInput) (*toy.Toy, error)
	List(ctx context.Context) ([]*toy.Toy, error)
	Search(ctx context.Context, name string) ([]*toy.Toy, error)
	Update(ctx context.Context, id string, in toy.UpdateInput) (*toy.Toy, error)
	Backend() string
}

// Option configures a toyService.
type Option func(*toyService)

// WithCache enables the list cache. A nil cache is ignored.
func WithCache(c cache.ListCache) Option {
	return func(s *toyService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithClock overrides the time source used for the created default.
func WithClock(now func() time.Time) Option {
	return func(s *toyService) { s.now = now }
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return NewService(repository.NewMemoryRepo(), "memory", opts...)
}

// NewMongoService returns a Service backed by a MongoDB collection and makes
// sure the unique name index exists.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(ctx context.Context, col *mongo.Collection, timeout time.Duration, opts ...Option) (Service, error) {
	repo := repository.NewMongoRepo(col, timeout)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return NewService(repo, "mongo", opts...), nil
}

// NewService wraps any Repository. backend names it for readiness reporting.
func NewService(repo repository.Repository, backend string, opts ...Option) Service {
	s := &toyService{repo: repo, backend: backend, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type toyService struct {
	repo    repository.Repository
	cache   cache.ListCache
	backend string
	now     func() time.Time
}

func (s *toyService) Backend() string { return s.backend }

func (s *toyService) Create(ctx context.Context, in toy.CreateInput) (*toy.Toy, error) {
	if err := toy.ValidateCreate(in); err != nil {
		record("create", err)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	// stores keep millisecond precision
	t := toy.NewToy(in, s.now().UTC().Truncate(time.Millisecond))
	if err := s.repo.Create(ctx, t); err != nil {
		record("create", err)
		return nil, err
	}
	s.invalidate(ctx)
	record("create", nil)
	return t, nil
}

// List serves from the cache when it can. On a miss the store result is
// cached only if no write invalidated the cache while the store was read.
func (s *toyService) List(ctx context.Context) ([]*toy.Toy, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		toys, ok, err := s.cache.GetList(ctx)
		if err != nil {
			logger.Warnf("toy list cache read failed: %v", err)
		} else if ok {
			record("list", nil)
			return toys, nil
		}
		if gen, err = s.cache.Generation(ctx); err != nil {
			logger.Warnf("toy list cache generation read failed: %v", err)
		} else {
			cacheable = true
		}
	}
	toys, err := s.repo.List(ctx)
	if err != nil {
		record("list", err)
		return nil, fmt.Errorf("list toys: %w", err)
	}
	if cacheable {
		if err := s.cache.SetList(ctx, gen, toys); errors.Is(err, cache.ErrStale) {
			logger.Debugf("toy list changed during read, not cached")
		} else if err != nil {
			logger.Warnf("toy list cache write failed: %v", err)
		}
	}
	record("list", nil)
	return toys, nil
}

func (s *toyService) Search(ctx context.Context, name string) ([]*toy.Toy, error) {
	toys, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		record("search", err)
		return nil, fmt.Errorf("search toys: %w", err)
	}
	record("search", nil)
	return toys, nil
}

func (s *toyService) Update(ctx context.Context, id string, in toy.UpdateInput) (*toy.Toy, error) {
	if err := toy.ValidateUpdate(in); err != nil {
		record("update", err)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t, err := s.repo.Update(ctx, id, in)
	if err != nil {
		record("update", err)
		return nil, err
	}
	s.invalidate(ctx)
	record("update", nil)
	return t, nil
}

func (s *toyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warnf("toy list cache invalidate failed: %v", err)
	}
}

func record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrValidation):
		result = "invalid"
	case errors.Is(err, ErrDuplicateName):
		result = "duplicate"
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.ToyOperations.WithLabelValues(op, result).Inc()
}
