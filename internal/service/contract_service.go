package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-panel/internal/cache"
	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/model"
	"github.com/nurpe/contracts-panel/internal/table"
)

const ckCount = "count"

type ContractStore interface {
	ListPage(ctx context.Context, page, size int) ([]model.Contract, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (*model.Contract, error)
}

type ReportGenerator interface {
	Generate(report model.TableReport) ([]byte, error)
}

type ContractService struct {
	store       ContractStore
	checker     table.Annotator
	excel       ReportGenerator
	pdf         ReportGenerator
	cache       cache.PageCache
	group       singleflight.Group
	pageSize    int
	maxPageSize int
	log         zerolog.Logger
	now         func() time.Time
}

type Option func(*ContractService)

// WithPageCache replaces the in-process page cache, e.g. with a shared one.
func WithPageCache(c cache.PageCache) Option {
	return func(s *ContractService) {
		s.cache = c
	}
}

func NewContractService(
	store ContractStore,
	checker table.Annotator,
	excel ReportGenerator,
	pdf ReportGenerator,
	cfg *config.Config,
	log zerolog.Logger,
	opts ...Option,
) *ContractService {
	s := &ContractService{
		store:       store,
		checker:     checker,
		excel:       excel,
		pdf:         pdf,
		cache:       cache.NewMemory(cfg.Table.CacheTTL),
		pageSize:    cfg.Table.PageSize,
		maxPageSize: cfg.Table.MaxPageSize,
		log:         log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPage serves table.Loader for in-process views. Identical concurrent
// page loads share one query, and results are cached for the configured TTL.
// Store errors are returned as is.
func (s *ContractService) LoadPage(ctx context.Context, page, size int) ([]model.Contract, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("%w: page and size must be positive", ErrInvalidInput)
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	if page > table.MaxPage {
		return []model.Contract{}, nil
	}

	if cached, ok := s.cache.GetPage(ctx, page, size); ok {
		return cached, nil
	}

	// Joined callers share this query; one of them going away must not cancel it.
	shared := context.WithoutCancel(ctx)
	key := fmt.Sprintf("page_%d_size_%d", page, size)
	v, err, joined := s.group.Do(key, func() (interface{}, error) {
		contracts, err := s.store.ListPage(shared, page, size)
		if err != nil {
			return nil, err
		}
		s.cache.SetPage(shared, page, size, contracts)
		return contracts, nil
	})
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Int("size", size).Msg("list contracts failed")
		return nil, err
	}
	s.log.Debug().Int("page", page).Int("size", size).Bool("shared", joined).Msg("contracts page loaded")
	return v.([]model.Contract), nil
}

// ListPage is the JSON page served by the API.
func (s *ContractService) ListPage(ctx context.Context, page, size int) (*model.ContractPage, error) {
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	contracts, err := s.LoadPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	total, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ContractPage{Page: page, Size: size, Total: total, Data: contracts}, nil
}

// Get returns one contract with its consistency annotation.
func (s *ContractService) Get(ctx context.Context, id int64) (*model.CheckedContract, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	contract, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	checked := s.checker.Annotate([]model.Contract{*contract})
	return &checked[0], nil
}

func (s *ContractService) count(ctx context.Context) (int64, error) {
	if cached, ok := s.cache.GetCount(ctx); ok {
		return cached, nil
	}
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(ckCount, func() (interface{}, error) {
		total, err := s.store.Count(shared)
		if err != nil {
			return nil, err
		}
		s.cache.SetCount(shared, total)
		return total, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// DefaultPageSize is the size a fresh table starts with.
func (s *ContractService) DefaultPageSize() int {
	return s.pageSize
}
