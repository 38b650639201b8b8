// Package pagination keeps page/total/items state for a paginated list endpoint.
package pagination

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-portal-client/api"
	"github.com/rs/zerolog"
)

const DefaultPageSize = 10

// FetchFunc loads one page (1-based).
type FetchFunc[T any] func(ctx context.Context, page int) (*api.Page[T], error)

type options struct {
	pageSize int
	logger   zerolog.Logger
}

type Option func(*options)

func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Loader wraps a FetchFunc. When fetches overlap, only the most recently started
// one may update the state; older responses are dropped.
type Loader[T any] struct {
	fetch    FetchFunc[T]
	pageSize int
	logger   zerolog.Logger

	mu       sync.RWMutex
	items    []T
	total    int
	page     int
	seq      uint64
	inflight int
}

func NewLoader[T any](fetch FetchFunc[T], opts ...Option) *Loader[T] {
	o := options{pageSize: DefaultPageSize, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader[T]{
		fetch:    fetch,
		pageSize: o.pageSize,
		logger:   o.logger,
		items:    []T{},
		page:     1,
	}
}

// Fetch loads page (values below 1 mean 1). On success items, total and page are
// replaced; on error items are cleared and total/page are left alone. Errors are
// only logged.
func (l *Loader[T]) Fetch(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.inflight++
	l.mu.Unlock()

	res, err := l.fetch(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--

	if seq != l.seq {
		l.logger.Debug().Int("page", page).Msg("dropping superseded page response")
		return
	}
	if err != nil {
		l.logger.Debug().Err(err).Int("page", page).Msg("page fetch failed")
		l.items = []T{}
		return
	}

	l.items = res.Items
	if l.items == nil {
		l.items = []T{}
	}
	l.total = res.Total
	l.page = res.Page
	if l.page < 1 {
		l.page = page
	}
}

// Reset moves back to the first page and fetches it.
func (l *Loader[T]) Reset(ctx context.Context) {
	l.mu.Lock()
	l.page = 1
	l.mu.Unlock()
	l.Fetch(ctx, 1)
}

// Items returns a copy of the current page's items.
func (l *Loader[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T{}, l.items...)
}

func (l *Loader[T]) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

func (l *Loader[T]) Page() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

func (l *Loader[T]) PageSize() int {
	return l.pageSize
}

// TotalPages is the number of pages needed for Total items at PageSize.
func (l *Loader[T]) TotalPages() int {
	total := l.Total()
	if total == 0 {
		return 0
	}
	return (total + l.pageSize - 1) / l.pageSize
}

// Loading reports whether any fetch is in flight.
func (l *Loader[T]) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.inflight > 0
}
