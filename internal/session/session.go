package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/internal/pagination"
	"github.com/leonid6372/trades-pager/internal/store"
	"github.com/leonid6372/trades-pager/pkg/errs"
	"github.com/leonid6372/trades-pager/pkg/log"
	"go.uber.org/zap"
)

type Options struct {
	ItemsPerPage int
	// BatchSize of 0 means one page per fetch.
	BatchSize   int
	LoadTimeout time.Duration
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}

	return o.ItemsPerPage
}

type Metadata struct {
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Limit       int  `json:"limit"`
	BatchSize   int  `json:"batchSize"`
	TotalLoaded int  `json:"totalLoaded"`
	Loading     bool `json:"loading"`
}

type Page struct {
	Trades     []*domain.Trade `json:"trades"`
	Pagination Metadata        `json:"pagination"`
}

// Session is the paginated trade history of one account as seen by one viewer. It is the only
// writer of its pagination state: the store changes only through the coordinator's loader and the
// current page only through its commit callback.
type Session struct {
	ID      string
	Account string

	opts        Options
	repo        domain.TradesRepository
	store       store.Store
	coordinator *pagination.Coordinator

	mu          sync.RWMutex
	currentPage int
	totalItems  int
}

func New(id, account string, repo domain.TradesRepository, st store.Store, opts Options) *Session {
	s := &Session{
		ID:          id,
		Account:     account,
		opts:        opts,
		repo:        repo,
		store:       st,
		currentPage: 1,
	}

	s.coordinator = pagination.NewCoordinator(pagination.LoaderFunc(s.loadMore), s.setCurrentPage)

	return s
}

// Open counts the account's trades and loads the first batch.
func (s *Session) Open(ctx context.Context) error {
	count, err := s.repo.GetTradesCount(ctx, s.Account)
	if err != nil {
		return fmt.Errorf("failed to count trades: %w", err)
	}

	s.mu.Lock()
	s.totalItems = int(count)
	s.currentPage = 1
	s.mu.Unlock()

	if count == 0 {
		return nil
	}

	if err := s.loadMore(ctx, 0, s.opts.batchSize()); err != nil {
		return fmt.Errorf("failed to load first batch: %w", err)
	}

	return nil
}

// Navigate moves the session to page, fetching rows first when needed. On a load failure the
// current page is kept and the error is returned.
func (s *Session) Navigate(ctx context.Context, page int) (pagination.Result, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return pagination.Result{Page: st.CurrentPage}, err
	}

	res, err := s.coordinator.RequestPage(ctx, st, page)
	if err != nil {
		log.Warn("session navigation failed",
			zap.String("session_id", s.ID),
			zap.String("navigation_id", res.NavigationID),
			zap.Error(err),
		)

		return res, err
	}

	return res, nil
}

// Page returns the trades of the current page from the store.
func (s *Session) Page(ctx context.Context) (*Page, error) {
	st, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Trades: []*domain.Trade{},
		Pagination: Metadata{
			TotalItems:  st.TotalItems,
			TotalPages:  st.TotalPages(),
			CurrentPage: st.CurrentPage,
			Limit:       st.ItemsPerPage,
			BatchSize:   st.EffectiveBatchSize(),
			TotalLoaded: st.TotalLoaded,
			Loading:     st.IsLoading,
		},
	}

	if st.TotalItems == 0 {
		return page, nil
	}

	trades, err := s.store.Rows(ctx, pagination.PageOffset(st.CurrentPage, st.ItemsPerPage), st.ItemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to read page rows: %w", err)
	}
	page.Trades = trades

	return page, nil
}

// Refresh re-queries the trade count after an upstream change, drops the loaded rows, keeps the
// current page within range and reloads its batch. It returns pagerrs.ErrBusy while a page load
// is in flight; navigations requested during a refresh are dropped as busy.
func (s *Session) Refresh(ctx context.Context) error {
	ok, err := s.coordinator.Exclusive(func() error {
		return s.refresh(ctx)
	})
	if !ok {
		return pagerrs.ErrBusy
	}

	return err
}

func (s *Session) refresh(ctx context.Context) error {
	count, err := s.repo.GetTradesCount(ctx, s.Account)
	if err != nil {
		return fmt.Errorf("failed to count trades: %w", err)
	}

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}

	s.mu.Lock()
	s.totalItems = int(count)
	s.currentPage = min(s.currentPage, max(pagination.TotalPages(s.totalItems, s.opts.ItemsPerPage), 1))
	current := s.currentPage
	s.mu.Unlock()

	if count == 0 {
		return nil
	}

	batchSize := s.opts.batchSize()
	batch := pagination.BatchIndexOf(pagination.PageOffset(current, s.opts.ItemsPerPage), batchSize)

	if err := s.loadMore(ctx, pagination.BatchStartOf(batch, batchSize), batchSize); err != nil {
		return fmt.Errorf("failed to reload batch: %w", err)
	}

	log.Debug("session refreshed",
		zap.String("session_id", s.ID),
		zap.Int("total_items", int(count)),
		zap.Int("current_page", current),
	)

	return nil
}

func (s *Session) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentPage
}

func (s *Session) close(ctx context.Context) error {
	return s.store.Reset(ctx)
}

func (s *Session) snapshot(ctx context.Context) (pagination.State, error) {
	loaded, err := s.store.TotalLoaded(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := pagination.State{
		CurrentPage:  s.currentPage,
		TotalItems:   s.totalItems,
		ItemsPerPage: s.opts.ItemsPerPage,
		BatchSize:    s.opts.BatchSize,
		TotalLoaded:  loaded,
		IsLoading:    s.coordinator.IsLoading(),
	}
	if err != nil {
		return st, errs.NewStack(fmt.Errorf("failed to get loaded rows count: %w", err))
	}

	return st, nil
}

func (s *Session) loadMore(ctx context.Context, offset, length int) error {
	if s.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
		defer cancel()
	}

	return s.store.Load(ctx, offset, length)
}

// setCurrentPage commits a navigation. The page is clamped again because a refresh may have
// shrunk the list after the navigation took its snapshot.
func (s *Session) setCurrentPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentPage = min(page, max(pagination.TotalPages(s.totalItems, s.opts.ItemsPerPage), 1))
}
