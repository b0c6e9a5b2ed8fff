package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/internal/common/repositories/memory"
	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/internal/pagination"
	"github.com/leonid6372/trades-pager/internal/store"
)

const testAccount = "acc"

var testOptions = Options{ItemsPerPage: 10, BatchSize: 30}

func newTestRepo(n int) *memory.TradesRepository {
	repo := memory.NewTradesRepository()
	repo.SetTrades(testAccount, memory.GenerateTrades(testAccount, n, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	return repo
}

func openSession(t *testing.T, repo domain.TradesRepository, opts Options) *Session {
	t.Helper()

	s := New("test", testAccount, repo, store.NewWindow(repo, testAccount), opts)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	return s
}

func mustPage(t *testing.T, s *Session) *Page {
	t.Helper()

	page, err := s.Page(context.Background())
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}

	return page
}

func TestSessionOpen(t *testing.T) {
	repo := newTestRepo(95)
	s := openSession(t, repo, testOptions)

	page := mustPage(t, s)

	want := Metadata{TotalItems: 95, TotalPages: 10, CurrentPage: 1, Limit: 10, BatchSize: 30, TotalLoaded: 30}
	if page.Pagination != want {
		t.Errorf("expected metadata %+v, got %+v", want, page.Pagination)
	}
	if len(page.Trades) != 10 || page.Trades[0].ID != 95 {
		t.Errorf("expected 10 newest trades, got %d starting at %d", len(page.Trades), page.Trades[0].ID)
	}
}

func TestSessionNavigate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(95)
	s := openSession(t, repo, testOptions)

	steps := []struct {
		target      int
		wantStatus  pagination.Status
		wantPage    int
		wantFirstID int64
		wantCalls   int
	}{
		{target: 3, wantStatus: pagination.StatusCommitted, wantPage: 3, wantFirstID: 75, wantCalls: 1},
		{target: 4, wantStatus: pagination.StatusLoaded, wantPage: 4, wantFirstID: 65, wantCalls: 2},
		{target: 1, wantStatus: pagination.StatusLoaded, wantPage: 1, wantFirstID: 95, wantCalls: 3},
		{target: 999, wantStatus: pagination.StatusLoaded, wantPage: 10, wantFirstID: 5, wantCalls: 4},
		{target: 10, wantStatus: pagination.StatusNoOp, wantPage: 10, wantFirstID: 5, wantCalls: 4},
	}
	for _, step := range steps {
		res, err := s.Navigate(ctx, step.target)
		if err != nil {
			t.Fatalf("Navigate(%d) error = %v", step.target, err)
		}
		if res.Status != step.wantStatus {
			t.Errorf("Navigate(%d): expected status %v, got %v", step.target, step.wantStatus, res.Status)
		}

		page := mustPage(t, s)
		if page.Pagination.CurrentPage != step.wantPage {
			t.Errorf("Navigate(%d): expected page %d, got %d", step.target, step.wantPage, page.Pagination.CurrentPage)
		}
		if len(page.Trades) == 0 || page.Trades[0].ID != step.wantFirstID {
			t.Errorf("Navigate(%d): expected first trade %d, got %v", step.target, step.wantFirstID, page.Trades)
		}
		if got := repo.RangeCalls(); got != step.wantCalls {
			t.Errorf("Navigate(%d): expected %d repository calls, got %d", step.target, step.wantCalls, got)
		}
	}

	if last := mustPage(t, s); len(last.Trades) != 5 {
		t.Errorf("expected 5 trades on the last page, got %d", len(last.Trades))
	}
}

func TestSessionNavigateFailureKeepsPage(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(95)
	s := openSession(t, repo, testOptions)

	repo.FailNext(errors.New("connection reset"))

	res, err := s.Navigate(ctx, 4)
	if !errors.Is(err, pagerrs.ErrLoadFailed) {
		t.Fatalf("expected load failure, got %v", err)
	}
	if res.Page != 1 || s.CurrentPage() != 1 {
		t.Errorf("expected page to stay 1, got %d", s.CurrentPage())
	}
	if mustPage(t, s).Pagination.Loading {
		t.Error("expected loading flag to be cleared")
	}

	if _, err := s.Navigate(ctx, 4); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if s.CurrentPage() != 4 {
		t.Errorf("expected page 4 after retry, got %d", s.CurrentPage())
	}
}

// blockingRepo never answers range queries before the context is done.
type blockingRepo struct {
	*memory.TradesRepository
	block bool
}

func (r *blockingRepo) GetTradesRange(ctx context.Context, account string, offset, limit int64) ([]*domain.Trade, error) {
	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	return r.TradesRepository.GetTradesRange(ctx, account, offset, limit)
}

func TestSessionLoadTimeout(t *testing.T) {
	repo := &blockingRepo{TradesRepository: newTestRepo(95)}

	opts := testOptions
	opts.LoadTimeout = 20 * time.Millisecond

	s := openSession(t, repo, opts)
	repo.block = true

	_, err := s.Navigate(context.Background(), 4)
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, pagerrs.ErrLoadFailed) {
		t.Fatalf("expected deadline exceeded load failure, got %v", err)
	}
	if s.CurrentPage() != 1 {
		t.Errorf("expected page to stay 1, got %d", s.CurrentPage())
	}
}

func TestSessionEmptyAccount(t *testing.T) {
	repo := newTestRepo(0)
	s := openSession(t, repo, testOptions)

	res, err := s.Navigate(context.Background(), 2)
	if err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if res.NoOpReason != pagination.NoOpNoPages {
		t.Errorf("expected no pages no-op, got %v", res.NoOpReason)
	}

	page := mustPage(t, s)
	if page.Pagination.TotalPages != 0 || len(page.Trades) != 0 {
		t.Errorf("expected empty page, got %+v", page.Pagination)
	}
	if repo.RangeCalls() != 0 {
		t.Errorf("expected no repository calls, got %d", repo.RangeCalls())
	}
}

func TestSessionRefresh(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(95)
	s := openSession(t, repo, testOptions)

	if _, err := s.Navigate(ctx, 10); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	repo.SetTrades(testAccount, memory.GenerateTrades(testAccount, 35, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := mustPage(t, s)
	if page.Pagination.TotalItems != 35 || page.Pagination.CurrentPage != 4 {
		t.Errorf("expected page 4 of 35 items, got %+v", page.Pagination)
	}
	if len(page.Trades) != 5 || page.Trades[0].ID != 5 {
		t.Errorf("expected trades 5..1 on the last page, got %d trades", len(page.Trades))
	}
}

func TestSessionDefaultBatchSize(t *testing.T) {
	repo := newTestRepo(95)
	s := openSession(t, repo, Options{ItemsPerPage: 10})

	page := mustPage(t, s)
	if page.Pagination.BatchSize != 10 || page.Pagination.TotalLoaded != 10 {
		t.Errorf("expected one page per batch, got %+v", page.Pagination)
	}
}

// gatedStore parks the first Load after it is armed until release is closed.
type gatedStore struct {
	*store.Window

	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) Load(ctx context.Context, offset, length int) error {
	if s.armed.CompareAndSwap(true, false) {
		close(s.entered)
		<-s.release
	}

	return s.Window.Load(ctx, offset, length)
}

func TestSessionRefreshDuringNavigation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(95)

	gs := &gatedStore{
		Window:  store.NewWindow(repo, testAccount),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	s := New("test", testAccount, repo, gs, testOptions)
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	gs.armed.Store(true)

	done := make(chan error, 1)
	go func() {
		_, err := s.Navigate(ctx, 10)
		done <- err
	}()

	<-gs.entered

	repo.SetTrades(testAccount, memory.GenerateTrades(testAccount, 15, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	if err := s.Refresh(ctx); !errors.Is(err, pagerrs.ErrBusy) {
		t.Fatalf("expected busy refresh while a page loads, got %v", err)
	}

	close(gs.release)

	if err := <-done; err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	page := mustPage(t, s)
	if page.Pagination.CurrentPage != 2 || page.Pagination.TotalPages != 2 || len(page.Trades) != 5 {
		t.Errorf("expected page 2 of 2 with 5 trades, got %+v with %d trades", page.Pagination, len(page.Trades))
	}
	if page.Pagination.CurrentPage > page.Pagination.TotalPages {
		t.Errorf("current page %d is past the last page %d", page.Pagination.CurrentPage, page.Pagination.TotalPages)
	}
}

func TestSessionCommitAfterShrinkIsClamped(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(95)
	s := openSession(t, repo, testOptions)

	repo.SetTrades(testAccount, memory.GenerateTrades(testAccount, 15, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// a navigation that took its snapshot before the refresh commits its old target
	s.setCurrentPage(10)

	if s.CurrentPage() != 2 {
		t.Errorf("expected stale commit to land on page 2, got %d", s.CurrentPage())
	}
}
