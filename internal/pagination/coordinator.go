package pagination

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/pkg/log"
	"go.uber.org/zap"
)

// Loader refills the external store. On success the store holds at least offset+length
// contiguous rows from offset 0 (or every remaining row) and reports the new count through the
// next State snapshot. On failure the store must be left as it was.
type Loader interface {
	LoadMore(ctx context.Context, offset, length int) error
}

type LoaderFunc func(ctx context.Context, offset, length int) error

func (f LoaderFunc) LoadMore(ctx context.Context, offset, length int) error {
	return f(ctx, offset, length)
}

// PageChangeFunc commits the new current page to the caller's state.
type PageChangeFunc func(page int)

type Status int

const (
	StatusNoOp Status = iota
	StatusCommitted
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusNoOp:
		return "noop"
	case StatusCommitted:
		return "committed"
	case StatusLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

type NoOpReason int

const (
	NoOpNone NoOpReason = iota
	NoOpSamePage
	NoOpBusy
	NoOpNoPages
)

func (r NoOpReason) String() string {
	switch r {
	case NoOpNone:
		return ""
	case NoOpSamePage:
		return "same_page"
	case NoOpBusy:
		return "busy"
	case NoOpNoPages:
		return "no_pages"
	default:
		return "unknown"
	}
}

type Result struct {
	NavigationID string
	Status       Status
	NoOpReason   NoOpReason

	// Page is the current page after the request: the committed target, or the unchanged
	// current page for no-ops and failures.
	Page     int
	Decision Decision
}

// LoadError is returned when the loader fails. The page is left unchanged.
type LoadError struct {
	Offset int
	Length int
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load offset %d length %d: %v", e.Offset, e.Length, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{pagerrs.ErrLoadFailed, e.Err}
}

// Coordinator runs page navigations for one list view. At most one fetch is in flight; requests
// arriving meanwhile are dropped. The coordinator keeps no state besides that guard.
type Coordinator struct {
	loader       Loader
	onPageChange PageChangeFunc

	loading atomic.Bool
}

// NewCoordinator builds a coordinator. A nil loader means the caller holds the full dataset and
// every navigation commits immediately.
func NewCoordinator(loader Loader, onPageChange PageChangeFunc) *Coordinator {
	if f, ok := loader.(LoaderFunc); ok && f == nil {
		loader = nil
	}

	if onPageChange == nil {
		onPageChange = func(int) {}
	}

	return &Coordinator{
		loader:       loader,
		onPageChange: onPageChange,
	}
}

func (c *Coordinator) IsLoading() bool {
	return c.loading.Load()
}

// RequestPage navigates from st.CurrentPage to target. Targets past the last page are clamped to
// it. When the target's rows are not available the loader is awaited first and the page is
// committed only after it succeeds; a loader failure is returned as *LoadError.
func (c *Coordinator) RequestPage(ctx context.Context, st State, target int) (Result, error) {
	res := Result{
		NavigationID: uuid.NewString(),
		Page:         st.CurrentPage,
	}

	fields := []zap.Field{
		zap.String("navigation_id", res.NavigationID),
		zap.Int("current_page", st.CurrentPage),
		zap.Int("target_page", target),
	}

	log.Debug("navigation requested", fields...)

	if st.IsLoading || c.loading.Load() {
		return c.noOp(res, NoOpBusy, fields), nil
	}

	if target == st.CurrentPage {
		return c.noOp(res, NoOpSamePage, fields), nil
	}

	totalPages := st.TotalPages()
	if totalPages == 0 {
		return c.noOp(res, NoOpNoPages, fields), nil
	}

	if target > totalPages || target < 1 {
		target = min(max(target, 1), totalPages)
		fields = append(fields, zap.Int("clamped_page", target))

		if target == st.CurrentPage {
			return c.noOp(res, NoOpSamePage, fields), nil
		}
	}

	res.Decision = Decide(st, target, c.loader != nil)

	log.Debug("navigation decided", append(fields, res.Decision.fields()...)...)

	if !res.Decision.NeedsFetch() {
		c.onPageChange(target)

		res.Status = StatusCommitted
		res.Page = target

		log.Debug("navigation committed", fields...)

		return res, nil
	}

	if !c.loading.CompareAndSwap(false, true) {
		return c.noOp(res, NoOpBusy, fields), nil
	}
	defer c.loading.Store(false)

	if err := c.loader.LoadMore(ctx, res.Decision.Offset, res.Decision.Length); err != nil {
		log.Warn("navigation failed", append(fields, zap.Error(err))...)

		return res, &LoadError{
			Offset: res.Decision.Offset,
			Length: res.Decision.Length,
			Err:    err,
		}
	}

	c.onPageChange(target)

	res.Status = StatusLoaded
	res.Page = target

	log.Info("navigation committed after load",
		append(fields, zap.Int("offset", res.Decision.Offset), zap.Int("length", res.Decision.Length))...,
	)

	return res, nil
}

// Exclusive runs fn while holding the in-flight guard, so no fetch runs alongside it and
// navigations requested meanwhile are dropped as busy. It returns false without calling fn when a
// fetch is already in flight.
func (c *Coordinator) Exclusive(fn func() error) (bool, error) {
	if !c.loading.CompareAndSwap(false, true) {
		return false, nil
	}
	defer c.loading.Store(false)

	return true, fn()
}

func (c *Coordinator) noOp(res Result, reason NoOpReason, fields []zap.Field) Result {
	res.Status = StatusNoOp
	res.NoOpReason = reason

	log.Debug("navigation skipped", append(fields, zap.Stringer("reason", reason))...)

	return res
}
