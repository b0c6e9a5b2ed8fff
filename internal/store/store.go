package store

import (
	"context"
	"fmt"

	"github.com/leonid6372/trades-pager/internal/common/domain"
)

// Store holds the loaded rows of one list view as a contiguous prefix starting at offset 0.
//
// Load(offset, length) fetches [min(offset, loaded), offset+length) from the repository: rows
// already present are overwritten with fresh data and the rest are appended, so the prefix never
// has gaps. TotalLoaded only grows until Reset. A failed Load leaves the store unchanged.
type Store interface {
	Load(ctx context.Context, offset, length int) error
	TotalLoaded(ctx context.Context) (int, error)
	Rows(ctx context.Context, offset, limit int) ([]*domain.Trade, error)
	Reset(ctx context.Context) error
}

func checkRange(offset, length int) error {
	if offset < 0 || length <= 0 {
		return fmt.Errorf("invalid range: offset %d length %d", offset, length)
	}

	return nil
}
