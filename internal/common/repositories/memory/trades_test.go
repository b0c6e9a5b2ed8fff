package memory

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/leonid6372/trades-pager/internal/common/domain"
)

func TestTradesRepository(t *testing.T) {
	ctx := context.Background()

	repo := NewTradesRepository()
	repo.SetTrades("acc", GenerateTrades("acc", 25, time.Now()))

	count, err := repo.GetTradesCount(ctx, "acc")
	if err != nil || count != 25 {
		t.Fatalf("GetTradesCount() = %d, %v; want 25", count, err)
	}

	tests := []struct {
		name      string
		offset    int64
		limit     int64
		wantLen   int
		wantFirst int64
	}{
		{name: "head", offset: 0, limit: 10, wantLen: 10, wantFirst: 25},
		{name: "tail", offset: 20, limit: 10, wantLen: 5, wantFirst: 5},
		{name: "past end", offset: 30, limit: 10, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades, err := repo.GetTradesRange(ctx, "acc", tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("GetTradesRange() error = %v", err)
			}
			if len(trades) != tt.wantLen {
				t.Fatalf("expected %d trades, got %d", tt.wantLen, len(trades))
			}
			if tt.wantLen > 0 && trades[0].ID != tt.wantFirst {
				t.Errorf("expected first id %d, got %d", tt.wantFirst, trades[0].ID)
			}
		})
	}

	if got := repo.RangeCalls(); got != 3 {
		t.Errorf("expected 3 range calls, got %d", got)
	}
}

func TestTradesRepositoryFailNext(t *testing.T) {
	errBoom := errors.New("boom")

	repo := NewTradesRepository()
	repo.SetTrades("acc", GenerateTrades("acc", 5, time.Now()))
	repo.FailNext(errBoom)

	if _, err := repo.GetTradesRange(context.Background(), "acc", 0, 5); !errors.Is(err, errBoom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if _, err := repo.GetTradesRange(context.Background(), "acc", 0, 5); err != nil {
		t.Fatalf("expected failure to be consumed, got %v", err)
	}
}

func TestTradesRepositoryAddTrades(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	repo := NewTradesRepository()
	if err := repo.AddTrades(ctx, GenerateTrades("acc", 3, base)); err != nil {
		t.Fatalf("AddTrades() error = %v", err)
	}
	if err := repo.AddTrades(ctx, []*domain.Trade{
		{Account: "acc", Symbol: "SOL-PERP", CreatedAt: base.Add(time.Hour)},
		{Account: "other", Symbol: "BTC-PERP", CreatedAt: base},
	}); err != nil {
		t.Fatalf("AddTrades() error = %v", err)
	}

	trades, err := repo.GetTradesRange(ctx, "acc", 0, 10)
	if err != nil {
		t.Fatalf("GetTradesRange() error = %v", err)
	}

	var got []int64
	for _, trade := range trades {
		got = append(got, trade.ID)
	}
	if want := []int64{4, 3, 2, 1}; !slices.Equal(got, want) {
		t.Errorf("expected ids %v newest first, got %v", want, got)
	}

	if count, _ := repo.GetTradesCount(ctx, "other"); count != 1 {
		t.Errorf("expected 1 trade for other account, got %d", count)
	}
}
