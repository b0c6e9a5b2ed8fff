package pagination

import "testing"

func TestDecide(t *testing.T) {
	base := State{TotalItems: 95, ItemsPerPage: 10, BatchSize: 30}

	with := func(current, loaded int) State {
		st := base
		st.CurrentPage = current
		st.TotalLoaded = loaded
		return st
	}

	tests := []struct {
		name       string
		st         State
		target     int
		noLoader   bool
		wantAction Action
		wantOffset int
		wantLength int
	}{
		{name: "no loader commits", st: with(1, 0), target: 7, noLoader: true, wantAction: ActionCommit},
		{name: "forward within loaded batch", st: with(1, 30), target: 3, wantAction: ActionCommit},
		{name: "forward into unloaded batch", st: with(3, 30), target: 4, wantAction: ActionFetch, wantOffset: 30, wantLength: 30},
		{name: "forward into loaded batch", st: with(3, 60), target: 4, wantAction: ActionCommit},
		{name: "forward jump aligns to batch start", st: with(1, 30), target: 8, wantAction: ActionFetch, wantOffset: 60, wantLength: 30},
		{name: "forward jump with all data loaded", st: with(1, 95), target: 10, wantAction: ActionCommit},
		{name: "last partial batch counts as loaded", st: with(9, 95), target: 10, wantAction: ActionCommit},
		{name: "back to first batch reloads", st: with(4, 95), target: 1, wantAction: ActionFetch, wantOffset: 0, wantLength: 30},
		{name: "back to first batch mid page", st: with(7, 95), target: 2, wantAction: ActionFetch, wantOffset: 0, wantLength: 30},
		{name: "back across batch onto its first page", st: with(7, 95), target: 4, wantAction: ActionFetch, wantOffset: 30, wantLength: 30},
		{name: "back across batch mid batch", st: with(7, 95), target: 6, wantAction: ActionCommit},
		{name: "back within batch", st: with(6, 60), target: 5, wantAction: ActionCommit},
		{name: "back within first batch", st: with(3, 30), target: 1, wantAction: ActionCommit},
		{
			name:       "batch size defaults to page size",
			st:         State{CurrentPage: 1, TotalItems: 95, ItemsPerPage: 10, TotalLoaded: 10},
			target:     2,
			wantAction: ActionFetch, wantOffset: 10, wantLength: 10,
		},
		{
			name:       "page wider than batch keys off first batch",
			st:         State{CurrentPage: 1, TotalItems: 95, ItemsPerPage: 10, BatchSize: 4, TotalLoaded: 4},
			target:     2,
			wantAction: ActionFetch, wantOffset: 8, wantLength: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.st, tt.target, !tt.noLoader)
			if got.Action != tt.wantAction {
				t.Fatalf("Decide() action = %v, want %v (reason %+v)", got.Action, tt.wantAction, got.Reason)
			}
			if got.Offset != tt.wantOffset || got.Length != tt.wantLength {
				t.Errorf("Decide() range = (%d, %d), want (%d, %d)", got.Offset, got.Length, tt.wantOffset, tt.wantLength)
			}
		})
	}
}

func TestDecideReason(t *testing.T) {
	st := State{CurrentPage: 7, TotalItems: 95, ItemsPerPage: 10, BatchSize: 30, TotalLoaded: 95}

	got := Decide(st, 4, true)

	want := Reason{
		TargetBatch:      1,
		CurrentBatch:     2,
		AllDataLoaded:    true,
		HaveBatchForPage: true,
		Backward:         true,
		CrossingBatch:    true,
		BackToFirstBatch: false,
		StartOfBatch:     true,
	}
	if got.Reason != want {
		t.Errorf("Decide() reason = %+v, want %+v", got.Reason, want)
	}
}

func TestDecideForwardFetchIsBatchAligned(t *testing.T) {
	for batchSize := 1; batchSize <= 40; batchSize++ {
		for target := 2; target <= 10; target++ {
			st := State{CurrentPage: 1, TotalItems: 95, ItemsPerPage: 10, BatchSize: batchSize}

			got := Decide(st, target, true)
			if !got.NeedsFetch() {
				continue
			}
			if got.Offset%batchSize != 0 {
				t.Errorf("batch %d target %d: offset %d is not aligned", batchSize, target, got.Offset)
			}
		}
	}
}
