package pagination

import "go.uber.org/zap"

type Action int

const (
	ActionCommit Action = iota
	ActionFetch
)

func (a Action) String() string {
	switch a {
	case ActionCommit:
		return "commit"
	case ActionFetch:
		return "fetch"
	default:
		return "unknown"
	}
}

// Reason holds the intermediate facts a Decision was derived from.
type Reason struct {
	TargetBatch  int
	CurrentBatch int

	AllDataLoaded    bool
	HaveBatchForPage bool
	Backward         bool
	CrossingBatch    bool
	BackToFirstBatch bool
	StartOfBatch     bool
}

func (r Reason) needsReloadBackward() bool {
	return r.BackToFirstBatch || (r.Backward && r.CrossingBatch && r.StartOfBatch)
}

// Decision tells whether a page can be committed right away or a range must be fetched first.
type Decision struct {
	Action Action
	Offset int
	Length int
	Reason Reason
}

func (d Decision) NeedsFetch() bool {
	return d.Action == ActionFetch
}

func (d Decision) fields() []zap.Field {
	return []zap.Field{
		zap.Stringer("decision", d.Action),
		zap.Int("offset", d.Offset),
		zap.Int("length", d.Length),
		zap.Int("target_batch", d.Reason.TargetBatch),
		zap.Int("current_batch", d.Reason.CurrentBatch),
		zap.Bool("all_data_loaded", d.Reason.AllDataLoaded),
		zap.Bool("have_batch_for_page", d.Reason.HaveBatchForPage),
		zap.Bool("backward", d.Reason.Backward),
		zap.Bool("crossing_batch", d.Reason.CrossingBatch),
		zap.Bool("back_to_first_batch", d.Reason.BackToFirstBatch),
		zap.Bool("start_of_batch", d.Reason.StartOfBatch),
	}
}

// Decide reports whether target can be shown from the rows described by st or which batch has to
// be fetched first. Forward moves fetch only when the target batch is not covered by TotalLoaded.
// Moving back into batch 0, or back across a batch boundary onto the first page of a batch,
// always refetches that batch because the store may hold newer rows for it.
//
// target must be positive and already clamped to the page count. Without a loader everything is
// assumed to be present.
func Decide(st State, target int, hasLoader bool) Decision {
	if !hasLoader {
		return Decision{Action: ActionCommit}
	}

	batchSize := st.EffectiveBatchSize()

	pageOffset := PageOffset(target, st.ItemsPerPage)
	targetBatch := BatchIndexOf(pageOffset, batchSize)
	currentBatch := BatchIndexOf(PageOffset(st.CurrentPage, st.ItemsPerPage), batchSize)

	r := Reason{
		TargetBatch:   targetBatch,
		CurrentBatch:  currentBatch,
		AllDataLoaded: st.AllDataLoaded(),
		Backward:      target < st.CurrentPage,
		CrossingBatch: targetBatch != currentBatch,
		StartOfBatch:  pageOffset%batchSize == 0,
	}
	r.HaveBatchForPage = st.TotalLoaded >= BatchStartOf(targetBatch, batchSize)+batchSize || r.AllDataLoaded
	r.BackToFirstBatch = targetBatch == 0 && currentBatch > 0

	needsFetch := (!r.AllDataLoaded && !r.HaveBatchForPage) || r.needsReloadBackward()
	if !needsFetch {
		return Decision{Action: ActionCommit, Reason: r}
	}

	var offset int
	switch {
	case r.BackToFirstBatch:
		offset = 0
	case r.Backward && r.StartOfBatch && r.CrossingBatch:
		offset = max(0, pageOffset)
	default:
		offset = BatchStartOf(targetBatch, batchSize)
	}

	return Decision{
		Action: ActionFetch,
		Offset: offset,
		Length: batchSize,
		Reason: r,
	}
}
