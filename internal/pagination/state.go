package pagination

// State is a snapshot of a paginated list view. It is supplied fresh on every navigation request
// and never cached by the coordinator.
type State struct {
	CurrentPage  int
	TotalItems   int
	ItemsPerPage int

	// BatchSize is the number of rows the loader fetches at once. Zero means ItemsPerPage.
	BatchSize int

	// TotalLoaded is the number of rows present in the external store, counted from offset 0.
	TotalLoaded int
	IsLoading   bool
}

func (s State) TotalPages() int {
	return TotalPages(s.TotalItems, s.ItemsPerPage)
}

func (s State) EffectiveBatchSize() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}

	return s.ItemsPerPage
}

func (s State) AllDataLoaded() bool {
	return s.TotalLoaded >= s.TotalItems
}
