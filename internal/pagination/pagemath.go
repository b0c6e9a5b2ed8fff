package pagination

// Pages are 1-based, offsets and batch indexes are 0-based. Batches are aligned to multiples of
// the batch size starting at offset 0.

func PageOffset(page, itemsPerPage int) int {
	return (page - 1) * itemsPerPage
}

func PageEnd(page, itemsPerPage int) int {
	return PageOffset(page, itemsPerPage) + itemsPerPage
}

func BatchIndexOf(offset, batchSize int) int {
	return offset / batchSize
}

func BatchStartOf(index, batchSize int) int {
	return index * batchSize
}

// TotalPages is ceil(totalItems / itemsPerPage), 0 for an empty list.
func TotalPages(totalItems, itemsPerPage int) int {
	if totalItems <= 0 || itemsPerPage <= 0 {
		return 0
	}

	return (totalItems + itemsPerPage - 1) / itemsPerPage
}
