package catalog

// DefaultPageSize matches the portal's 3x3 browse grid.
const DefaultPageSize = 9

// PageInfo describes the current page window.
type PageInfo struct {
	// Number is the 1-based current page.
	Number int
	// Total is ceil(filtered / pageSize); at least 1.
	Total int
	// HasPrev and HasNext gate the navigation controls. Page 1 and the
	// last page are the only disabled-boundary states.
	HasPrev bool
	HasNext bool
	// ShowControls is false for single-page lists, which render no
	// pagination at all.
	ShowControls bool
}

// totalPages returns ceil(count/size), never less than 1.
func totalPages(count, size int) int {
	if count <= size {
		return 1
	}
	n := count / size
	if count%size != 0 {
		n++
	}
	return n
}

// pageSlice returns the window [ (page-1)*size, page*size ) of items.
func pageSlice[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func pageInfo(count, page, size int) PageInfo {
	total := totalPages(count, size)
	return PageInfo{
		Number:       page,
		Total:        total,
		HasPrev:      page > 1,
		HasNext:      page < total,
		ShowControls: count > size,
	}
}
