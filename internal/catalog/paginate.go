package catalog

// WindowSize is how many page links the pager shows at once.
const WindowSize = 10

// Paginate splits items into consecutive pages of pageSize; the last page may
// be shorter. pageSize <= 0 puts everything on one page. No items, no pages.
func Paginate[T any](items []T, pageSize int) [][]T {
	if len(items) == 0 {
		return [][]T{}
	}
	if pageSize <= 0 {
		return [][]T{items}
	}

	pages := make([][]T, 0, (len(items)+pageSize-1)/pageSize)
	for start := 0; start < len(items); start += pageSize {
		end := min(start+pageSize, len(items))
		pages = append(pages, items[start:end])
	}
	return pages
}

// ClampPage pins page to [1, totalPages]. With no pages it returns 0.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return max(1, min(page, totalPages))
}

// VisibleWindow returns the first and last page numbers of the pager around
// currentPage. Up to WindowSize pages are shown whole; past page 6 the window
// trails the current page by five, and near the end it is pinned to the last
// page with the lower bound pulled back to totalPages-10.
func VisibleWindow(currentPage, totalPages int) (low, high int) {
	if totalPages <= 0 {
		return 0, 0
	}
	if totalPages <= WindowSize {
		return 1, totalPages
	}

	current := ClampPage(currentPage, totalPages)
	if current <= 6 {
		return 1, WindowSize
	}

	low, high = current-5, current+4
	// A pinned window spans WindowSize+1 pages, so page 19 of 20 shows 10-20.
	if high > totalPages {
		high = totalPages
		low = max(1, totalPages-WindowSize)
	}
	return low, high
}
