// Package pager slices result lists into fixed-size pages.
package pager

// DefaultSize is the number of rows shown per page.
const DefaultSize = 50

// Page is one slice of a result list together with its navigation state.
// Index is 1-based.
type Page[T any] struct {
	Items      []T
	Index      int
	Size       int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Empty reports whether the page has no rows.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}

// TotalPages returns ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	size = normalizeSize(size)
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp bounds index to [1, TotalPages(n, size)].
func Clamp(index, n, size int) int {
	last := TotalPages(n, size)
	switch {
	case index < 1:
		return 1
	case index > last:
		return last
	default:
		return index
	}
}

// Move returns the page index reached by stepping delta pages from index,
// bounded to the valid range.
func Move(index, delta, n, size int) int {
	return Clamp(Clamp(index, n, size)+delta, n, size)
}

// Paginate returns the page at index. Out of range indexes are clamped; an
// empty list yields a single empty page.
func Paginate[T any](items []T, index, size int) Page[T] {
	size = normalizeSize(size)
	n := len(items)
	index = Clamp(index, n, size)
	last := TotalPages(n, size)

	start := (index - 1) * size
	end := min(start+size, n)

	page := Page[T]{
		Index:      index,
		Size:       size,
		Total:      n,
		TotalPages: last,
		HasPrev:    index > 1,
		HasNext:    index < last,
	}
	if start < end {
		page.Items = items[start:end:end]
	}
	return page
}

// Map converts the rows of a page, keeping its navigation state.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Index:      p.Index,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasPrev:    p.HasPrev,
		HasNext:    p.HasNext,
	}
	if len(p.Items) > 0 {
		out.Items = make([]U, len(p.Items))
		for i, item := range p.Items {
			out.Items[i] = fn(item)
		}
	}
	return out
}

func normalizeSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	return size
}
