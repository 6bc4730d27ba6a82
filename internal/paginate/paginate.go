// Package paginate slices ordered result sets into pages with next/prev
// metadata. It is filter-agnostic: callers apply any filtering before
// handing the items in.
package paginate

import "fmt"

// Info describes the position of a page within the full result set.
type Info struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// Page returns the requested page of items. Requesting a page beyond the
// last returns an empty slice with HasNext=false rather than failing; page
// or pageSize below 1 is an error.
func Page[T any](items []T, page, pageSize int) ([]T, Info, error) {
	if page < 1 {
		return nil, Info{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return nil, Info{}, fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	info := Info{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecords: total,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []T{}, info, nil
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return items[start:end], info, nil
}
