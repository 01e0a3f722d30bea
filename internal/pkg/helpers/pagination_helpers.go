package helpers

import (
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
)

// Member list page bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request clamped to the list bounds
type Page struct {
	Number int
	Size   int
}

// NewPage clamps a requested page; out-of-range sizes fall back to the default
func NewPage(number, size int) Page {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() uint64 {
	return uint64((p.Number - 1) * p.Size)
}

// Limit is the number of rows on this page
func (p Page) Limit() uint64 {
	return uint64(p.Size)
}

// Info describes the page once the total is known. An empty list still has
// one page and a page past the end is reported as the last page.
func (p Page) Info(total int64) dto.PaginationInfo {
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	if pages == 0 {
		pages = 1
	}
	current := p.Number
	if current > pages {
		current = pages
	}
	return dto.PaginationInfo{
		CurrentPage: current,
		TotalPages:  pages,
		PageSize:    p.Size,
		TotalItems:  total,
	}
}
