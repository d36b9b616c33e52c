package listview

import "fmt"

type Pagination struct {
	Page       int
	TotalPages int
	CanPrev    bool
	CanNext    bool
}

// NewPagination computes the controls for a zero-based page. There is always
// at least one page.
func NewPagination(page, total, pageSize int) Pagination {
	p := Pagination{Page: page, TotalPages: TotalPages(total, pageSize)}
	p.CanPrev = page > 0
	p.CanNext = page < p.TotalPages-1
	return p
}

func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func (p Pagination) LastPage() int { return p.TotalPages - 1 }

func (p Pagination) Indicator() string {
	return fmt.Sprintf("Page %d of %d", p.Page+1, p.TotalPages)
}
