package listview

// Pagination is the page information rendered with a Derived view.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Paginator tracks the current page over a filtered collection of a given
// size. Page is always within [1, max(1, TotalPages)].
type Paginator struct {
	page  int
	size  int
	total int
}

func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{page: 1, size: pageSize}
}

func (p *Paginator) Page() int     { return p.page }
func (p *Paginator) PageSize() int { return p.size }

// TotalPages is ceil(total / pageSize); zero for an empty collection.
func (p *Paginator) TotalPages() int {
	return (p.total + p.size - 1) / p.size
}

func (p *Paginator) lastPage() int {
	return max(1, p.TotalPages())
}

// SetTotal records the filtered count. When the current page no longer
// exists it goes back to the first page rather than the closest one.
func (p *Paginator) SetTotal(n int) {
	p.total = max(0, n)
	if p.page > p.lastPage() {
		p.page = 1
	}
}

// GoToPage clamps n into the valid range and returns the resulting page.
func (p *Paginator) GoToPage(n int) int {
	switch {
	case n < 1:
		p.page = 1
	case n > p.lastPage():
		p.page = p.lastPage()
	default:
		p.page = n
	}
	return p.page
}

func (p *Paginator) Next() int     { return p.GoToPage(p.page + 1) }
func (p *Paginator) Previous() int { return p.GoToPage(p.page - 1) }

// Reset returns to the first page.
func (p *Paginator) Reset() { p.page = 1 }

func (p *Paginator) State() Pagination {
	return Pagination{
		Page:       p.page,
		PageSize:   p.size,
		TotalPages: p.TotalPages(),
		TotalItems: p.total,
	}
}
