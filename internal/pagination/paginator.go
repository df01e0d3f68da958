// Package pagination turns a total item count and a raw "page" query value
// into a bounded page window.
package pagination

import (
	"strconv"
	"strings"
)

// DefaultPerPage is used when a Paginator is built with a non-positive size.
const DefaultPerPage = 10

type Paginator struct {
	PerPage int
}

func New(perPage int) Paginator {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Paginator{PerPage: perPage}
}

// Page describes one window over an ordered list.
type Page struct {
	Number             int  `json:"number"`
	NumPages           int  `json:"num_pages"`
	Total              int  `json:"total"`
	PerPage            int  `json:"per_page"`
	HasNext            bool `json:"has_next"`
	HasPrevious        bool `json:"has_previous"`
	NextPageNumber     int  `json:"next_page_number,omitempty"`
	PreviousPageNumber int  `json:"previous_page_number,omitempty"`
}

// NumPages is ceil(total/perPage), but never less than one so an empty list
// still has a first page.
func (p Paginator) NumPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + p.PerPage - 1) / p.PerPage
}

// Page resolves raw against total. Anything that is not a positive integer
// clamps to the first page, anything past the end clamps to the last page.
func (p Paginator) Page(raw string, total int) Page {
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}

	numPages := p.NumPages(total)
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	page := Page{
		Number:      number,
		NumPages:    numPages,
		Total:       total,
		PerPage:     p.PerPage,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if page.HasNext {
		page.NextPageNumber = number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = number - 1
	}
	return page
}

func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

func (pg Page) Limit() int {
	return pg.PerPage
}

// Len is the number of items that fall on this page.
func (pg Page) Len() int {
	if pg.Total == 0 {
		return 0
	}
	return pg.EndIndex() - pg.StartIndex() + 1
}

// StartIndex is the 1-based index of the first item on the page, 0 when empty.
func (pg Page) StartIndex() int {
	if pg.Total == 0 {
		return 0
	}
	return pg.Offset() + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (pg Page) EndIndex() int {
	if pg.Number == pg.NumPages {
		return pg.Total
	}
	return pg.Number * pg.PerPage
}
