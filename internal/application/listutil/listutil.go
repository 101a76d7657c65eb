// Package listutil pages through lists that have already been fetched.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// DefaultPerPage is the page size used when none (or an unsupported one) is requested.
const DefaultPerPage = 6

// PerPageOptions are the page sizes a visitor may pick.
var PerPageOptions = []int{3, 6, 12, 24, 48}

// PageParams is a requested page.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// PageInfo describes the page actually served.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ParsePageParams reads page and per_page from a query string.
// POST: Page >= 1 and PerPage is one of PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes page metadata, clamping page into [1, TotalPages].
// An empty list still has one (empty) page.
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	pages := max(1, (total+perPage-1)/perPage)
	return PageInfo{
		Page:       min(max(page, 1), pages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// Paginate returns the slice of items on the requested page.
// The returned slice shares the backing array of items.
func Paginate[T any](items []T, p PageParams) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(items))
	start := info.Offset()
	end := min(start+info.PerPage, len(items))
	return items[start:end], info
}

// Offset is the index of the first item on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage is the previous page number, or 1.
func (p PageInfo) PrevPage() int { return max(1, p.Page-1) }

// NextPage is the following page number, or the last page.
func (p PageInfo) NextPage() int { return min(p.TotalPages, p.Page+1) }

// PageNumbers returns up to five page numbers centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const window = 5
	start := max(1, p.Page-window/2)
	end := min(p.TotalPages, start+window-1)
	start = max(1, end-window+1)
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// ShowPagination reports whether there is more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}
