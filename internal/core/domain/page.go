package domain

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
	// MaxPage keeps Page*Size within a 32-bit int for every allowed size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// SortField is a column entries can be ordered by.
type SortField string

const (
	SortByID   SortField = "id"
	SortByName SortField = "name"
)

// PageRequest describes one zero-based page of entries.
type PageRequest struct {
	Page       int
	Size       int
	SortBy     SortField
	Descending bool
}

// NewPageRequest normalises raw query values. Out-of-range values fall back to
// the defaults instead of failing; sort is "<field>[,asc|desc]".
func NewPageRequest(page, size int, sort string) PageRequest {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	pr := PageRequest{Page: page, Size: size, SortBy: SortByID}

	field, dir, _ := strings.Cut(sort, ",")
	switch SortField(strings.ToLower(strings.TrimSpace(field))) {
	case SortByName:
		pr.SortBy = SortByName
	case SortByID:
		pr.SortBy = SortByID
	default:
		return pr
	}
	pr.Descending = strings.EqualFold(strings.TrimSpace(dir), "desc")
	return pr
}

// Offset is the number of entries preceding the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// EntryPage is one page of entries plus the total they were drawn from.
type EntryPage struct {
	Content       []Entry
	TotalElements int64
	Request       PageRequest
}

// TotalPages is the number of pages of Request.Size needed for TotalElements.
func (p EntryPage) TotalPages() int {
	if p.Request.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Request.Size) - 1) / int64(p.Request.Size))
}

// IsLast reports whether no page follows this one.
func (p EntryPage) IsLast() bool {
	return p.Request.Page+1 >= p.TotalPages()
}
