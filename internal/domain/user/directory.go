package user

import "math"

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// MaxPage keeps (page-1)*pageSize from overflowing int.
const MaxPage = math.MaxInt / MaxPageSize

// DirectoryFilter narrows the public square. Nil criteria are inactive; all
// active criteria are combined with AND.
type DirectoryFilter struct {
	Gender    *Gender
	MinAge    *int
	MaxAge    *int
	MinHeight *int
	MaxHeight *int
	Education *Education
	Page      int
	PageSize  int
}

func (f DirectoryFilter) Normalize() DirectoryFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func (f DirectoryFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}
