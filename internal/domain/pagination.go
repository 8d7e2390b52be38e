package domain

import "strings"

type Pagination struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
}

func (p Pagination) SortColumn() string {
	return strings.TrimPrefix(p.Sort, "-")
}

func (p Pagination) SortDirection() string {
	if strings.HasPrefix(p.Sort, "-") {
		return "DESC"
	}

	return "ASC"
}

func (p Pagination) Limit() int {
	return p.PageSize
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

func NewMetadata(totalRecords int, pagination Pagination) *Metadata {
	lastPage := 0
	if pagination.PageSize > 0 {
		lastPage = (totalRecords + pagination.PageSize - 1) / pagination.PageSize
	}

	return &Metadata{
		CurrentPage:  pagination.Page,
		FirstPage:    1,
		LastPage:     lastPage,
		PageSize:     pagination.PageSize,
		TotalRecords: totalRecords,
	}
}
