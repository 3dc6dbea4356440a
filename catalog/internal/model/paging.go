package model

// PageSize is fixed for every list and search endpoint.
const PageSize = 10

type Page[T any] struct {
	Paging `json:",inline"`
	Items  []T `json:"items"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

func NewPage[T any](items []T, page, size, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page[T]{
		Paging: Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
			TotalPages:    totalPages,
		},
		Items: items,
	}
}

// MapPage converts page items keeping the paging data.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[R]{Paging: p.Paging, Items: items}
}
