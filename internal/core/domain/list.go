package domain

// PaginatedList is one page of a larger result set. Total counts the full set,
// independent of Limit and Offset.
type PaginatedList[T any] struct {
	Total  int64
	Limit  int64
	Offset int64
	Items  []T
}
