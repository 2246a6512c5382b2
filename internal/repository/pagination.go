package repository

import "strings"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageWindow clamps page and size and returns the LIMIT/OFFSET pair.
func pageWindow(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

// sortClause resolves a whitelisted column and direction.
func sortClause(sortBy, sortOrder string, allowed map[string]string, fallback, fallbackOrder string) (string, string) {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[fallback]
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = fallbackOrder
	}
	return column, order
}
