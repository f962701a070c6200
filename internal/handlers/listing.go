package handlers

import (
	"strconv"
	"strings"
)

// Admin list views page over the filtered row set, ten rows at a time.
const adminPageSize = 10

// parsePage turns a ?page= value into a 1-based page number.
func parsePage(s string) int {
	if s == "" {
		return 1
	}
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// containsFold reports whether needle occurs in haystack,
// case-insensitively. An empty needle matches everything.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// paginate slices one fixed-size page out of items and reports the
// page count. A page beyond the end yields an empty slice, not an
// error: the client clamps.
func paginate[T any](items []T, page int) ([]T, int) {
	totalPages := (len(items) + adminPageSize - 1) / adminPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * adminPageSize
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + adminPageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages
}
