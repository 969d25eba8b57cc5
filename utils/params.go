package utils

import (
	"net/http"
	"strconv"
)

// ParsePagination reads skip/limit query params, clamping limit to max.
func ParsePagination(r *http.Request, def, max int) (skip, limit int) {
	q := r.URL.Query()

	skip, _ = strconv.Atoi(q.Get("skip"))
	if skip < 0 {
		skip = 0
	}

	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return skip, limit
}
