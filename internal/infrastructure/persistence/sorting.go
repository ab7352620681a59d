package persistence

import (
	"strings"

	"github.com/pharmstock/backend/internal/domain/shared"
)

// orderClause builds the ORDER BY clause for a list query. Sort columns come
// from the caller-facing API, so only names on the repository's allowlist
// reach the SQL; anything else falls back to the default ordering.
func orderClause(filter shared.Filter, allowed map[string]bool, fallback string) string {
	if !allowed[filter.OrderBy] {
		return fallback
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return filter.OrderBy + " " + dir
}
