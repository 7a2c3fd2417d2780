// Package ranking implements ordered lookup, text search, and the
// filter/sort pipeline the gateway uses to answer screener queries
// over snapshot lists.
package ranking

import (
	"sort"
	"strings"

	"github.com/tickwatch/tickwatch/pkg/models"
)

// FindBySymbol binary-searches a symbol-sorted slice. Comparison is
// case-insensitive; symbols are unique so at most one entry matches.
func FindBySymbol(sorted []models.Snapshot, symbol string) (models.Snapshot, bool) {
	target := strings.ToUpper(symbol)

	lo, hi := 0, len(sorted)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		cur := strings.ToUpper(sorted[mid].Symbol)
		switch {
		case cur == target:
			return sorted[mid], true
		case cur < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return models.Snapshot{}, false
}

// FindByNamePrefix returns the contiguous run of entries whose display
// name starts with prefix, case-insensitively. The input must be sorted
// by folded name (see SortByNameFold). An empty prefix is a no-op
// filter: the input is returned unchanged, in the order given.
func FindByNamePrefix(sortedByName []models.Snapshot, prefix string) []models.Snapshot {
	if prefix == "" {
		return sortedByName
	}
	p := strings.ToLower(prefix)

	// Leftmost candidate, then scan forward while the prefix holds.
	// Contiguity is guaranteed by the name ordering.
	start := sort.Search(len(sortedByName), func(i int) bool {
		return strings.ToLower(sortedByName[i].Name) >= p
	})

	out := []models.Snapshot{}
	for i := start; i < len(sortedByName); i++ {
		if !strings.HasPrefix(strings.ToLower(sortedByName[i].Name), p) {
			break
		}
		out = append(out, sortedByName[i])
	}
	return out
}

// InsertionIndex returns the index at which candidate can be inserted
// while keeping the slice sorted under field. A candidate equal to
// existing entries slots after them, preserving arrival order among
// equals. Valid fields are
// SortBySymbol, SortByName, and SortByPrice; anything else falls back
// to symbol order.
func InsertionIndex(sorted []models.Snapshot, candidate models.Snapshot, field SortField) int {
	less := func(a, b models.Snapshot) bool {
		switch field {
		case SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortByPrice:
			return a.Price < b.Price
		default:
			return strings.ToUpper(a.Symbol) < strings.ToUpper(b.Symbol)
		}
	}
	return sort.Search(len(sorted), func(i int) bool {
		return less(candidate, sorted[i])
	})
}

// SortByNameFold returns a copy sorted by case-folded display name,
// the ordering FindByNamePrefix expects.
func SortByNameFold(entities []models.Snapshot) []models.Snapshot {
	out := make([]models.Snapshot, len(entities))
	copy(out, entities)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Search resolves a free-text query in three tiers: symbol prefix over
// the input order, then name prefix for entries not already matched,
// and only if both come up empty a substring scan over name and symbol.
// Prefix-first because that is how users type ticker symbols; the
// substring fallback catches partial company names typed from the
// middle. A blank query returns the input unchanged.
func Search(all []models.Snapshot, query string) []models.Snapshot {
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	upper := strings.ToUpper(query)
	matched := make(map[string]bool)
	out := []models.Snapshot{}

	for _, e := range all {
		if strings.HasPrefix(strings.ToUpper(e.Symbol), upper) {
			out = append(out, e)
			matched[e.Symbol] = true
		}
	}

	for _, e := range FindByNamePrefix(SortByNameFold(all), query) {
		if !matched[e.Symbol] {
			out = append(out, e)
			matched[e.Symbol] = true
		}
	}

	if len(out) > 0 {
		return out
	}

	lower := strings.ToLower(query)
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Name), lower) ||
			strings.Contains(strings.ToLower(e.Symbol), lower) {
			out = append(out, e)
		}
	}
	return out
}
