package ranking

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tickwatch/tickwatch/pkg/models"
)

// SortField selects the snapshot attribute a sort or insertion-point
// lookup compares on.
type SortField string

const (
	SortBySymbol        SortField = "symbol"
	SortByName          SortField = "name"
	SortByPrice         SortField = "price"
	SortByChangePercent SortField = "change_percent"
	SortByVolume        SortField = "volume"
	SortByMarketCap     SortField = "market_cap"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortConfig struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// Filters is the gateway's screener predicate set. Nil bounds are
// unset; set bounds are inclusive.
type Filters struct {
	Query            string   `json:"query,omitempty"`
	MinPrice         *float64 `json:"min_price,omitempty"`
	MaxPrice         *float64 `json:"max_price,omitempty"`
	MinChangePercent *float64 `json:"min_change_percent,omitempty"`
	MaxChangePercent *float64 `json:"max_change_percent,omitempty"`
	MinMarketCap     *float64 `json:"min_market_cap,omitempty"`
	MaxMarketCap     *float64 `json:"max_market_cap,omitempty"`
}

// Sort returns a stably sorted copy: ties keep their relative input
// order. Name comparison is locale-aware; unknown fields fall back to
// symbol order so the result is always deterministic.
func Sort(entities []models.Snapshot, cfg SortConfig) []models.Snapshot {
	out := make([]models.Snapshot, len(entities))
	copy(out, entities)

	var coll *collate.Collator
	if cfg.Field == SortByName {
		coll = collate.New(language.English, collate.IgnoreCase)
	}

	cmp := func(a, b models.Snapshot) int {
		switch cfg.Field {
		case SortByName:
			return coll.CompareString(a.Name, b.Name)
		case SortByChangePercent:
			return compareFloat(a.ChangePercent, b.ChangePercent)
		case SortByVolume:
			switch {
			case a.Volume < b.Volume:
				return -1
			case a.Volume > b.Volume:
				return 1
			}
			return 0
		case SortByMarketCap:
			return compareFloat(a.MarketCap, b.MarketCap)
		case SortByPrice:
			return compareFloat(a.Price, b.Price)
		default:
			return compareString(a.Symbol, b.Symbol)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if cfg.Direction == Desc {
			c = -c
		}
		return c < 0
	})
	return out
}

// Filter runs the text search first, then the inclusive numeric range
// bounds. The two stages are independent predicates, so this order is
// observationally equivalent to any other.
func Filter(entities []models.Snapshot, f Filters) []models.Snapshot {
	result := Search(entities, f.Query)

	out := []models.Snapshot{}
	for _, e := range result {
		if f.MinPrice != nil && e.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && e.Price > *f.MaxPrice {
			continue
		}
		if f.MinChangePercent != nil && e.ChangePercent < *f.MinChangePercent {
			continue
		}
		if f.MaxChangePercent != nil && e.ChangePercent > *f.MaxChangePercent {
			continue
		}
		if f.MinMarketCap != nil && e.MarketCap < *f.MinMarketCap {
			continue
		}
		if f.MaxMarketCap != nil && e.MarketCap > *f.MaxMarketCap {
			continue
		}
		out = append(out, e)
	}
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
