package book

import "github.com/tickwatch/tickwatch/pkg/listing"

// SeedsFor builds seeds for the configured tickers from the shared
// listing table, so the book's base prices agree with the tick source.
func SeedsFor(tickers []string) []Seed {
	ls := listing.For(tickers)
	out := make([]Seed, len(ls))
	for i, l := range ls {
		out[i] = Seed{
			Symbol:    l.Symbol,
			Name:      l.Name,
			BasePrice: l.BasePrice,
			Shares:    l.Shares,
		}
	}
	return out
}
