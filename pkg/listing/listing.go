// Package listing carries static reference data for known symbols:
// display name, base price, and outstanding shares. The generator and
// the processor both seed from this table, so the first applied tick
// measures change against the same base price the ticks fluctuate
// around.
package listing

// Listing describes one known symbol.
type Listing struct {
	Symbol    string
	Name      string
	BasePrice float64
	Shares    float64 // outstanding shares, millions
}

// fallbackBasePrice is used for configured tickers without a known
// listing, on both the producing and consuming side.
const fallbackBasePrice = 100.0

var known = map[string]Listing{
	"AAPL":  {Symbol: "AAPL", Name: "Apple Inc.", BasePrice: 150.0, Shares: 15500},
	"AMZN":  {Symbol: "AMZN", Name: "Amazon.com, Inc.", BasePrice: 3400.0, Shares: 10300},
	"GOOGL": {Symbol: "GOOGL", Name: "Alphabet Inc.", BasePrice: 2800.0, Shares: 5900},
	"MSFT":  {Symbol: "MSFT", Name: "Microsoft Corporation", BasePrice: 300.0, Shares: 7400},
	"TSLA":  {Symbol: "TSLA", Name: "Tesla, Inc.", BasePrice: 700.0, Shares: 3200},
	"META":  {Symbol: "META", Name: "Meta Platforms, Inc.", BasePrice: 330.0, Shares: 2500},
	"GOOG":  {Symbol: "GOOG", Name: "Alphabet Inc. Class C", BasePrice: 2800.0, Shares: 5900},
}

// For returns listings for the given tickers, in the order given.
// Unknown symbols fall back to the symbol as display name and the
// nominal base price.
func For(tickers []string) []Listing {
	out := make([]Listing, 0, len(tickers))
	for _, sym := range tickers {
		if l, ok := known[sym]; ok {
			out = append(out, l)
			continue
		}
		out = append(out, Listing{Symbol: sym, Name: sym, BasePrice: fallbackBasePrice})
	}
	return out
}

// BasePrices returns symbol to base price for the given tickers.
func BasePrices(tickers []string) map[string]float64 {
	out := make(map[string]float64, len(tickers))
	for _, l := range For(tickers) {
		out[l.Symbol] = l.BasePrice
	}
	return out
}
