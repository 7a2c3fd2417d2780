package listing_test

import (
	"testing"

	"github.com/tickwatch/tickwatch/pkg/listing"
)

func TestFor_KnownSymbols(t *testing.T) {
	ls := listing.For([]string{"AAPL", "MSFT"})
	if len(ls) != 2 {
		t.Fatalf("Expected 2 listings, got %d", len(ls))
	}
	if ls[0].Symbol != "AAPL" || ls[0].Name != "Apple Inc." {
		t.Errorf("Unexpected AAPL listing: %+v", ls[0])
	}
	for _, l := range ls {
		if l.BasePrice <= 0 {
			t.Errorf("%s has non-positive base price %v", l.Symbol, l.BasePrice)
		}
		if l.Shares <= 0 {
			t.Errorf("%s has non-positive shares %v", l.Symbol, l.Shares)
		}
	}
}

func TestFor_UnknownSymbolFallback(t *testing.T) {
	ls := listing.For([]string{"ZZZZ"})
	if len(ls) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(ls))
	}
	if ls[0].Name != "ZZZZ" {
		t.Errorf("Expected symbol as fallback name, got %q", ls[0].Name)
	}
	if ls[0].BasePrice <= 0 {
		t.Errorf("Fallback base price must be positive, got %v", ls[0].BasePrice)
	}
}

func TestBasePrices_MatchesListings(t *testing.T) {
	tickers := []string{"AAPL", "MSFT", "META", "ZZZZ"}
	prices := listing.BasePrices(tickers)
	for _, l := range listing.For(tickers) {
		if prices[l.Symbol] != l.BasePrice {
			t.Errorf("%s: BasePrices %v disagrees with listing %v", l.Symbol, prices[l.Symbol], l.BasePrice)
		}
	}
}
