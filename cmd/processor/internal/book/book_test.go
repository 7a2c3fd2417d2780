package book_test

import (
	"math"
	"testing"

	"github.com/tickwatch/tickwatch/cmd/processor/internal/book"
	"github.com/tickwatch/tickwatch/pkg/listing"
	"github.com/tickwatch/tickwatch/pkg/models"
)

func seeds() []book.Seed {
	return []book.Seed{
		{Symbol: "AAPL", Name: "Apple Inc.", BasePrice: 150, Shares: 1000},
		{Symbol: "TSLA", Name: "Tesla, Inc.", BasePrice: 700, Shares: 500},
	}
}

func tick(sym string, price float64, vol int64, ts int64) models.Sample {
	return models.Sample{Symbol: sym, Price: price, Volume: vol, Timestamp: ts}
}

func TestBook_RejectsBadSeeds(t *testing.T) {
	if _, err := book.New(0, seeds()); err == nil {
		t.Error("Expected error for capacity 0")
	}
	if _, err := book.New(10, []book.Seed{{Symbol: ""}}); err == nil {
		t.Error("Expected error for empty seed symbol")
	}
	dup := []book.Seed{{Symbol: "AAPL"}, {Symbol: "AAPL"}}
	if _, err := book.New(10, dup); err == nil {
		t.Error("Expected error for duplicate seed")
	}
}

func TestBook_ApplyUpdateProcedure(t *testing.T) {
	b, err := book.New(10, seeds())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap, ok := b.Apply(tick("AAPL", 153, 200, 1000))
	if !ok {
		t.Fatal("Apply rejected a known symbol")
	}

	if snap.Price != 153 {
		t.Errorf("Expected price 153, got %v", snap.Price)
	}
	if snap.PrevPrice != 150 {
		t.Errorf("Expected prev price 150, got %v", snap.PrevPrice)
	}
	if snap.Change != 3 {
		t.Errorf("Expected change 3, got %v", snap.Change)
	}
	if snap.ChangePercent != 2 {
		t.Errorf("Expected 2%% change, got %v", snap.ChangePercent)
	}
	if snap.Volume != 200 {
		t.Errorf("Expected cumulative volume 200, got %d", snap.Volume)
	}
	if snap.High != 153 || snap.Low != 153 {
		t.Errorf("First tick should set both high and low, got %v/%v", snap.High, snap.Low)
	}
	if snap.MarketCap != 153*1000 {
		t.Errorf("Expected market cap 153000, got %v", snap.MarketCap)
	}
}

func TestBook_ApplyAccumulates(t *testing.T) {
	b, _ := book.New(10, seeds())

	b.Apply(tick("AAPL", 153, 200, 1000))
	b.Apply(tick("AAPL", 148, 300, 2000))
	snap, _ := b.Apply(tick("AAPL", 151, 100, 3000))

	if snap.PrevPrice != 148 {
		t.Errorf("Expected prev 148, got %v", snap.PrevPrice)
	}
	if snap.Volume != 600 {
		t.Errorf("Expected cumulative volume 600, got %d", snap.Volume)
	}
	if snap.High != 153 {
		t.Errorf("Expected session high 153, got %v", snap.High)
	}
	if snap.Low != 148 {
		t.Errorf("Expected session low 148, got %v", snap.Low)
	}

	want := (151.0 - 148.0) / 148.0 * 100
	want = math.Round(want*100) / 100
	if snap.ChangePercent != want {
		t.Errorf("Expected change percent %v (2dp), got %v", want, snap.ChangePercent)
	}
}

func TestBook_ZeroBaseGuard(t *testing.T) {
	b, _ := book.New(10, []book.Seed{{Symbol: "NEW", Name: "New Listing", BasePrice: 0}})

	snap, _ := b.Apply(tick("NEW", 10, 1, 1000))
	if snap.Change != 10 {
		t.Errorf("Expected change 10, got %v", snap.Change)
	}
	if snap.ChangePercent != 0 {
		t.Errorf("Zero base must yield 0 percent, got %v", snap.ChangePercent)
	}
}

func TestBook_UnknownSymbolRejected(t *testing.T) {
	b, _ := book.New(10, seeds())

	if _, ok := b.Apply(tick("NOPE", 1, 1, 1)); ok {
		t.Error("Apply must reject unknown symbols")
	}
	if _, ok := b.Snapshot("NOPE"); ok {
		t.Error("Snapshot must miss for unknown symbols")
	}
	if _, ok := b.History("NOPE"); ok {
		t.Error("History must miss for unknown symbols")
	}
}

func TestBook_HistoryEviction(t *testing.T) {
	b, _ := book.New(3, seeds())

	prices := []float64{1, 2, 3, 4, 5}
	for i, p := range prices {
		b.Apply(tick("TSLA", p, 10, int64(i*1000)))
	}

	hist, ok := b.History("TSLA")
	if !ok {
		t.Fatal("History missing for seeded symbol")
	}
	if len(hist) != 3 {
		t.Fatalf("Expected 3 retained samples, got %d", len(hist))
	}
	if hist[0].Price != 3 || hist[2].Price != 5 {
		t.Errorf("Expected retained prices [3 4 5], got %v", hist)
	}

	// Derived metrics reflect the retained window only.
	snap, _ := b.Snapshot("TSLA")
	if snap.High != 5 || snap.Low != 1 {
		t.Errorf("Session high/low track all applied ticks, got %v/%v", snap.High, snap.Low)
	}
}

func TestSeedsFor_AgreesWithListingTable(t *testing.T) {
	// The generator draws its base prices from the same table; any
	// divergence makes the first applied tick report a bogus change.
	tickers := []string{"AAPL", "MSFT", "META", "TSLA", "ZZZZ"}
	seeds := book.SeedsFor(tickers)
	bases := listing.BasePrices(tickers)

	if len(seeds) != len(tickers) {
		t.Fatalf("Expected %d seeds, got %d", len(tickers), len(seeds))
	}
	for _, s := range seeds {
		if s.BasePrice != bases[s.Symbol] {
			t.Errorf("%s: seed base %v disagrees with generator base %v", s.Symbol, s.BasePrice, bases[s.Symbol])
		}
	}
}

func TestBook_SnapshotsSorted(t *testing.T) {
	b, _ := book.New(10, []book.Seed{
		{Symbol: "TSLA", Name: "Tesla"},
		{Symbol: "AAPL", Name: "Apple"},
		{Symbol: "MSFT", Name: "Microsoft"},
	})

	snaps := b.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(snaps))
	}
	if snaps[0].Symbol != "AAPL" || snaps[1].Symbol != "MSFT" || snaps[2].Symbol != "TSLA" {
		t.Errorf("Snapshots not in symbol order: %v %v %v",
			snaps[0].Symbol, snaps[1].Symbol, snaps[2].Symbol)
	}
}
