package series_test

import (
	"math"
	"testing"

	"github.com/tickwatch/tickwatch/pkg/models"
	"github.com/tickwatch/tickwatch/pkg/series"
)

func mkSamples(prices ...float64) []models.Sample {
	out := make([]models.Sample, len(prices))
	for i, p := range prices {
		out[i] = models.Sample{
			Symbol:    "AAPL",
			Price:     p,
			Volume:    100,
			Timestamp: int64(1700000000000 + i*1000),
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSeries_EmptyState(t *testing.T) {
	s, err := series.New(10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if len(s.Prices()) != 0 {
		t.Error("Prices on empty series should be empty")
	}
	if c, p := s.PriceChange(); c != 0 || p != 0 {
		t.Errorf("Expected {0,0} change, got {%v,%v}", c, p)
	}
	if min, max := s.PriceRange(); min != 0 || max != 0 {
		t.Errorf("Expected {0,0} range, got {%v,%v}", min, max)
	}
	if len(s.Labels(5)) != 0 {
		t.Error("Labels on empty series should be empty")
	}
}

func TestSeries_PriceChange(t *testing.T) {
	s, _ := series.New(10)
	s.AppendAll(mkSamples(100, 105, 110))

	change, pct := s.PriceChange()
	if !almostEqual(change, 10) {
		t.Errorf("Expected change 10, got %v", change)
	}
	if !almostEqual(pct, 10) {
		t.Errorf("Expected 10%%, got %v", pct)
	}
}

func TestSeries_PriceChange_SingleSample(t *testing.T) {
	s, _ := series.New(10)
	s.AppendAll(mkSamples(100))

	if c, p := s.PriceChange(); c != 0 || p != 0 {
		t.Errorf("Single sample should yield {0,0}, got {%v,%v}", c, p)
	}
}

func TestSeries_PriceChange_ReflectsEviction(t *testing.T) {
	// Capacity 3: after four appends the oldest visible price is 105,
	// so the change is measured against it, not the all-time first.
	s, _ := series.New(3)
	s.AppendAll(mkSamples(100, 105, 110, 120))

	change, pct := s.PriceChange()
	if !almostEqual(change, 15) {
		t.Errorf("Expected change 15 over retained window, got %v", change)
	}
	want := 15.0 / 105.0 * 100
	if !almostEqual(pct, want) {
		t.Errorf("Expected %v%%, got %v", want, pct)
	}
}

func TestSeries_PriceChange_ZeroBase(t *testing.T) {
	s, _ := series.New(10)
	s.AppendAll(mkSamples(0, 50))

	change, pct := s.PriceChange()
	if !almostEqual(change, 50) {
		t.Errorf("Expected change 50, got %v", change)
	}
	if pct != 0 {
		t.Errorf("Zero base price must yield 0 percent, got %v", pct)
	}
}

func TestSeries_PriceRange(t *testing.T) {
	s, _ := series.New(10)
	s.AppendAll(mkSamples(105, 99, 130, 110))

	min, max := s.PriceRange()
	if !almostEqual(min, 99) || !almostEqual(max, 130) {
		t.Errorf("Expected {99,130}, got {%v,%v}", min, max)
	}
}

func TestSeries_PricesAndTimestamps(t *testing.T) {
	s, _ := series.New(10)
	s.AppendAll(mkSamples(1, 2, 3))

	prices := s.Prices()
	if len(prices) != 3 || prices[0] != 1 || prices[2] != 3 {
		t.Errorf("Unexpected prices: %v", prices)
	}

	ts := s.Timestamps()
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			t.Errorf("Timestamps not increasing at %d: %v", i, ts)
		}
	}
}

func TestSeries_Labels(t *testing.T) {
	s, _ := series.New(100)
	s.AppendAll(mkSamples(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	labels := s.Labels(5)
	if len(labels) != 5 {
		t.Fatalf("Expected 5 labels, got %d", len(labels))
	}

	// Fewer samples than requested labels: one per sample.
	short, _ := series.New(100)
	short.AppendAll(mkSamples(1, 2, 3))
	if got := short.Labels(5); len(got) != 3 {
		t.Errorf("Expected 3 labels for 3 samples, got %d", len(got))
	}

	// count <= 0 falls back to the default of 5.
	if got := s.Labels(0); len(got) != 5 {
		t.Errorf("Labels(0) should use default 5, got %d", len(got))
	}
}
