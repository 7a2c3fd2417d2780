// Package book owns the in-memory entity state for every tracked
// symbol and applies coalesced ticks to it. One entity per symbol,
// created at seed time, never removed during a session.
package book

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tickwatch/tickwatch/pkg/models"
	"github.com/tickwatch/tickwatch/pkg/series"
)

// Seed describes one symbol known at startup.
type Seed struct {
	Symbol    string
	Name      string
	BasePrice float64
	Shares    float64 // outstanding shares, for market cap
}

// Entity is the mutable per-symbol state. All mutation goes through
// Book.Apply under the book lock.
type Entity struct {
	Symbol        string
	Name          string
	Shares        float64
	Price         float64
	PrevPrice     float64
	Change        float64 // rounded to 2 decimals, display precision
	ChangePercent float64 // rounded to 2 decimals, display precision
	Volume        int64   // cumulative for the session
	High          float64
	Low           float64
	LastTimestamp int64
	Series        *series.PriceSeries
}

// Book maps symbol to entity. Reads return copies so callers never
// observe an entity mid-update.
type Book struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	symbols  []string // sorted, fixed at construction
}

// New builds a book with one entity per seed, each retaining at most
// capacity samples of history.
func New(capacity int, seeds []Seed) (*Book, error) {
	b := &Book{entities: make(map[string]*Entity, len(seeds))}

	for _, s := range seeds {
		if s.Symbol == "" {
			return nil, fmt.Errorf("seed with empty symbol")
		}
		if _, dup := b.entities[s.Symbol]; dup {
			return nil, fmt.Errorf("duplicate seed symbol %q", s.Symbol)
		}
		ps, err := series.New(capacity)
		if err != nil {
			return nil, err
		}
		b.entities[s.Symbol] = &Entity{
			Symbol:    s.Symbol,
			Name:      s.Name,
			Shares:    s.Shares,
			Price:     s.BasePrice,
			PrevPrice: s.BasePrice,
			Series:    ps,
		}
		b.symbols = append(b.symbols, s.Symbol)
	}
	sort.Strings(b.symbols)

	return b, nil
}

// Apply runs the full update procedure for one tick and returns the
// resulting snapshot. Unknown symbols are rejected (false) so the
// caller can log and drop. The lock spans the whole procedure: a reader
// never sees a partially applied tick.
func (b *Book) Apply(sample models.Sample) (models.Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entities[sample.Symbol]
	if !ok {
		return models.Snapshot{}, false
	}

	first := e.Series.Len() == 0

	e.Series.Append(sample)

	prev := e.Price
	change := sample.Price - prev
	var changePct float64
	if prev != 0 {
		changePct = change / prev * 100
	}
	e.Change = round2(change)
	e.ChangePercent = round2(changePct)

	e.PrevPrice = prev
	e.Price = sample.Price
	e.Volume += sample.Volume
	e.LastTimestamp = sample.Timestamp

	if first {
		e.High = sample.Price
		e.Low = sample.Price
	} else {
		e.High = math.Max(e.High, sample.Price)
		e.Low = math.Min(e.Low, sample.Price)
	}

	return e.snapshot(), true
}

// Snapshot returns the read model for one symbol.
func (b *Book) Snapshot(symbol string) (models.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entities[symbol]
	if !ok {
		return models.Snapshot{}, false
	}
	return e.snapshot(), true
}

// Snapshots returns read models for every entity in symbol order.
func (b *Book) Snapshots() []models.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Snapshot, 0, len(b.symbols))
	for _, sym := range b.symbols {
		out = append(out, b.entities[sym].snapshot())
	}
	return out
}

// History returns a copy of the retained samples for one symbol,
// oldest first.
func (b *Book) History(symbol string) ([]models.Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entities[symbol]
	if !ok {
		return nil, false
	}
	return e.Series.All(), true
}

// Symbols returns the tracked symbols in sorted order.
func (b *Book) Symbols() []string {
	out := make([]string, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// snapshot is called with the book lock held.
func (e *Entity) snapshot() models.Snapshot {
	return models.Snapshot{
		Symbol:        e.Symbol,
		Name:          e.Name,
		Price:         e.Price,
		PrevPrice:     e.PrevPrice,
		Change:        e.Change,
		ChangePercent: e.ChangePercent,
		Volume:        e.Volume,
		High:          e.High,
		Low:           e.Low,
		MarketCap:     e.Shares * e.Price,
		Timestamp:     e.LastTimestamp,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
