// Package series specializes the bounded window for timestamped
// price/volume samples and derives chart-ready metrics from the
// currently retained contents.
package series

import (
	"time"

	"github.com/tickwatch/tickwatch/pkg/models"
	"github.com/tickwatch/tickwatch/pkg/window"
)

const defaultLabelCount = 5

// PriceSeries holds the retained tick history for one symbol. Derived
// values are computed from current contents on every call, never cached.
type PriceSeries struct {
	*window.Window[models.Sample]
}

// New returns a series retaining at most capacity samples.
func New(capacity int) (*PriceSeries, error) {
	w, err := window.New[models.Sample](capacity)
	if err != nil {
		return nil, err
	}
	return &PriceSeries{Window: w}, nil
}

// Prices returns the retained prices, oldest first.
func (s *PriceSeries) Prices() []float64 {
	samples := s.All()
	out := make([]float64, len(samples))
	for i, sm := range samples {
		out[i] = sm.Price
	}
	return out
}

// Timestamps returns the retained sample timestamps (unix milli), oldest first.
func (s *PriceSeries) Timestamps() []int64 {
	samples := s.All()
	out := make([]int64, len(samples))
	for i, sm := range samples {
		out[i] = sm.Timestamp
	}
	return out
}

// PriceChange reports newest minus oldest over the retained window.
// Earlier samples may already have been evicted, so this is the change
// across the visible history, not all-time. With fewer than two samples
// both values are 0. The percent is 0 when the oldest price is 0.
func (s *PriceSeries) PriceChange() (change, changePercent float64) {
	samples := s.All()
	if len(samples) < 2 {
		return 0, 0
	}
	oldest := samples[0].Price
	newest := samples[len(samples)-1].Price
	change = newest - oldest
	if oldest != 0 {
		changePercent = change / oldest * 100
	}
	return change, changePercent
}

// PriceRange reports min and max over the retained prices, {0,0} when empty.
func (s *PriceSeries) PriceRange() (min, max float64) {
	samples := s.All()
	if len(samples) == 0 {
		return 0, 0
	}
	min, max = samples[0].Price, samples[0].Price
	for _, sm := range samples[1:] {
		if sm.Price < min {
			min = sm.Price
		}
		if sm.Price > max {
			max = sm.Price
		}
	}
	return min, max
}

// Labels produces up to count evenly-strided time labels for charting.
// count <= 0 falls back to 5. Empty series yields an empty slice.
func (s *PriceSeries) Labels(count int) []string {
	if count <= 0 {
		count = defaultLabelCount
	}
	samples := s.All()
	if len(samples) == 0 {
		return []string{}
	}

	stride := len(samples) / count
	if stride < 1 {
		stride = 1
	}

	labels := make([]string, 0, count)
	for i := 0; i < len(samples) && len(labels) < count; i += stride {
		ts := time.UnixMilli(samples[i].Timestamp)
		labels = append(labels, ts.Format("15:04:05"))
	}
	return labels
}
