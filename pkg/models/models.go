package models

// Sample is a single market tick for a symbol.
type Sample struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"timestamp"` // unix milli
	SeqID     int64   `json:"seq_id"`    // monotonic counter per symbol
}

// Snapshot is the read model for one tracked symbol, published by the
// processor after every coalesced flush and served to gateway clients.
type Snapshot struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PrevPrice     float64 `json:"prev_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"` // cumulative for the session
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	MarketCap     float64 `json:"market_cap"`
	Timestamp     int64   `json:"timestamp"` // unix milli of the applied tick
}
