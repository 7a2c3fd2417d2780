package protocol

import "github.com/tickwatch/tickwatch/cmd/gateway/internal/ranking"

const (
	ActionSubscribe      = "subscribe"
	ActionUnsubscribe    = "unsubscribe"
	ActionUnsubscribeAll = "unsubscribe_all"
	ActionSearch         = "search"
	ActionRank           = "rank"
	ActionHistory        = "history"
)

type WSRequest struct {
	Action  string         `json:"action"`
	Payload RequestPayload `json:"payload"`
	ID      string         `json:"id,omitempty"`
}

type RequestPayload struct {
	Symbols []string           `json:"symbols,omitempty"`
	Query   string             `json:"query,omitempty"`
	Filters ranking.Filters    `json:"filters,omitempty"`
	Sort    ranking.SortConfig `json:"sort,omitempty"`
	Limit   int                `json:"limit,omitempty"` // history sample cap, 0 = all retained
}

type WSResponse struct {
	Type    string      `json:"type"`             // "ack", "error", "ticker", "result"
	ID      string      `json:"id,omitempty"`     // Matches request ID
	Status  string      `json:"status,omitempty"` // "success", "error"
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
