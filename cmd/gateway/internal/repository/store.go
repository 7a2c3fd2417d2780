package repository

import (
	"context"

	"github.com/tickwatch/tickwatch/pkg/models"
)

type PriceStore interface {
	// GetSnapshots returns the raw snapshot payloads, ready to push to
	// a client without re-encoding.
	GetSnapshots(ctx context.Context, symbols []string) ([]string, error)
	// GetUniverse returns decoded snapshots for screener queries.
	GetUniverse(ctx context.Context, symbols []string) ([]models.Snapshot, error)
	// GetHistory returns the retained samples for one symbol, oldest
	// first. limit <= 0 returns all retained samples.
	GetHistory(ctx context.Context, symbol string, limit int) ([]models.Sample, error)
	SubscribeToFeed(ctx context.Context, symbol string) error
	UnsubscribeFromFeed(ctx context.Context, symbol string) error
	RunPubSub(ctx context.Context, onMessage func(channel string, payload string))
	Close() error
}
