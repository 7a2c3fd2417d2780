package tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/cmd/processor/internal/book"
	"github.com/tickwatch/tickwatch/cmd/processor/internal/processor"
	"github.com/tickwatch/tickwatch/cmd/processor/internal/testutils"
	"github.com/tickwatch/tickwatch/pkg/config"
	"github.com/tickwatch/tickwatch/pkg/models"
)

func TestProcessor_EndToEnd_Flow(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ticks := []models.Sample{
		{Symbol: "GOOGL", Price: 1500.50, Volume: 12, Timestamp: 1000, SeqID: 100},
		{Symbol: "GOOGL", Price: 1502.25, Volume: 8, Timestamp: 2000, SeqID: 101},
	}
	var msgs []kafka.Message
	for _, u := range ticks {
		val, _ := json.Marshal(u)
		msgs = append(msgs, kafka.Message{Key: []byte(u.Symbol), Value: val})
	}
	// Use Mock Reader because spinning up real Kafka is heavy/complex for unit tests
	mockReader := &testutils.MockKafkaReader{Messages: msgs}

	cfg := &config.Config{}
	cfg.Processor.NumWorkers = 1
	cfg.Screener.WindowCapacity = 50
	cfg.Screener.FlushIntervalMs = 30
	logger := zap.NewNop()

	bk, err := book.New(cfg.Screener.WindowCapacity, book.SeedsFor([]string{"GOOGL"}))
	if err != nil {
		t.Fatalf("book.New failed: %v", err)
	}

	proc := processor.NewProcessor(cfg, logger, rdb, mockReader, bk)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		proc.Run(ctx)
		close(done)
	}()

	// Poll until the key appears (since flushes are async)
	success := false
	for i := 0; i < 20; i++ {
		if mr.Exists("quote:GOOGL") {
			success = true
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if !success {
		t.Fatal("Processor did not write quote:GOOGL to Redis")
	}

	savedVal, _ := mr.Get("quote:GOOGL")
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(savedVal), &snap); err != nil {
		t.Fatalf("Stored snapshot is not valid JSON: %v", err)
	}
	// Both ticks fall inside one coalescer window: only the later survives.
	if snap.Price != 1502.25 {
		t.Errorf("Expected coalesced price 1502.25, got %v", snap.Price)
	}
	if snap.Name != "Alphabet Inc." {
		t.Errorf("Expected seeded display name, got %q", snap.Name)
	}

	// The history mirror holds the applied tick and stays bounded.
	histLen, err := rdb.LLen(ctx, "history:GOOGL").Result()
	if err != nil {
		t.Fatalf("LLEN failed: %v", err)
	}
	if histLen < 1 || histLen > int64(cfg.Screener.WindowCapacity) {
		t.Errorf("History length %d outside [1, %d]", histLen, cfg.Screener.WindowCapacity)
	}

	cancel()
	<-done
}
