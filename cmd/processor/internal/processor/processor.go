package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/cmd/processor/internal/book"
	"github.com/tickwatch/tickwatch/pkg/coalesce"
	"github.com/tickwatch/tickwatch/pkg/config"
	"github.com/tickwatch/tickwatch/pkg/models"
)

const (
	quotePrefix   = "quote:"
	historyPrefix = "history:"
	channelPrefix = "quotes."
	snapshotTTL   = 1 * time.Hour
)

type Processor struct {
	cfg           *config.Config
	logger        Logger
	rdb           RedisClient
	reader        KafkaReader
	book          *book.Book
	numWorkers    int
	flushInterval time.Duration
}

func NewProcessor(cfg *config.Config, logger Logger, rdb RedisClient, reader KafkaReader, bk *book.Book) *Processor {
	return &Processor{
		cfg:           cfg,
		logger:        logger,
		rdb:           rdb,
		reader:        reader,
		book:          bk,
		numWorkers:    cfg.Processor.NumWorkers,
		flushInterval: time.Duration(cfg.Screener.FlushIntervalMs) * time.Millisecond,
	}
}

func (p *Processor) Run(ctx context.Context) error {
	workerChans := make([]chan []byte, p.numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < p.numWorkers; i++ {
		workerChans[i] = make(chan []byte, 100)
		wg.Add(1)
		go p.worker(i, workerChans[i], &wg)
	}

	readerDone := make(chan struct{})
	go func() {
		// The reader owns the worker channels: they close here, after
		// the last send, so a shutdown can never race an in-flight
		// message against a closed channel.
		defer func() {
			for _, ch := range workerChans {
				close(ch)
			}
			close(readerDone)
		}()

		p.logger.Info("Processor Started",
			zap.Int("workers", p.numWorkers),
			zap.Duration("flush_interval", p.flushInterval))
		for {
			m, err := p.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
					return
				}
				p.logger.Error("Kafka Read Error", zap.Error(err))
				continue
			}

			// Deterministic Sharding: Same symbol always goes to same worker
			workerID := getWorkerID(m.Key, p.numWorkers)

			select {
			case workerChans[workerID] <- m.Value:
			case <-ctx.Done():
				return
			default:
				p.logger.Warn("Dropping slow packet", zap.String("key", string(m.Key)), zap.Int("worker_id", workerID))
			}
		}
	}()

	<-ctx.Done()
	p.logger.Info("Shutdown signal received, stopping processor...")

	<-readerDone
	p.logger.Info("Waiting for workers to drain...")
	wg.Wait()

	return nil
}

// worker owns every symbol hashed to it: the per-worker coalescer plus
// sharding means each entity has exactly one writer.
func (p *Processor) worker(id int, msgs <-chan []byte, wg *sync.WaitGroup) {
	defer wg.Done()

	co, err := coalesce.NewCoalescer(p.flushInterval, func(batch map[string]models.Sample) {
		p.flushBatch(id, batch)
	})
	if err != nil {
		p.logger.Fatal("Coalescer init failed", zap.Error(err), zap.Int("worker_id", id))
		return
	}
	// Discard in-flight state on shutdown rather than racing a final flush.
	defer co.Stop()

	// Local state for deduplication (only works because of deterministic sharding)
	lastSeq := make(map[string]int64)

	for payload := range msgs {
		var sample models.Sample
		if err := json.Unmarshal(payload, &sample); err != nil {
			p.logger.Error("JSON Unmarshal Error", zap.Error(err))
			continue
		}

		// Malformed ticks are dropped at this boundary so they can
		// never corrupt entity state.
		if sample.Symbol == "" || sample.Timestamp <= 0 {
			p.logger.Warn("Dropping malformed tick",
				zap.String("symbol", sample.Symbol),
				zap.Int64("timestamp", sample.Timestamp))
			continue
		}

		if sample.SeqID <= lastSeq[sample.Symbol] {
			p.logger.Debug("Skipping duplicate update", zap.String("symbol", sample.Symbol), zap.Int64("seq_id", sample.SeqID))
			continue
		}
		lastSeq[sample.Symbol] = sample.SeqID

		// Last-write-wins per symbol until the next flush.
		co.Record(sample.Symbol, sample)
	}
}

// flushBatch applies one coalesced batch to the book and mirrors the
// results to Redis in a single pipeline: snapshot SET, bounded history
// list, and a pubsub notification per symbol.
func (p *Processor) flushBatch(workerID int, batch map[string]models.Sample) {
	ctx := context.Background() // Background context prevents cancellation mid-Redis write

	// Typed against the narrow Pipeliner so the flush path only sees
	// the commands it is allowed to issue.
	var pipe Pipeliner = p.rdb.Pipeline()
	applied := 0

	for symbol, sample := range batch {
		snap, ok := p.book.Apply(sample)
		if !ok {
			p.logger.Warn("Tick for untracked symbol", zap.String("symbol", symbol))
			continue
		}

		snapJSON, err := json.Marshal(snap)
		if err != nil {
			p.logger.Error("Snapshot Marshal Error", zap.Error(err), zap.String("symbol", symbol))
			continue
		}
		sampleJSON, err := json.Marshal(sample)
		if err != nil {
			p.logger.Error("Sample Marshal Error", zap.Error(err), zap.String("symbol", symbol))
			continue
		}

		histKey := historyPrefix + symbol
		pipe.Set(ctx, quotePrefix+symbol, snapJSON, snapshotTTL)
		pipe.LPush(ctx, histKey, sampleJSON)
		pipe.LTrim(ctx, histKey, 0, int64(p.cfg.Screener.WindowCapacity)-1)
		pipe.Publish(ctx, fmt.Sprintf("%s%s", channelPrefix, symbol), snapJSON)
		applied++
	}

	if applied == 0 {
		return
	}

	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Error("Redis Pipeline Error", zap.Error(err), zap.Int("worker_id", workerID))
	} else {
		p.logger.Debug("Flushed batch", zap.Int("symbols", applied), zap.Int("worker_id", workerID))
	}
}

func getWorkerID(key []byte, numWorkers int) int {
	h := fnv.New32a()
	h.Write(key)
	return int(h.Sum32()) % numWorkers
}
