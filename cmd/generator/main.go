package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/cmd/generator/internal/generator"
	"github.com/tickwatch/tickwatch/pkg/config"
	"github.com/tickwatch/tickwatch/pkg/listing"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// 2. Initialize Zap Logger
	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 3. Create Topic (Ensure it exists). Partition count matches the
	// processor worker pool so consumers can spread evenly.
	creator := generator.NewTopicCreator(logger, &generator.RealKafkaDialer{Dialer: kafka.DefaultDialer}, generator.RealClock{})
	creator.Create(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Processor.NumWorkers)

	// 4. Setup Kafka Writer (Production Tuning)
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
		// Optimization: Send batches to reduce network IO
		BatchSize:    100,                   // Send after 100 messages
		BatchTimeout: 10 * time.Millisecond, // OR send after 10ms
		Async:        true,                  // Write non-blocking (fire and forget handled by buffer)
	}

	tickers := cfg.Gateway.ValidTickers
	// Same reference table the processor seeds its book from, so the
	// first applied tick does not report a spurious change.
	prices := listing.BasePrices(tickers)

	// 5. Setup Shutdown Hook
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 6. Main Generator Loop
	gen := generator.NewTickGenerator(
		logger,
		writer,
		tickers,
		prices,
		generator.NewRealRand(time.Now().UnixNano()),
		generator.RealClock{},
	)
	go gen.Run(ctx)

	// 7. Wait for Shutdown Signal
	<-sigChan
	logger.Info("Shutdown signal received")
	cancel() // Stop the generation loop

	// 8. Flush Kafka Buffer (CRITICAL)
	if err := writer.Close(); err != nil {
		logger.Error("Error closing Kafka writer", zap.Error(err))
	} else {
		logger.Info("Kafka writer closed cleanly")
	}
}
