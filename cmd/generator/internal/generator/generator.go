package generator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/pkg/models"
)

type TickGenerator struct {
	logger      *zap.Logger
	writer      KafkaWriter
	tickers     []string
	basePrices  map[string]float64
	rand        Rand
	clock       Clock
	seqCounters map[string]int64
}

func NewTickGenerator(
	logger *zap.Logger,
	writer KafkaWriter,
	tickers []string,
	basePrices map[string]float64,
	rnd Rand,
	clock Clock,
) *TickGenerator {
	return &TickGenerator{
		logger:      logger,
		writer:      writer,
		tickers:     tickers,
		basePrices:  basePrices,
		rand:        rnd,
		clock:       clock,
		seqCounters: make(map[string]int64),
	}
}

func (tg *TickGenerator) Run(ctx context.Context) {
	tg.logger.Info("Generator Started", zap.Strings("tickers", tg.tickers))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if len(tg.tickers) == 0 {
				tg.clock.Sleep(1 * time.Second)
				continue
			}

			symbol := tg.tickers[tg.rand.Intn(len(tg.tickers))]
			fluctuation := (tg.rand.Float64() * 10) - 5
			price := tg.basePrices[symbol] + fluctuation
			volume := int64(tg.rand.Intn(1000)) + 1
			tg.seqCounters[symbol]++

			sample := models.Sample{
				Symbol:    symbol,
				Price:     price,
				Volume:    volume,
				Timestamp: tg.clock.Now().UnixMilli(),
				SeqID:     tg.seqCounters[symbol],
			}

			payload, _ := json.Marshal(sample) // Error ignored for simplicity in loop

			err := tg.writer.WriteMessages(ctx, kafka.Message{
				Key:   []byte(symbol),
				Value: payload,
			})

			if err != nil {
				tg.logger.Error("Kafka Write Error", zap.Error(err))
			}

			tg.clock.Sleep(100 * time.Millisecond)
		}
	}
}
