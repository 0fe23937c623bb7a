// Command backfill loads historical activity rows from a CSV file into
// ClickHouse. Expected input: a header line, then user_id,date rows where
// date is YYYY-MM or YYYY-MM-DD. Rows that fail to parse are skipped and
// counted, never fatal.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/cohortics/churn-analytics-service/internal/config"
	"github.com/cohortics/churn-analytics-service/internal/domain"
	"github.com/cohortics/churn-analytics-service/internal/logger"
	"github.com/cohortics/churn-analytics-service/internal/repository/clickhouse"
)

func main() {
	input := flag.String("input", "", "Path to the activity CSV (user_id,date)")
	batchSize := flag.Int("batch_size", 1000, "Rows per insert batch")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: backfill --input activity.csv [--batch_size 1000]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	repo := clickhouse.NewRepository(chClient, log)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	file, err := os.Open(*input)
	if err != nil {
		log.Fatal("Failed to open input file", zap.String("path", *input), zap.Error(err))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		log.Fatal("Failed to stat input file", zap.Error(err))
	}

	bar := progressbar.DefaultBytes(info.Size(), "backfilling")
	reader := csv.NewReader(io.TeeReader(file, bar))
	reader.FieldsPerRecord = -1

	// Skip the header line.
	if _, err := reader.Read(); err != nil {
		log.Fatal("Failed to read CSV header", zap.Error(err))
	}

	var parsed, skipped, inserted int
	batch := make([]*domain.ActivityFact, 0, *batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := repo.InsertBatch(ctx, batch)
		if err != nil {
			log.Fatal("Failed to insert batch", zap.Error(err))
		}
		inserted += n
		batch = batch[:0]
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(record) < 2 || record[0] == "" {
			skipped++
			continue
		}

		month, err := domain.ParseMonth(record[1])
		if err != nil {
			skipped++
			continue
		}

		data := fmt.Sprintf("%s|%s", record[0], month)
		hash := sha256.Sum256([]byte(data))

		batch = append(batch, &domain.ActivityFact{
			FactID:     hex.EncodeToString(hash[:]),
			UserID:     record[0],
			Month:      month,
			RecordedAt: time.Now().UTC(),
			Version:    uint64(time.Now().UnixNano()),
		})
		parsed++

		if len(batch) >= *batchSize {
			flush()
		}
	}
	flush()

	log.Info("Backfill complete",
		zap.Int("parsed", parsed),
		zap.Int("skipped", skipped),
		zap.Int("inserted", inserted))

	fmt.Printf("parsed=%d ; skipped=%d ; inserted=%d\n", parsed, skipped, inserted)
}
