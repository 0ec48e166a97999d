package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mohamedkhairy/stock-screener/internal/config"
	"github.com/mohamedkhairy/stock-screener/internal/dataset"
	"github.com/mohamedkhairy/stock-screener/internal/engine"
	"github.com/mohamedkhairy/stock-screener/pkg/indicator"
	"github.com/mohamedkhairy/stock-screener/pkg/logger"
)

// screener applies a JSON filter to a CSV snapshot of OHLCV rows and prints
// the matching rows. It is a development harness around the engine; real
// dataset ingestion lives outside this module.
//
// Expected CSV header: symbol,time,open,high,low,close,volume[,extra...]
// with time in RFC 3339.

func main() {
	dataPath := flag.String("data", "", "path to OHLCV CSV snapshot")
	filterPath := flag.String("filter", "", "path to filter JSON file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *dataPath == "" || *filterPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: screener -data <snapshot.csv> -filter <filter.json>")
		os.Exit(2)
	}

	ds, err := loadCSVDataset(*dataPath)
	if err != nil {
		logger.Fatal("Failed to load dataset", logger.ErrorField(err))
	}

	filterJSON, err := os.ReadFile(*filterPath)
	if err != nil {
		logger.Fatal("Failed to read filter", logger.ErrorField(err))
	}

	eng, err := engine.New(cfg.Engine, indicator.DefaultRegistry())
	if err != nil {
		logger.Fatal("Failed to create engine", logger.ErrorField(err))
	}

	logger.Info("Applying filter",
		logger.String("dataset", *dataPath),
		logger.String("filter", *filterPath),
		logger.Int("rows", ds.Len()),
	)

	result, err := eng.Apply(context.Background(), ds, filterJSON)
	if err != nil {
		structured := engine.AsEngineError(err)
		out, _ := json.MarshalIndent(structured, "", "  ")
		fmt.Fprintln(os.Stderr, string(out))
		os.Exit(1)
	}

	printResult(ds, result)
}

func loadCSVDataset(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset must have a header row and at least one data row")
	}

	header := records[0]
	if len(header) < 2 || header[0] != "symbol" || header[1] != "time" {
		return nil, fmt.Errorf("CSV header must start with symbol,time")
	}

	builder := dataset.NewBuilder("")
	for line, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line+2, len(header), len(record))
		}

		t, err := time.Parse(time.RFC3339, record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid time %q: %w", line+2, record[1], err)
		}

		values := make(map[string]float64, len(header)-2)
		labels := make(map[string]string)
		for col := 2; col < len(header); col++ {
			if v, err := strconv.ParseFloat(record[col], 64); err == nil {
				values[header[col]] = v
			} else {
				labels[header[col]] = record[col]
			}
		}
		builder.AddLabeledRow(record[0], t, values, labels)
	}

	return builder.Build()
}

func printResult(ds *dataset.Dataset, result *engine.FilteredResult) {
	columns := ds.ColumnNames()

	fmt.Printf("matched %d of %d rows\n", result.Diagnostics.RowsMatched, result.Diagnostics.RowsTotal)
	for _, row := range result.Rows {
		fmt.Printf("%s %s", row.Symbol, row.Time.Format(time.RFC3339))
		for _, name := range columns {
			fmt.Printf(" %s=%g", name, row.Values[name])
		}
		fmt.Println()
	}

	for _, ct := range result.Diagnostics.PerCondition {
		fmt.Printf("condition[%d]: %s\n", ct.Index, ct.Duration)
	}
	fmt.Printf("elapsed: %s (cache hit: %v)\n", result.Diagnostics.Elapsed, result.Diagnostics.CacheHit)
}
