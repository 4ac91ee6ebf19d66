package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core"
	"github.com/eddiefleurent/strangengine/internal/matching"
)

// loadTickCSV reads quote ticks from a CSV file with columns
// symbol,bid,ask,bid_size,ask_size,timestamp (RFC3339). This is CLI glue,
// not domain logic, so it stays on encoding/csv rather than a pack
// dependency — no example repo imports a market-data file format parser.
func loadTickCSV(path string) ([]matching.QuoteTick, error) {
	f, err := os.Open(path) // #nosec G304 -- path is an operator-provided tick file
	if err != nil {
		return nil, fmt.Errorf("opening tick file %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing tick file %q: %w", path, err)
	}

	var ticks []matching.QuoteTick
	for i, row := range rows {
		if len(row) != 6 {
			return nil, fmt.Errorf("tick file %q row %d: expected 6 columns, got %d", path, i, len(row))
		}
		symbol, err := core.NewSymbol(row[0])
		if err != nil {
			return nil, fmt.Errorf("tick file %q row %d: %w", path, i, err)
		}
		bid, err := core.NewPrice(row[1], 4)
		if err != nil {
			return nil, fmt.Errorf("tick file %q row %d: %w", path, i, err)
		}
		ask, err := core.NewPrice(row[2], 4)
		if err != nil {
			return nil, fmt.Errorf("tick file %q row %d: %w", path, i, err)
		}
		bidSize, err := core.NewQuantity(row[3], 0)
		if err != nil {
			return nil, fmt.Errorf("tick file %q row %d: %w", path, i, err)
		}
		askSize, err := core.NewQuantity(row[4], 0)
		if err != nil {
			return nil, fmt.Errorf("tick file %q row %d: %w", path, i, err)
		}
		ts, err := time.Parse(time.RFC3339, row[5])
		if err != nil {
			return nil, fmt.Errorf("tick file %q row %d: %w", path, i, err)
		}
		ticks = append(ticks, matching.QuoteTick{
			Symbol: symbol, Bid: bid, Ask: ask, BidSize: bidSize, AskSize: askSize, Timestamp: ts,
		})
	}
	return ticks, nil
}
