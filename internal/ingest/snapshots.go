package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/quantlab/flowdesk/internal/marketctx"
)

// LoadSnapshots reads a ticker-to-snapshot table from a JSON file. Replays
// use it to reconstruct the market context that surrounded recorded events.
func LoadSnapshots(path string) (StaticSnapshots, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	var raw map[string]marketctx.Snapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing snapshot file: %w", err)
	}

	snaps := make(StaticSnapshots, len(raw))
	for ticker, snap := range raw {
		key := strings.ToUpper(strings.TrimSpace(ticker))
		snap.Ticker = key
		snaps[key] = snap
	}
	return snaps, nil
}
