// Package ingest supplies flow events to the pipeline. Live acquisition is
// provider-specific and plugs in behind the Stream interface; the replay
// stream reads recorded events back from CSV.
package ingest

import (
	"context"

	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/marketctx"
)

// Stream yields flow events one at a time. Next returns io.EOF when the
// stream is exhausted.
type Stream interface {
	Next(ctx context.Context) (core.FlowEvent, error)
	Close() error
}

// SnapshotProvider supplies the market snapshot the context attacher reads
// for a ticker at evaluation time.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ticker string) (marketctx.Snapshot, error)
}

// StaticSnapshots is a fixed snapshot table, used by replays and tests.
// Unknown tickers resolve to an empty snapshot, which the attacher degrades
// to an all-unknown context.
type StaticSnapshots map[string]marketctx.Snapshot

func (s StaticSnapshots) Snapshot(ctx context.Context, ticker string) (marketctx.Snapshot, error) {
	snap, ok := s[ticker]
	if !ok {
		return marketctx.Snapshot{Ticker: ticker}, nil
	}
	return snap, nil
}
