// Package csvlog appends signals and paper-trade outcomes to flat CSV files
// so runs can be inspected and diffed with ordinary tools. Files live in the
// configured log directory and rotate into the archive backend.
package csvlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/paper"
	"github.com/quantlab/flowdesk/internal/storage/archive"
)

const (
	SignalsFile = "signals_log.csv"
	TradesFile  = "paper_trades_log.csv"

	timeLayout = time.RFC3339
)

var signalHeader = []string{
	"created_at", "id", "ticker", "kind", "direction", "strength",
	"tags", "rules", "notional", "dte", "strike", "expiry", "underlying",
}

var tradeHeader = []string{
	"closed_at", "position_id", "signal_id", "ticker", "kind", "direction",
	"status", "entry", "exit", "return_pct", "opened_at",
}

// Logger appends rows to the two activity files. Safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	return &Logger{dir: dir}, nil
}

// AppendSignal writes one emitted signal row.
func (l *Logger) AppendSignal(sig core.Signal) error {
	return l.append(SignalsFile, signalHeader, []string{
		sig.CreatedAt.UTC().Format(timeLayout),
		sig.ID,
		sig.Ticker,
		string(sig.Kind),
		string(sig.Direction),
		formatFloat(sig.Strength),
		strings.Join(sig.Tags, "|"),
		strings.Join(sig.Rules, "|"),
		formatFloat(sig.Event.Notional),
		strconv.Itoa(sig.Event.DTE()),
		formatFloat(sig.Event.Strike),
		sig.Event.Expiry.UTC().Format("2006-01-02"),
		formatFloat(sig.Event.UnderlyingPrice),
	})
}

// AppendTrade writes one closed paper position row.
func (l *Logger) AppendTrade(pos *paper.Position) error {
	return l.append(TradesFile, tradeHeader, []string{
		pos.ClosedAt.UTC().Format(timeLayout),
		pos.ID,
		pos.SignalID,
		pos.Ticker,
		string(pos.Kind),
		string(pos.Direction),
		string(pos.Status),
		formatFloat(pos.Entry),
		formatFloat(pos.ExitPrice),
		formatFloat(pos.ReturnPct),
		pos.OpenedAt.UTC().Format(timeLayout),
	})
}

func (l *Logger) append(name string, header, row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.dir, name)
	fresh := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fresh = true
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Rotate pushes both activity files into the archive under a dated prefix
// and removes the hot copies. Missing files are skipped.
func (l *Logger) Rotate(ctx context.Context, store archive.Storage, day time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := "logs/" + day.UTC().Format("2006-01-02")
	for _, name := range []string{SignalsFile, TradesFile} {
		path := filepath.Join(l.dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := store.Put(ctx, prefix+"/"+name, data); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
