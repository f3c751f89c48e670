package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/flowdesk/internal/core"
)

// replayHeader is the expected column order for recorded event files.
var replayHeader = []string{
	"event_time", "ticker", "right", "strike", "expiry", "contracts",
	"premium", "notional", "volume", "open_interest", "underlying_price",
	"sweep", "aggressive", "split",
}

// ReplayStream reads recorded flow events from CSV in order.
type ReplayStream struct {
	src    io.ReadCloser
	reader *csv.Reader
	line   int
}

// OpenReplay opens a recorded event file and validates its header. The path
// "-" reads from stdin.
func OpenReplay(path string) (*ReplayStream, error) {
	if path == "-" {
		return NewCSVStream(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}
	stream, err := NewCSVStream(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return stream, nil
}

// NewCSVStream wraps any reader carrying the recorded-event CSV format.
func NewCSVStream(src io.ReadCloser) (*ReplayStream, error) {
	r := csv.NewReader(src)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading replay header: %w", err)
	}
	if len(header) != len(replayHeader) {
		return nil, fmt.Errorf("replay header has %d columns, want %d", len(header), len(replayHeader))
	}
	for i, col := range replayHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("replay column %d is %q, want %q", i, header[i], col)
		}
	}
	return &ReplayStream{src: src, reader: r, line: 1}, nil
}

// Next returns the next recorded event, or io.EOF at the end of the file.
func (s *ReplayStream) Next(ctx context.Context) (core.FlowEvent, error) {
	if err := ctx.Err(); err != nil {
		return core.FlowEvent{}, err
	}

	row, err := s.reader.Read()
	if err == io.EOF {
		return core.FlowEvent{}, io.EOF
	}
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("reading replay row: %w", err)
	}
	s.line++

	event, err := parseRow(row)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("replay line %d: %w", s.line, err)
	}
	return event, nil
}

func (s *ReplayStream) Close() error { return s.src.Close() }

func parseRow(row []string) (core.FlowEvent, error) {
	eventTime, err := time.Parse(time.RFC3339, row[0])
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("event_time: %w", err)
	}
	expiry, err := time.Parse("2006-01-02", row[4])
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("expiry: %w", err)
	}

	strike, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("strike: %w", err)
	}
	contracts, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("contracts: %w", err)
	}
	premium, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("premium: %w", err)
	}
	notional, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("notional: %w", err)
	}
	volume, err := strconv.ParseInt(row[8], 10, 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("volume: %w", err)
	}
	openInterest, err := strconv.ParseInt(row[9], 10, 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("open_interest: %w", err)
	}
	underlying, err := strconv.ParseFloat(row[10], 64)
	if err != nil {
		return core.FlowEvent{}, fmt.Errorf("underlying_price: %w", err)
	}

	return core.FlowEvent{
		Ticker:          strings.ToUpper(strings.TrimSpace(row[1])),
		Right:           core.OptionRight(strings.ToUpper(strings.TrimSpace(row[2]))),
		Strike:          strike,
		Expiry:          expiry,
		Contracts:       contracts,
		Premium:         premium,
		Notional:        notional,
		Volume:          volume,
		OpenInterest:    openInterest,
		UnderlyingPrice: underlying,
		Sweep:           parseBool(row[11]),
		Aggressive:      parseBool(row[12]),
		Split:           parseBool(row[13]),
		EventTime:       eventTime,
	}, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
