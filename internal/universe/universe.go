// Package universe resolves the set of tickers the pipeline watches.
// Resolution order: an external provider if one is wired, then the
// configured fallback list, then the built-in default. The result is always
// deduplicated, uppercased, and capped.
package universe

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/config"
)

// defaultUniverse covers the liquid large caps and index products that
// dominate options flow.
var defaultUniverse = []string{
	"SPY", "QQQ", "IWM",
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "TSLA",
	"AMD", "NFLX", "AVGO", "CRM", "COIN", "PLTR", "SMCI",
	"JPM", "BAC", "GS",
	"XOM", "CVX",
}

// Provider supplies a dynamic ticker universe, for example from a screener
// endpoint.
type Provider interface {
	Tickers(ctx context.Context) ([]string, error)
}

// Universe is the resolved watch set.
type Universe struct {
	tickers []string
	members map[string]struct{}
}

// Resolve builds the universe. Provider failures fall through to the
// configured fallback, then the built-in default.
func Resolve(ctx context.Context, cfg config.UniverseConfig, provider Provider, log *zap.Logger) *Universe {
	if log == nil {
		log = zap.NewNop()
	}

	var raw []string
	if provider != nil {
		tickers, err := provider.Tickers(ctx)
		if err != nil {
			log.Warn("universe provider failed, using fallback", zap.Error(err))
		} else {
			raw = tickers
		}
	}
	if len(raw) == 0 {
		raw = cfg.Fallback
	}
	if len(raw) == 0 {
		raw = defaultUniverse
	}

	u := &Universe{members: make(map[string]struct{})}
	for _, t := range raw {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker == "" {
			continue
		}
		if _, seen := u.members[ticker]; seen {
			continue
		}
		if cfg.MaxTickers > 0 && len(u.tickers) >= cfg.MaxTickers {
			break
		}
		u.members[ticker] = struct{}{}
		u.tickers = append(u.tickers, ticker)
	}

	log.Info("universe resolved", zap.Int("tickers", len(u.tickers)))
	return u
}

// Contains reports whether the ticker is watched.
func (u *Universe) Contains(ticker string) bool {
	_, ok := u.members[strings.ToUpper(ticker)]
	return ok
}

// Tickers returns the watch list in resolution order.
func (u *Universe) Tickers() []string {
	out := make([]string, len(u.tickers))
	copy(out, u.tickers)
	return out
}

// Size returns the number of watched tickers.
func (u *Universe) Size() int { return len(u.tickers) }
