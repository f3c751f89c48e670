package paper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/config"
	"github.com/quantlab/flowdesk/internal/core"
	"github.com/quantlab/flowdesk/internal/paper"
)

// Walks one position through the whole lifecycle from the outside: open at
// the signal price, survive a quiet update, close on take-profit.
func TestPositionLifecycle(t *testing.T) {
	engine := paper.NewEngine(zap.NewNop())
	opened := time.Date(2026, 5, 11, 14, 30, 0, 0, time.UTC)

	sig := core.Signal{
		ID:        "sig-life",
		Ticker:    "TSLA",
		Kind:      core.KindScalp,
		Direction: core.Bullish,
		Event:     core.FlowEvent{Ticker: "TSLA", Right: core.RightCall, UnderlyingPrice: 243.40},
		CreatedAt: opened,
	}
	th := config.DefaultThresholds(core.KindScalp)

	pos := engine.Open(sig, th)
	require.NotNil(t, pos)
	require.NotEmpty(t, pos.ID)
	assert.Equal(t, paper.StatusOpen, pos.Status)
	assert.Equal(t, "sig-life", pos.SignalID)
	assert.InDelta(t, 248.268, pos.TP, 1e-9)
	assert.InDelta(t, 240.966, pos.SL, 1e-9)
	assert.Equal(t, opened.Add(th.MaxHold), pos.Deadline)

	// A drift inside the band changes nothing.
	closed := engine.UpdatePrices(map[string]float64{"TSLA": 244.10}, opened.Add(time.Minute))
	assert.Empty(t, closed)
	assert.Equal(t, 1, engine.OpenCount())

	closed = engine.UpdatePrices(map[string]float64{"TSLA": 248.50}, opened.Add(2*time.Minute))
	require.Len(t, closed, 1)
	assert.Equal(t, paper.StatusClosedTP, closed[0].Status)
	assert.Equal(t, 248.50, closed[0].ExitPrice)
	assert.InDelta(t, 2.0953, closed[0].ReturnPct, 0.001)
	assert.Equal(t, 0, engine.OpenCount())
}
