package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantlab/flowdesk/internal/app"
	"github.com/quantlab/flowdesk/internal/ingest"
	"github.com/quantlab/flowdesk/internal/logger"
	"github.com/quantlab/flowdesk/internal/paper"
	"github.com/quantlab/flowdesk/internal/storage/signal"
)

var (
	replayFile      string
	replaySnapshots string
	replayRotate    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded event file through the pipeline",
	Long: `Runs recorded flow events through the full pipeline and prints a
summary of the signals and simulated trades they produced. Alerts route as
configured; with no routing config they are dry-run logged.`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayFile, "file", "", "recorded event CSV (required)")
	replayCmd.Flags().StringVar(&replaySnapshots, "snapshots", "", "market snapshot file (JSON)")
	replayCmd.Flags().BoolVar(&replayRotate, "rotate", false, "archive the activity logs when done")
	replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.Must(debug || cfg.App.Development, cfg.App.LogLevel)
	defer log.Sync()

	var snapshots ingest.SnapshotProvider
	if replaySnapshots != "" {
		snapshots, err = ingest.LoadSnapshots(replaySnapshots)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	pipeline, err := app.New(ctx, cfg, snapshots, nil, log)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	stream, err := ingest.OpenReplay(replayFile)
	if err != nil {
		return err
	}
	defer stream.Close()

	var events, rejected int
	var last time.Time
	for {
		event, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("skipping bad row", zap.Error(err))
			continue
		}
		events++
		last = event.EventTime
		if _, err := pipeline.ProcessEvent(ctx, event); err != nil {
			rejected++
		}
	}

	// Sweep any positions still waiting on their deadline.
	if !last.IsZero() {
		pipeline.UpdatePrices(nil, last.Add(8*24*time.Hour))
	}

	printReplaySummary(ctx, pipeline, events, rejected)

	if replayRotate && !last.IsZero() {
		if err := pipeline.RotateLogs(ctx, last); err != nil {
			return err
		}
	}
	return nil
}

func printReplaySummary(ctx context.Context, pipeline *app.App, events, rejected int) {
	total, _ := pipeline.Store().Count(ctx, signal.ListFilter{})
	fmt.Printf("events: %d (rejected %d)\n", events, rejected)
	fmt.Printf("signals: %d\n", total)

	outcomes := map[paper.Status]int{}
	var sumReturn float64
	var closed int
	for _, pos := range pipeline.Paper().Positions() {
		outcomes[pos.Status]++
		if pos.Closed() {
			closed++
			sumReturn += pos.ReturnPct
		}
	}
	fmt.Printf("paper positions: %d open, %d tp, %d sl, %d timeout\n",
		outcomes[paper.StatusOpen],
		outcomes[paper.StatusClosedTP],
		outcomes[paper.StatusClosedSL],
		outcomes[paper.StatusClosedTimeout])
	if closed > 0 {
		fmt.Printf("avg return: %+.2f%%\n", sumReturn/float64(closed))
	}
}
