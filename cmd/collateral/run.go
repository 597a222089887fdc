package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"collateral-pipeline/internal/artifacts"
	"collateral-pipeline/internal/common/errors"
	"collateral-pipeline/internal/notify"
	"collateral-pipeline/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <record.json>...",
	Short: "Run the pipeline for one or more product records",
	Long: `run drives each record through parse, analyze, content, questions, the
question count gate, comparison and page build, then writes the artifacts of
every successful run to the configured sink. Runs are independent; one failure
does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecords,
}

func init() {
	runCmd.Flags().String("sink", "", "override output.sink (file, redis, postgres, elasticsearch)")
	runCmd.Flags().String("output-dir", "", "override output.dir for the file sink")
	runCmd.Flags().Int("concurrency", 0, "override pipeline.max_concurrent_runs")

	rootCmd.AddCommand(runCmd)
}

// runReport is printed once per input, in argument order.
type runReport struct {
	Input      string   `json:"input"`
	RunID      string   `json:"run_id,omitempty"`
	Status     string   `json:"status"`
	ErrorCode  string   `json:"error_code,omitempty"`
	Error      string   `json:"error,omitempty"`
	Trace      []string `json:"trace,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

func runRecords(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if v, _ := cmd.Flags().GetString("sink"); v != "" {
		a.cfg.Output.Sink = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		a.cfg.Output.Dir = v
	}
	limit := a.cfg.Pipeline.MaxConcurrentRuns
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		limit = v
	}

	ctx := cmd.Context()

	sink, closeSink, err := artifacts.NewSink(a.cfg.Output, a.cfg.Database)
	if err != nil {
		return err
	}
	defer closeSink()

	if pg, ok := sink.(*artifacts.PostgresSink); ok {
		if err := pg.EnsureTable(ctx); err != nil {
			return err
		}
	}

	opts := []pipeline.Option{pipeline.WithObservability(a.obs)}
	if sns := a.cfg.Notifications.SNS; sns.Enabled {
		n, err := notify.NewSNSNotifier(ctx, sns.Region, sns.TopicARN)
		if err != nil {
			return fmt.Errorf("sns notifier: %w", err)
		}
		opts = append(opts, pipeline.WithNotifier(n))
	}

	coord := pipeline.NewCoordinator(pipeline.NewEngine(a.stages, a.log), sink, a.log, opts...)

	reports := make([]runReport, len(args))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, path := range args {
		g.Go(func() error {
			reports[i] = runOne(ctx, coord, path)
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(cmd.OutOrStdout())
	failed := 0
	for _, r := range reports {
		if r.Status != notify.StatusSucceeded {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(args))
	}
	return nil
}

func runOne(ctx context.Context, coord *pipeline.Coordinator, path string) runReport {
	report := runReport{Input: path, Status: notify.StatusFailed}

	raw, err := readRecord(path)
	if err != nil {
		report.ErrorCode = string(errors.ErrCodeInputValidationFailed)
		report.Error = err.Error()
		return report
	}

	result, err := coord.Run(ctx, raw)
	if result != nil {
		report.RunID = result.RunID
		report.DurationMs = result.Duration.Milliseconds()
		for _, id := range result.Trace {
			report.Trace = append(report.Trace, string(id))
		}
	}
	if err != nil {
		report.ErrorCode = string(errors.Code(err))
		report.Error = err.Error()
		return report
	}
	report.Status = notify.StatusSucceeded
	return report
}

// readRecord loads a JSON object from path.
func readRecord(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}
