package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"collateral-pipeline/internal/common/camunda"
	"collateral-pipeline/internal/common/config"
	analyzeinput "collateral-pipeline/internal/workers/collateral/analyze-input"
	buildpages "collateral-pipeline/internal/workers/collateral/build-pages"
	checkquestioncount "collateral-pipeline/internal/workers/collateral/check-question-count"
	generatecomparison "collateral-pipeline/internal/workers/collateral/generate-comparison"
	generatecontent "collateral-pipeline/internal/workers/collateral/generate-content"
	generatequestions "collateral-pipeline/internal/workers/collateral/generate-questions"
	parseinput "collateral-pipeline/internal/workers/collateral/parse-input"
	evaluatecontent "collateral-pipeline/internal/workers/quality/evaluate-content"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Serve every stage as a Zeebe job worker",
	Long: `worker connects to the Zeebe gateway and opens one job worker per enabled
stage task type. The process model owns sequencing and the question retry loop.
Health, readiness and Prometheus metrics are served on camunda.health_port.`,
	RunE: serveWorkers,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func serveWorkers(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         a.cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
	})
	if err != nil {
		return err
	}
	defer zeebe.Close()
	a.log.Info("zeebe client connected", map[string]interface{}{"gateway": a.cfg.Camunda.BrokerAddress})

	handlers := map[string]camunda.JobHandler{
		parseinput.TaskType:         a.stages.Parse,
		analyzeinput.TaskType:       a.stages.Analyze,
		generatecontent.TaskType:    a.stages.Content,
		generatequestions.TaskType:  a.stages.Questions,
		checkquestioncount.TaskType: a.stages.Gate,
		generatecomparison.TaskType: a.stages.Comparison,
		buildpages.TaskType:         a.stages.Pages,
		evaluatecontent.TaskType:    a.evaluator,
	}

	var workers []*camunda.CamundaWorker
	for taskType, h := range handlers {
		if !config.IsWorkerEnabled(a.cfg, taskType) {
			a.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			continue
		}
		wcfg := config.GetWorkerConfig(a.cfg, taskType)
		maxActive := wcfg.MaxJobsActive
		if maxActive <= 0 {
			maxActive = a.cfg.Camunda.MaxJobsActive
		}
		timeout := wcfg.Timeout
		if timeout <= 0 {
			timeout = a.cfg.Camunda.Timeout
		}
		w := camunda.NewWorker(zeebe.GetClient(), taskType, maxActive, config.GetDuration(timeout), h, a.log)
		w.Start()
		workers = append(workers, w)
	}
	a.log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Camunda.HealthPort),
		Handler:           healthMux(zeebe),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-cmd.Context().Done()
	a.log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	a.log.Info("workers stopped gracefully", nil)
	return nil
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func healthMux(zeebe healthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
