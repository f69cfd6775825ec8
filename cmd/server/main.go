// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log" // Standard log for messages before zap is available
	"os"
	"os/signal"
	"syscall"

	"gamehub_backend/internal/config"
	platformElasticsearch "gamehub_backend/internal/platform/elasticsearch"

	"go.uber.org/zap"
)

func main() {
	reconcileCmd := flag.NewFlagSet("reconcile", flag.ExitOnError)
	batchSize := reconcileCmd.Int("batch-size", 0, "Maximum entries to repair (defaults to RECONCILE_BATCH_SIZE)")

	if len(os.Args) > 1 && os.Args[1] == "reconcile" {
		_ = reconcileCmd.Parse(os.Args[2:])
		runReconcile(*batchSize)
		return
	}

	startServer()
}

// runReconcile performs one repair pass over the reconciliation ledger and exits.
func runReconcile(batchSize int) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for reconcile: %v", err)
	}
	if batchSize <= 0 {
		batchSize = cfg.ReconcileBatchSize
	}

	job, cleanup, err := initializeReconciliationJob(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize reconciliation: %v", err)
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	summary, err := job.Run(ctx, batchSize)
	if err != nil {
		log.Printf("ERROR: Reconciliation failed: %v", err)
		cleanup()
		os.Exit(1)
	}
	log.Printf("INFO: Reconciliation finished: processed=%d resolved=%d retrying=%d abandoned=%d",
		summary.Processed, summary.Resolved, summary.Retrying, summary.Abandoned)
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if err := platformElasticsearch.CreateSignupEventsIndexIfNotExists(context.Background(), server.ESClient, server.AppLogger); err != nil {
		// Audit events are best effort; indexing will keep failing softly.
		server.AppLogger.Error("Failed to create Elasticsearch signup events index", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
}
