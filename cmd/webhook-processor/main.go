package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wahub/internal/config"
	"wahub/internal/constants"
	"wahub/internal/events"
	"wahub/internal/logger"
	"wahub/internal/messaging"
	"wahub/pkg/bootstrap"
	"wahub/pkg/logging"
	"wahub/pkg/migrations"
)

var (
	configFile  string
	payloadDir  string
	concurrency int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webhook-processor",
		Short: "Replay webhook payload files into the message store",
		Long:  "Reads *.json webhook payload files from a directory and ingests them through the same pipeline as the live webhook endpoint",
		RunE:  runProcessor,
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to config file (required)")
	rootCmd.Flags().StringVar(&payloadDir, "dir", "", "Directory containing webhook payload *.json files (required)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of files processed in parallel")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProcessor(cmd *cobra.Command, args []string) error {
	earlyLog := logging.NewEarlyLog()

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
		if configFile == "" {
			earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
			return fmt.Errorf("config file is required")
		}
	}
	if payloadDir == "" {
		earlyLog.Error("Payload directory is required. Use --dir flag")
		return fmt.Errorf("payload directory is required")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return err
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return err
	}
	defer log.Sync()

	ctx := context.Background()

	files, err := collectPayloadFiles(payloadDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warnw("No payload files found", "dir", payloadDir)
		return nil
	}

	connector := bootstrap.NewDatabaseConnector(cfg, log)

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mongoClient, err := connector.InitMongoDB(initCtx)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(ctx)

	dbName := cfg.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	db := mongoClient.Database(dbName)

	if err := migrations.EnsureMessageIndexes(initCtx, db); err != nil {
		return err
	}

	publisher, err := events.NewPublisher(cfg.Broker, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	businessNumber := cfg.Chat.BusinessNumber
	if businessNumber == "" {
		businessNumber = constants.DefaultBusinessNumber
	}

	svc := messaging.NewService(
		messaging.NewRepository(db),
		publisher,
		log,
		messaging.WithBusinessNumber(businessNumber),
	)

	log.Infow("Processing webhook payload files", "dir", payloadDir, "files", len(files))

	outcomes := make([]messaging.IngestOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			outcome, err := processFile(gctx, svc, file)
			if err != nil {
				log.Errorw("Failed to process payload file", "file", file, "error", err)
				return err
			}
			outcomes[i] = outcome
			log.Infow("Processed payload file", "file", filepath.Base(file), "outcome", outcome)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	counts := make(map[messaging.IngestOutcome]int)
	for _, outcome := range outcomes {
		counts[outcome]++
	}
	log.Infow("Finished processing payload files",
		"total", len(files),
		"created", counts[messaging.OutcomeCreated],
		"status_updated", counts[messaging.OutcomeStatusUpdated],
		"duplicates", counts[messaging.OutcomeDuplicate],
		"ignored", counts[messaging.OutcomeIgnored],
	)

	return nil
}

func collectPayloadFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	// Deterministic replay order; status payloads are named after the
	// messages they update, so lexical order keeps them in sequence.
	sort.Strings(files)
	return files, nil
}

func processFile(ctx context.Context, svc messaging.Service, path string) (messaging.IngestOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var payload messaging.WebhookPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	result, err := svc.Ingest(ctx, &payload)
	if err != nil {
		return "", err
	}

	return result.Outcome, nil
}
