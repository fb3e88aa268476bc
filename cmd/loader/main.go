// Command loader publishes an employee JSON file to the load subject and
// waits for the reply.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/CodeWithNed/company-vector-db/engine/ingest"
	"github.com/CodeWithNed/company-vector-db/pkg/natsutil"
)

func main() {
	_ = godotenv.Load()

	var (
		natsURL = flag.String("nats", envOr("NATS_URL", nats.DefaultURL), "NATS server URL")
		file    = flag.String("file", envOr("DATA_FILE", "company_data.json"), "employee JSON file")
		timeout = flag.Duration("timeout", 2*time.Minute, "load request timeout")
		fire    = flag.Bool("async", false, "publish without waiting for a reply")
	)
	flag.Parse()

	log := slog.Default()
	if err := run(*natsURL, *file, *timeout, *fire, log); err != nil {
		log.Error("load failed", "err", err)
		os.Exit(1)
	}
}

func run(natsURL, file string, timeout time.Duration, fire bool, log *slog.Logger) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	var batch ingest.LoadBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	if len(batch.Results) == 0 {
		return fmt.Errorf("%s contains no employees", file)
	}

	nc, err := nats.Connect(natsURL, nats.Name("company-vector-db-loader"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if fire {
		if err := natsutil.Publish(ctx, nc, ingest.LoadSubject, batch); err != nil {
			return err
		}
		if err := nc.Flush(); err != nil {
			return err
		}
		log.Info("batch published", "employees", len(batch.Results), "subject", ingest.LoadSubject)
		return nil
	}

	reply, err := natsutil.Request[ingest.LoadBatch, ingest.LoadReply](ctx, nc, ingest.LoadSubject, batch)
	if err != nil {
		return err
	}
	if reply.Error != "" {
		return fmt.Errorf("loader rejected batch: %s", reply.Error)
	}
	log.Info("batch loaded", "employees", reply.Loaded)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
