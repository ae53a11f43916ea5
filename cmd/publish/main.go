// Command publish reads a YAML roster file and sends it as a snapshot.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/config"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/logging"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/publish"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/roster"
)

func main() {
	cfg := config.Load()

	file := flag.String("file", "roster.yaml", "path to the YAML roster file")
	topic := flag.String("topic", cfg.SnapshotTopic, "snapshot topic")
	timeout := flag.Duration("timeout", 30*time.Second, "publish timeout")
	flag.Parse()

	logger := logging.New(cfg.LogLevel)

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("failed to open roster file", "file", *file, "error", err)
		os.Exit(1)
	}
	payload, err := publish.ReadYAML(f)
	f.Close()
	if err != nil {
		logger.Error("failed to read roster file", "file", *file, "error", err)
		os.Exit(1)
	}

	_, report := domain.NormalizeAndPartition(payload.Events)
	if report.Skipped() > 0 {
		logger.Warn("roster rows will be skipped by consumers",
			"skipped_weekday", report.SkippedWeekday,
			"skipped_start_time", report.SkippedStartTime)
	}

	revision, err := send(publish.NewKafkaProducer(cfg.KafkaBrokers), *topic, *timeout, payload)
	if err != nil {
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
	logger.Info("snapshot published", "topic", *topic, "revision", revision, "events", len(payload.Events), "kept", report.Kept)
}

type snapshotWriter interface {
	publish.MessageWriter
	io.Closer
}

// send publishes payload and closes writer before returning, so main can
// exit on error without skipping cleanup.
func send(writer snapshotWriter, topic string, timeout time.Duration, payload roster.Payload) (string, error) {
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return publish.NewPublisher(writer, topic).Publish(ctx, payload)
}
