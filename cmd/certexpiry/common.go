package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivoronin/certexpiry/internal/certificate"
	"github.com/ivoronin/certexpiry/internal/config"
	"github.com/ivoronin/certexpiry/internal/logger"
	"github.com/ivoronin/certexpiry/internal/monitor"
	"github.com/ivoronin/certexpiry/internal/output"
	"github.com/ivoronin/certexpiry/internal/publisher"
)

// newCLILogger returns the stderr logger of one-shot commands.
func newCLILogger() (*zap.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.NewLogger(logger.Config{Level: level, Format: "text"})
}

// outputFormat resolves -o and the -j shorthand.
func outputFormat(name string, jsonFlag bool) (output.Format, error) {
	if jsonFlag {
		return output.FormatJSON, nil
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return format, fmt.Errorf("invalid --output: %w", err)
	}
	return format, nil
}

// readSnapshot loads the certificate at path once and derives its state.
func readSnapshot(path string, log *zap.Logger) (publisher.Snapshot, error) {
	model := certificate.New(path)
	if err := model.Err(); err != nil {
		log.Warn("Certificate unavailable", zap.String("path", path), zap.Error(err))
	}
	snap, err := publisher.NewSnapshot(config.DefaultEntity, monitor.TriggerManual, model, time.Now())
	if err != nil {
		return snap, fmt.Errorf("certificate %s: %w", path, err)
	}
	log.Debug("Certificate state derived",
		zap.String("path", path),
		zap.String("state", snap.State.String()))
	return snap, nil
}
