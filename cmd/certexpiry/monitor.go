package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivoronin/certexpiry/internal/certificate"
	"github.com/ivoronin/certexpiry/internal/condition"
	"github.com/ivoronin/certexpiry/internal/config"
	"github.com/ivoronin/certexpiry/internal/logger"
	"github.com/ivoronin/certexpiry/internal/monitor"
	"github.com/ivoronin/certexpiry/internal/publisher"
	"github.com/ivoronin/certexpiry/internal/server"
)

var (
	monitorConfig string
	monitorCert   string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Keep a certificate's state refreshed and published",
	Long: `Refresh the certificate at startup, daily at schedule.daily_at, on SIGHUP,
on POST /refresh and, when schedule.watch is set, whenever the file changes.
Every refresh is published to the log, Prometheus metrics and optionally a
SQLite history.`,
	Args: cobra.NoArgs,
	Example: `  certexpiry monitor --cert /etc/ssl/certs/server.pem
  certexpiry monitor --config /etc/certexpiry/config.yaml`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorConfig, "config", "c", "", "Path to YAML configuration file")
	monitorCmd.Flags().StringVar(&monitorCert, "cert", "", "Certificate file (overrides certificate.path)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(monitorConfig)
	if err != nil {
		return err
	}
	if monitorCert != "" {
		cfg.Certificate.Path = monitorCert
	}
	if cfg.Certificate.Path == "" {
		return errors.New("certificate path is required (--cert or certificate.path)")
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pubs, closeStore, err := buildPublishers(cfg, reg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	mon, err := buildMonitor(cfg, log, pubs)
	if err != nil {
		return err
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				log.Info("Received SIGHUP")
				mon.Trigger(monitor.TriggerSignal)
			}
		}
	}()

	if cfg.Schedule.Watch {
		err := monitor.WatchFile(ctx, cfg.Certificate.Path, func() {
			mon.Trigger(monitor.TriggerFileChange)
		}, log)
		if err != nil {
			return err
		}
	}

	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(cfg.Server.Port, mon, reg, log)
		if err := srv.Start(); err != nil {
			return err
		}
	}

	log.Info("Monitoring certificate", zap.String("path", cfg.Certificate.Path))
	runErr := mon.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping HTTP server", zap.Error(err))
		}
	}
	return runErr
}

// buildPublishers returns the configured publishers and a func releasing
// the state store, if one was opened.
func buildPublishers(cfg *config.Config, reg prometheus.Registerer, log *zap.Logger) ([]publisher.Publisher, func(), error) {
	pubs := []publisher.Publisher{publisher.NewLogPublisher(log)}
	closeStore := func() {}

	if cfg.Publish.Metrics {
		pubs = append(pubs, publisher.NewMetricsPublisher(reg))
	}

	if cfg.Publish.Store.Enabled {
		db, err := publisher.OpenSQLite(cfg.Publish.Store.SQLitePath)
		if err != nil {
			return nil, closeStore, err
		}
		store, err := publisher.NewStorePublisher(db, cfg.Publish.Store.Retention)
		if err != nil {
			return nil, closeStore, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closeStore = func() { _ = sqlDB.Close() }
		}
		log.Info("State history enabled", zap.String("path", cfg.Publish.Store.SQLitePath))
		pubs = append(pubs, store)
	}
	return pubs, closeStore, nil
}

func buildMonitor(cfg *config.Config, log *zap.Logger, pubs []publisher.Publisher) (*monitor.Monitor, error) {
	hour, minute, err := config.ParseDailyAt(cfg.Schedule.DailyAt)
	if err != nil {
		return nil, err
	}

	var alert *condition.Condition
	if cfg.Alert.Expression != "" {
		if alert, err = condition.Parse(cfg.Alert.Expression); err != nil {
			return nil, err
		}
	}

	model := certificate.New(cfg.Certificate.Path)
	return monitor.New(model, monitor.Config{
		Entity:   cfg.Publish.Entity,
		Daily:    &monitor.DailySchedule{Hour: hour, Minute: minute},
		Interval: cfg.Schedule.Interval,
		Alert:    alert,
	}, log, pubs...), nil
}
