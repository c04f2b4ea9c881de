package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/certexpiry/internal/config"
	"github.com/ivoronin/certexpiry/internal/output"
	"github.com/ivoronin/certexpiry/internal/publisher"
)

var (
	historyConfig string
	historyEntity string
	historyLimit  int
	historyOutput string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded certificate states",
	Long:  `List the states recorded by "monitor" in its SQLite history, newest first.`,
	Args:  cobra.NoArgs,
	Example: `  certexpiry history --config /etc/certexpiry/config.yaml
  certexpiry history -n 5 -j`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyConfig, "config", "c", "", "Path to YAML configuration file")
	historyCmd.Flags().StringVar(&historyEntity, "entity", "", "Entity to show (default publish.entity)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of records, 0 for all")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "Output format: text, json or yaml")
	historyCmd.Flags().BoolVarP(&historyJSON, "json", "j", false, "Output in JSON format")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(historyOutput, historyJSON)
	if err != nil {
		return err
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	cfg, err := config.Load(historyConfig)
	if err != nil {
		return err
	}
	entity := historyEntity
	if entity == "" {
		entity = cfg.Publish.Entity
	}

	db, err := publisher.OpenSQLite(cfg.Publish.Store.SQLitePath)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	store, err := publisher.NewStorePublisher(db, 0)
	if err != nil {
		return err
	}
	records, err := store.History(cmd.Context(), entity, historyLimit)
	if err != nil {
		return err
	}

	result, err := output.FormatOutput(output.NewHistoryList(records), format)
	if err != nil {
		return err
	}
	if result != "" {
		fmt.Println(result)
	}
	return nil
}
