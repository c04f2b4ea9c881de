package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/certexpiry/internal/output"
)

var (
	statusOutput string
	statusJSON   bool
)

var statusCmd = &cobra.Command{
	Use:   "status <cert-file>",
	Short: "Show the expiry state of a certificate file",
	Long: `Read a PEM, DER or PKCS#7 certificate file and print its state:
"unknown", "not started", the whole days left, or "expired".`,
	Args: cobra.ExactArgs(1),
	Example: `  certexpiry status /etc/ssl/certs/server.pem
  certexpiry status -o yaml server.pem`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format: text, json or yaml")
	statusCmd.Flags().BoolVarP(&statusJSON, "json", "j", false, "Output in JSON format")
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(statusOutput, statusJSON)
	if err != nil {
		return err
	}

	log, err := newCLILogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	snap, err := readSnapshot(args[0], log)
	if err != nil {
		return err
	}

	result, err := output.FormatOutput(output.NewStatusOutput(snap), format)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
