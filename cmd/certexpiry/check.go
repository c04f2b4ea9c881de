package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivoronin/certexpiry/internal/condition"
	"github.com/ivoronin/certexpiry/internal/fingerprint"
	"github.com/ivoronin/certexpiry/internal/output"
	"github.com/ivoronin/certexpiry/internal/publisher"
)

const defaultAlert = "unknown,expired,days<14"

var (
	checkOutput      string
	checkJSON        bool
	checkAlert       string
	checkFingerprint string
)

var checkCmd = &cobra.Command{
	Use:   "check <cert-file>",
	Short: "Exit non-zero when a certificate needs attention",
	Long: `Print the certificate state like "status" and exit with code 2 when the
alert condition matches, or 3 when the certificate does not match the pinned
SHA-256 fingerprint.`,
	Args: cobra.ExactArgs(1),
	Example: `  certexpiry check server.pem
  certexpiry check --alert 'unknown,not_started,expired,days<30' server.pem
  certexpiry check --fingerprint sha256:AB:CD:... server.pem`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "text", "Output format: text, json or yaml")
	checkCmd.Flags().BoolVarP(&checkJSON, "json", "j", false, "Output in JSON format")
	checkCmd.Flags().StringVarP(&checkAlert, "alert", "a", defaultAlert, "Alert condition (e.g., unknown,expired,days<30)")
	checkCmd.Flags().StringVar(&checkFingerprint, "fingerprint", "", "Expected SHA-256 fingerprint of the certificate")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(checkOutput, checkJSON)
	if err != nil {
		return err
	}

	cond, err := condition.Parse(checkAlert)
	if err != nil {
		return fmt.Errorf("invalid alert condition: %w", err)
	}

	var pin *fingerprint.Fingerprint
	if checkFingerprint != "" {
		fp, err := fingerprint.Parse(checkFingerprint)
		if err != nil {
			return fmt.Errorf("invalid fingerprint: %w", err)
		}
		pin = &fp
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

	code := evaluateCheck(&snap, cond, pin)

	o := output.NewStatusOutput(snap)
	o.Alert = &snap.Alert
	result, err := output.FormatOutput(o, format)
	if err != nil {
		return err
	}
	fmt.Println(result)

	if code == ExitFingerprintMismatch {
		fmt.Fprintf(os.Stderr, "Error: certificate fingerprint does not match %s\n", pin)
	}
	if code != ExitSuccess {
		_ = log.Sync()
		os.Exit(code)
	}
	return nil
}

// evaluateCheck marks the snapshot's alert flag and returns the exit code.
// A fingerprint mismatch takes precedence over the alert condition.
func evaluateCheck(snap *publisher.Snapshot, cond *condition.Condition, pin *fingerprint.Fingerprint) int {
	snap.Alert = cond.Matches(snap.State)

	if pin != nil {
		fp := snap.Attributes.Fingerprint
		if fp == nil || *fp != pin.String() {
			return ExitFingerprintMismatch
		}
	}
	if snap.Alert {
		return ExitAlert
	}
	return ExitSuccess
}
