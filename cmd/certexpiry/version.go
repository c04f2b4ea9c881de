package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVarP(&versionJSON, "json", "j", false, "Output in JSON format")
}

func runVersion(cmd *cobra.Command, args []string) error {
	if !versionJSON {
		fmt.Printf("certexpiry %s\n", Version)
		return nil
	}

	out, err := json.Marshal(struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}{
		Version:   Version,
		GoVersion: runtime.Version(),
	})
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
