//go:build integration

package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivoronin/certexpiry/internal/fingerprint"
	"github.com/ivoronin/certexpiry/internal/testutil"
)

// Run with: go build ./cmd/certexpiry && go test -tags=integration ./cmd/certexpiry

func writeCert(t *testing.T, notBefore, notAfter time.Time) (string, fingerprint.Fingerprint) {
	t.Helper()
	path, cert := testutil.WriteCertificate(t, testutil.CertOptions{
		CommonName: "cli.example.com",
		NotBefore:  notBefore,
		NotAfter:   notAfter,
	})
	return path, fingerprint.FromCert(cert)
}

func TestStatusCommand(t *testing.T) {
	t.Parallel()
	now := time.Now()
	path, _ := writeCert(t, now.AddDate(0, -1, 0), now.Add(100*24*time.Hour+time.Hour))

	result := testutil.RunCLI(t, "status", "-j", path)
	require.Equal(t, ExitSuccess, result.ExitCode, result.Stderr)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Stdout), &parsed))
	assert.Equal(t, float64(100), parsed["state"])
	assert.Contains(t, result.Stdout, "cli.example.com")
}

func TestStatusCommandMissingFile(t *testing.T) {
	t.Parallel()
	result := testutil.RunCLI(t, "status", filepath.Join(t.TempDir(), "missing.pem"))

	assert.Equal(t, ExitSuccess, result.ExitCode)
	assert.Contains(t, result.Stdout, "unknown")
}

func TestStatusCommandUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no argument", args: []string{"status"}},
		{name: "bad output", args: []string{"status", "-o", "xml", "cert.pem"}},
		{name: "bad alert", args: []string{"check", "--alert", "days<<3", "cert.pem"}},
		{name: "bad fingerprint", args: []string{"check", "--fingerprint", "zz", "cert.pem"}},
		{name: "monitor without certificate", args: []string{"monitor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunCLI(t, tt.args...)
			assert.Equal(t, ExitInputError, result.ExitCode)
			assert.Contains(t, result.Stderr, "Error:")
		})
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()
	now := time.Now()
	healthy, fp := writeCert(t, now.AddDate(0, -1, 0), now.AddDate(1, 0, 0))
	expiring, _ := writeCert(t, now.AddDate(0, -1, 0), now.Add(5*24*time.Hour+time.Hour))
	future, _ := writeCert(t, now.Add(48*time.Hour), now.AddDate(1, 0, 0))

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "healthy", args: []string{"check", healthy}, wantCode: ExitSuccess},
		{name: "expiring", args: []string{"check", expiring}, wantCode: ExitAlert},
		{name: "custom alert", args: []string{"check", "--alert", "days<3", expiring}, wantCode: ExitSuccess},
		{name: "not started", args: []string{"check", "--alert", "not_started", future}, wantCode: ExitAlert},
		{name: "missing", args: []string{"check", filepath.Join(t.TempDir(), "nope.pem")}, wantCode: ExitAlert},
		{name: "pinned", args: []string{"check", "--fingerprint", fp.String(), healthy}, wantCode: ExitSuccess},
		{name: "pin mismatch", args: []string{"check", "--fingerprint", fp.String(), expiring}, wantCode: ExitFingerprintMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, result.ExitCode, "stdout:\n%s\nstderr:\n%s", result.Stdout, result.Stderr)
			assert.True(t, strings.HasPrefix(result.Stdout, "FIELD"))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantSubstr string
	}{
		{name: "text output", args: []string{"version"}, wantSubstr: "certexpiry"},
		{name: "json output", args: []string{"version", "-j"}, wantSubstr: `"version":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunCLI(t, tt.args...)
			assert.Equal(t, ExitSuccess, result.ExitCode)
			assert.Contains(t, result.Stdout, tt.wantSubstr)
		})
	}
}
