package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// CertOptions describes a self-signed test certificate.
// Zero values get defaults: CN "test.example.com", valid from a year ago for two years.
type CertOptions struct {
	CommonName            string
	Organization          string
	SerialNumber          *big.Int
	NotBefore             time.Time
	NotAfter              time.Time
	DNSNames              []string
	IPAddresses           []net.IP
	EmailAddresses        []string
	OCSPServer            []string
	IssuingCertificateURL []string
	CRLDistributionPoints []string
}

// NewCertificate creates and parses a self-signed certificate.
func NewCertificate(tb testing.TB, opts CertOptions) *x509.Certificate {
	tb.Helper()

	if opts.CommonName == "" {
		opts.CommonName = "test.example.com"
	}
	if opts.NotBefore.IsZero() {
		opts.NotBefore = time.Now().AddDate(-1, 0, 0)
	}
	if opts.NotAfter.IsZero() {
		opts.NotAfter = time.Now().AddDate(1, 0, 0)
	}
	if opts.SerialNumber == nil {
		opts.SerialNumber = big.NewInt(0x1234ABCD)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("generate key: %v", err)
	}

	subject := pkix.Name{CommonName: opts.CommonName}
	if opts.Organization != "" {
		subject.Organization = []string{opts.Organization}
	}

	tmpl := &x509.Certificate{
		SerialNumber:          opts.SerialNumber,
		Subject:               subject,
		NotBefore:             opts.NotBefore,
		NotAfter:              opts.NotAfter,
		DNSNames:              opts.DNSNames,
		IPAddresses:           opts.IPAddresses,
		EmailAddresses:        opts.EmailAddresses,
		OCSPServer:            opts.OCSPServer,
		IssuingCertificateURL: opts.IssuingCertificateURL,
		CRLDistributionPoints: opts.CRLDistributionPoints,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		tb.Fatalf("create certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("parse certificate: %v", err)
	}
	return cert
}

// EncodePEM returns the PEM encoding of a certificate.
func EncodePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteCertificate creates a certificate and stores it as PEM in a temp dir.
// Returns the file path and the parsed certificate.
func WriteCertificate(tb testing.TB, opts CertOptions) (string, *x509.Certificate) {
	tb.Helper()

	cert := NewCertificate(tb, opts)
	return WriteFile(tb, tb.TempDir(), "cert.pem", EncodePEM(cert)), cert
}
