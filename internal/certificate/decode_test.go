package certificate

import (
	"bytes"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mozilla.org/pkcs7"

	"github.com/ivoronin/certexpiry/internal/testutil"
)

func TestParseCertificateFormats(t *testing.T) {
	cert := testutil.NewCertificate(t, testutil.CertOptions{CommonName: "formats.example.com"})
	other := testutil.NewCertificate(t, testutil.CertOptions{CommonName: "second.example.com"})

	p7, err := pkcs7.DegenerateCertificate(cert.Raw)
	require.NoError(t, err)

	keyBlock := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte{1, 2, 3}})

	tests := []struct {
		name string
		data []byte
	}{
		{name: "pem", data: testutil.EncodePEM(cert)},
		{name: "pem bundle takes first", data: append(testutil.EncodePEM(cert), testutil.EncodePEM(other)...)},
		{name: "pem after private key", data: append(keyBlock, testutil.EncodePEM(cert)...)},
		{name: "der", data: cert.Raw},
		{name: "pkcs7 der", data: p7},
		{name: "pkcs7 pem", data: pem.EncodeToMemory(&pem.Block{Type: "PKCS7", Bytes: p7})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCertificate(tt.data)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(cert.Raw, got.Raw))
		})
	}
}

func TestParseCertificateErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("hello")},
		{name: "pem without certificate", data: pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte{1}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCertificate(tt.data)
			assert.True(t, errors.Is(err, ErrNoCertificate), "err = %v", err)
		})
	}
}

func TestFieldsFromCertificate(t *testing.T) {
	cert := testutil.NewCertificate(t, testutil.CertOptions{
		CommonName:     "fields.example.com",
		SerialNumber:   big.NewInt(10),
		DNSNames:       []string{"fields.example.com"},
		IPAddresses:    []net.IP{net.ParseIP("192.0.2.1")},
		EmailAddresses: []string{"admin@example.com"},
	})

	fields := FieldsFromCertificate(cert)

	assert.Equal(t, "0A", fields.SerialNumber)
	assert.Equal(t, "commonName=fields.example.com", fields.Subject.String())
	assert.Equal(t, []AltName{
		{Type: "DNS", Value: "fields.example.com"},
		{Type: "IP Address", Value: "192.0.2.1"},
		{Type: "email", Value: "admin@example.com"},
	}, fields.SubjectAltName)
}

func TestNameGet(t *testing.T) {
	n := Name{
		{Type: "countryName", Value: "US"},
		{Type: "commonName", Value: "example.com"},
	}

	assert.Equal(t, "US", n.Get("countryName"))
	assert.Equal(t, "", n.Get("organizationName"))
	assert.Equal(t, "countryName=US, commonName=example.com", n.String())
}
