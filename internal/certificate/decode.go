package certificate

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.mozilla.org/pkcs7"

	"github.com/ivoronin/certexpiry/internal/fingerprint"
)

// ErrNoCertificate is returned when a file holds no decodable certificate.
var ErrNoCertificate = errors.New("no certificate found")

// Decoder reads the fields of the certificate stored at path.
type Decoder interface {
	Decode(path string) (*Fields, error)
}

// FileDecoder decodes certificates from PEM, DER or PKCS#7 files.
type FileDecoder struct{}

// Decode reads path and decodes the first certificate it contains.
func (FileDecoder) Decode(path string) (*Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}

	cert, err := ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FieldsFromCertificate(cert), nil
}

// ParseCertificate returns the first certificate in data.
// PEM blocks of type CERTIFICATE and PKCS7 are tried in file order;
// without any PEM block data is parsed as DER certificate or PKCS#7 SignedData.
func ParseCertificate(data []byte) (*x509.Certificate, error) {
	rest := data
	sawPEM := false
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		sawPEM = true

		switch block.Type {
		case "CERTIFICATE", "X509 CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("parse certificate: %w", err)
			}
			return cert, nil
		case "PKCS7":
			return parsePKCS7(block.Bytes)
		}
	}

	if sawPEM || len(data) == 0 {
		return nil, ErrNoCertificate
	}

	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}
	if cert, err := parsePKCS7(data); err == nil {
		return cert, nil
	}
	return nil, ErrNoCertificate
}

func parsePKCS7(der []byte) (*x509.Certificate, error) {
	p7, err := pkcs7.Parse(der)
	if err != nil {
		return nil, fmt.Errorf("parse pkcs7: %w", err)
	}
	if len(p7.Certificates) == 0 {
		return nil, ErrNoCertificate
	}
	return p7.Certificates[0], nil
}

// FieldsFromCertificate extracts descriptive fields from a parsed certificate.
func FieldsFromCertificate(cert *x509.Certificate) *Fields {
	return &Fields{
		Subject:               nameFromAttributes(cert.Subject.Names),
		Issuer:                nameFromAttributes(cert.Issuer.Names),
		Version:               cert.Version,
		SerialNumber:          serialNumber(cert),
		NotBefore:             FormatTimestamp(cert.NotBefore),
		NotAfter:              FormatTimestamp(cert.NotAfter),
		SubjectAltName:        altNames(cert),
		OCSP:                  nonEmpty(cert.OCSPServer),
		CAIssuers:             nonEmpty(cert.IssuingCertificateURL),
		CRLDistributionPoints: nonEmpty(cert.CRLDistributionPoints),
		Fingerprint:           fingerprint.FromCert(cert),
	}
}

func nameFromAttributes(attrs []pkix.AttributeTypeAndValue) Name {
	if len(attrs) == 0 {
		return nil
	}
	name := make(Name, len(attrs))
	for i, a := range attrs {
		name[i] = Attribute{Type: attributeName(a.Type), Value: attributeValue(a.Value)}
	}
	return name
}

// serialNumber renders the serial as upper-case hex with whole octets.
func serialNumber(cert *x509.Certificate) string {
	if cert.SerialNumber == nil {
		return ""
	}
	raw := cert.SerialNumber.Bytes()
	if len(raw) == 0 {
		return "00"
	}
	s := strings.ToUpper(hex.EncodeToString(raw))
	if cert.SerialNumber.Sign() < 0 {
		s = "-" + s
	}
	return s
}

func altNames(cert *x509.Certificate) []AltName {
	var names []AltName
	for _, dns := range cert.DNSNames {
		names = append(names, AltName{Type: "DNS", Value: dns})
	}
	for _, ip := range cert.IPAddresses {
		names = append(names, AltName{Type: "IP Address", Value: ip.String()})
	}
	for _, email := range cert.EmailAddresses {
		names = append(names, AltName{Type: "email", Value: email})
	}
	for _, uri := range cert.URIs {
		names = append(names, AltName{Type: "URI", Value: uri.String()})
	}
	return names
}

func nonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
