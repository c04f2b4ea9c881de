package certificate

import (
	"encoding/asn1"
	"fmt"
	"strings"

	"github.com/ivoronin/certexpiry/internal/fingerprint"
)

// Attribute is one type=value pair of a distinguished name.
type Attribute struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Name is a distinguished name in certificate order.
type Name []Attribute

// String renders the name as "commonName=example.com, organizationName=Acme".
func (n Name) String() string {
	parts := make([]string, len(n))
	for i, a := range n {
		parts[i] = a.Type + "=" + a.Value
	}
	return strings.Join(parts, ", ")
}

// Get returns the first value of the given attribute type.
func (n Name) Get(attrType string) string {
	for _, a := range n {
		if a.Type == attrType {
			return a.Value
		}
	}
	return ""
}

// AltName is one subjectAltName entry, e.g. {"DNS", "example.com"}.
type AltName struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Fields holds the descriptive fields decoded from a certificate.
// Zero values mean the field was not produced by decoding.
type Fields struct {
	Subject               Name                    `json:"subject,omitempty" yaml:"subject,omitempty"`
	Issuer                Name                    `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Version               int                     `json:"version,omitempty" yaml:"version,omitempty"`
	SerialNumber          string                  `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	NotBefore             string                  `json:"not_before,omitempty" yaml:"not_before,omitempty"`
	NotAfter              string                  `json:"not_after,omitempty" yaml:"not_after,omitempty"`
	SubjectAltName        []AltName               `json:"subject_alt_name,omitempty" yaml:"subject_alt_name,omitempty"`
	OCSP                  []string                `json:"ocsp,omitempty" yaml:"ocsp,omitempty"`
	CAIssuers             []string                `json:"ca_issuers,omitempty" yaml:"ca_issuers,omitempty"`
	CRLDistributionPoints []string                `json:"crl_distribution_points,omitempty" yaml:"crl_distribution_points,omitempty"`
	Fingerprint           fingerprint.Fingerprint `json:"fingerprint,omitempty" yaml:"-"`
}

// attributeNames maps distinguished name OIDs to OpenSSL long names.
var attributeNames = map[string]string{
	"2.5.4.3":  "commonName",
	"2.5.4.4":  "surname",
	"2.5.4.5":  "serialNumber",
	"2.5.4.6":  "countryName",
	"2.5.4.7":  "localityName",
	"2.5.4.8":  "stateOrProvinceName",
	"2.5.4.9":  "streetAddress",
	"2.5.4.10": "organizationName",
	"2.5.4.11": "organizationalUnitName",
	"2.5.4.12": "title",
	"2.5.4.17": "postalCode",
	"2.5.4.42": "givenName",
	"2.5.4.97": "organizationIdentifier",

	"0.9.2342.19200300.100.1.25": "domainComponent",
	"1.2.840.113549.1.9.1":       "emailAddress",
}

func attributeName(oid asn1.ObjectIdentifier) string {
	if name, ok := attributeNames[oid.String()]; ok {
		return name
	}
	return oid.String()
}

func attributeValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
