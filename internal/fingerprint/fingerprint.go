// Package fingerprint provides SHA-256 certificate fingerprints.
package fingerprint

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Fingerprint is the SHA-256 digest of a certificate's DER encoding.
type Fingerprint [sha256.Size]byte

// Grammar:
//
//	fingerprint := PAIR ( SEP? PAIR )*
//	PAIR := [0-9A-Fa-f]{2}
//	SEP  := [: -]
//
// Separator consistency is checked after parsing.
type pairList struct {
	First string     `parser:"@Pair"`
	Rest  []*sepPair `parser:"@@*"`
}

type sepPair struct {
	Sep  string `parser:"@Sep?"`
	Pair string `parser:"@Pair"`
}

var pairLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Pair", Pattern: `[0-9A-Fa-f]{2}`},
	{Name: "Sep", Pattern: `[: -]`},
})

var pairParser = participle.MustBuild[pairList](
	participle.Lexer(pairLexer),
)

// Parse reads a fingerprint written either as 64 hex digits or as 32 hex
// pairs joined by one separator (":", "-" or " ") used throughout.
// A "sha256:" prefix is ignored.
func Parse(input string) (Fingerprint, error) {
	input = strings.TrimSpace(input)
	if len(input) >= 7 && strings.EqualFold(input[:7], "sha256:") {
		input = input[7:]
	}
	if input == "" {
		return Fingerprint{}, fmt.Errorf("empty fingerprint")
	}

	list, err := pairParser.ParseString("", input)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint format: %w", err)
	}

	pairs := make([]string, 0, sha256.Size)
	pairs = append(pairs, list.First)
	for i, p := range list.Rest {
		if p.Sep != list.Rest[0].Sep {
			return Fingerprint{}, fmt.Errorf("invalid fingerprint format: inconsistent separator at pair %d", i+2)
		}
		pairs = append(pairs, p.Pair)
	}
	if len(pairs) != sha256.Size {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint length: got %d pairs, want %d", len(pairs), sha256.Size)
	}

	raw, err := hex.DecodeString(strings.Join(pairs, ""))
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid hex: %w", err)
	}
	var f Fingerprint
	copy(f[:], raw)
	return f, nil
}

// FromCert computes the fingerprint of a certificate.
func FromCert(cert *x509.Certificate) Fingerprint {
	return Fingerprint(sha256.Sum256(cert.Raw))
}

// Matches reports whether cert has this fingerprint.
func (f Fingerprint) Matches(cert *x509.Certificate) bool {
	return cert != nil && FromCert(cert) == f
}

// String returns the canonical "AA:BB:CC:..." form.
func (f Fingerprint) String() string {
	var b strings.Builder
	b.Grow(len(f)*3 - 1)
	for i, v := range f {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// MarshalText renders the canonical form, empty when unset.
func (f Fingerprint) MarshalText() ([]byte, error) {
	if f.IsZero() {
		return []byte{}, nil
	}
	return []byte(f.String()), nil
}

// UnmarshalText accepts any form Parse does; empty text leaves f unset.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = Fingerprint{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
