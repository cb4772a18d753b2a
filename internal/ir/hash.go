package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the encoding to change without collisions.
const (
	DomainCircuit  = "qsim/circuit/v1"
	DomainBindings = "qsim/bindings/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content hash of c's canonical encoding. Two
// circuits share a fingerprint iff they are structurally identical.
func (c Circuit) Fingerprint() (string, error) {
	data, err := EncodeCircuit(c)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainCircuit, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests.
func (c Circuit) MustFingerprint() string {
	fp, err := c.Fingerprint()
	if err != nil {
		panic(err)
	}
	return fp
}

// BindingsHash returns the content hash of b's canonical encoding.
func BindingsHash(b Bindings) (string, error) {
	data, err := EncodeBindings(b)
	if err != nil {
		return "", fmt.Errorf("bindings hash: %w", err)
	}
	return hashWithDomain(DomainBindings, data), nil
}
