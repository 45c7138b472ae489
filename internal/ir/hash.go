package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DomainExpression prefixes expression content hashes.
// Version suffix enables future algorithm migration.
const DomainExpression = "trino-ir/expression/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return h.Sum(nil)
}

// Fingerprint computes the content-addressed identity of an expression:
// the hex SHA-256 of its canonical encoding under DomainExpression.
// Structurally equal expressions always share a fingerprint, and the
// fingerprint is stable across runs, processes, and encode/decode cycles.
func Fingerprint(e Expression) (string, error) {
	canonical, err := MarshalCanonical(e)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hashWithDomain(DomainExpression, canonical)), nil
}

// Hash returns a 64-bit hash consistent with Equal: equal expressions
// produce equal hashes. It is the leading 8 bytes of the same digest
// Fingerprint exposes, so the two never disagree.
func Hash(e Expression) (uint64, error) {
	canonical, err := MarshalCanonical(e)
	if err != nil {
		return 0, err
	}
	sum := hashWithDomain(DomainExpression, canonical)
	return binary.BigEndian.Uint64(sum[:8]), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(e Expression) string {
	fp, err := Fingerprint(e)
	if err != nil {
		panic(err)
	}
	return fp
}

// MustHash is like Hash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHash(e Expression) uint64 {
	h, err := Hash(e)
	if err != nil {
		panic(err)
	}
	return h
}
