package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainGraph is the domain prefix for content-addressed graph identity.
// Version suffix enables future canonical-form migration.
const DomainGraph = "probgraph/graph/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GraphID computes the content-addressed identity of a validated graph from
// its canonical JSON form. The ID is stable across processes and restarts:
// two graphs with the same node sequence always hash to the same ID, and any
// difference in operators, operands, constants, or query indices produces a
// different ID.
func GraphID(g *Graph) (string, error) {
	canonical, err := MarshalCanonical(g)
	if err != nil {
		return "", fmt.Errorf("GraphID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainGraph, canonical), nil
}

// MustGraphID is like GraphID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustGraphID(g *Graph) string {
	id, err := GraphID(g)
	if err != nil {
		panic(err)
	}
	return id
}
