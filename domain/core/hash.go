package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// CohortHash fingerprints a cohort: the disease label plus the sorted member
// IDs. Two runs over identical inputs produce identical cohort hashes.
type CohortHash Hash

func (h CohortHash) String() string { return Hash(h).String() }

// ComputeCohortHash computes the deterministic fingerprint for one cohort.
// The member list is copied and sorted, so callers may pass it in any order.
func ComputeCohortHash(label DiseaseLabel, members []ModelID) CohortHash {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = string(m)
	}
	sort.Strings(ids)

	var data strings.Builder
	data.WriteString(strings.ToLower(string(label)))
	data.WriteString("\n")
	for _, id := range ids {
		data.WriteString(id)
		data.WriteString("\n")
	}

	return CohortHash(NewHash([]byte(data.String())))
}
