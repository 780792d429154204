package merkle

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// HashSize is the digest width of the hash primitive in bytes.
const HashSize = 32

// Hash is a Keccak-256 digest.
type Hash [HashSize]byte

// Side tells on which side of the running hash a proof sibling sits.
type Side uint8

const (
	// SideLeft means the sibling is the left operand of the combine step.
	SideLeft Side = iota
	// SideRight means the sibling is the right operand.
	SideRight
	// sideInvalid is returned by ParseSide for unknown markers. Any proof
	// containing it fails verification.
	sideInvalid Side = 0xFF
)

// ParseSide maps the wire representation of a side marker to a Side.
// Unknown markers yield a Side that no proof can verify with, so a
// malformed proof fails the same way a wrong sibling does.
func ParseSide(s string) Side {
	switch s {
	case "left":
		return SideLeft
	case "right":
		return SideRight
	default:
		return sideInvalid
	}
}

// String returns the wire representation of the side marker.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "invalid"
	}
}

// ProofStep is one level of a membership proof: the sibling digest and
// the side it occupies in the combine step.
type ProofStep struct {
	Hash Hash
	Side Side
}

// Keccak256 hashes the concatenation of the given byte slices.
func Keccak256(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// LeafHash derives the leaf digest for a recipient entry. The encoding
// is fixed by protocol and must match the off-chain tree builder:
// identity as UTF-8 bytes followed by the amount as an 8-byte
// big-endian integer.
func LeafHash(identity string, amount uint64) Hash {
	var amt [8]byte
	binary.BigEndian.PutUint64(amt[:], amount)
	return Keccak256([]byte(identity), amt[:])
}

// Combine hashes an ordered left/right pair into their parent node.
func Combine(left, right Hash) Hash {
	return Keccak256(left[:], right[:])
}

// Verify recomputes a root from a leaf and an ordered proof path and
// reports whether it matches the expected root. An empty proof is valid
// only for a single-leaf tree where the leaf is the root. The whole
// path is always consumed, including after a malformed side marker, so
// evaluation cost does not depend on where a proof goes wrong.
func Verify(root, leaf Hash, proof []ProofStep) bool {
	current := leaf
	ok := true
	for _, step := range proof {
		switch step.Side {
		case SideLeft:
			current = Combine(step.Hash, current)
		case SideRight:
			current = Combine(current, step.Hash)
		default:
			ok = false
		}
	}
	return ok && current == root
}
