package merkle

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeccak256KnownVector(t *testing.T) {
	// Keccak-256 of the empty input, the classic sanity vector.
	got := Keccak256()
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(got[:]))
}

func TestLeafHashEncoding(t *testing.T) {
	// identity UTF-8 bytes then amount as 8-byte big-endian.
	want := Keccak256([]byte("alice.near"), []byte{0, 0, 0, 0, 0, 0, 0, 100})
	assert.Equal(t, want, LeafHash("alice.near", 100))

	// Amount is part of the committed leaf: a different amount must
	// produce a different digest.
	assert.NotEqual(t, LeafHash("alice.near", 100), LeafHash("alice.near", 101))
	assert.NotEqual(t, LeafHash("alice.near", 100), LeafHash("alice.nea", 100))
}

func TestVerifyTwoLeafTree(t *testing.T) {
	a := LeafHash("id_1", 100)
	b := LeafHash("id_2", 250)
	root := Combine(a, b)

	assert.True(t, Verify(root, a, []ProofStep{{Hash: b, Side: SideRight}}))
	assert.True(t, Verify(root, b, []ProofStep{{Hash: a, Side: SideLeft}}))

	// Wrong side flag on an otherwise correct sibling.
	assert.False(t, Verify(root, a, []ProofStep{{Hash: b, Side: SideLeft}}))
	// Wrong amount changes the leaf, so the same proof must fail.
	assert.False(t, Verify(root, LeafHash("id_2", 100), []ProofStep{{Hash: a, Side: SideLeft}}))
}

func TestVerifyThreeLeafTree(t *testing.T) {
	a := LeafHash("id_1", 100)
	b := LeafHash("id_2", 250)
	c := LeafHash("id_3", 50)
	ab := Combine(a, b)
	root := Combine(ab, c)

	proofs := map[string]struct {
		leaf  Hash
		proof []ProofStep
	}{
		"id_1": {a, []ProofStep{{Hash: b, Side: SideRight}, {Hash: c, Side: SideRight}}},
		"id_2": {b, []ProofStep{{Hash: a, Side: SideLeft}, {Hash: c, Side: SideRight}}},
		"id_3": {c, []ProofStep{{Hash: ab, Side: SideLeft}}},
	}

	for name, tc := range proofs {
		t.Run(name, func(t *testing.T) {
			assert.True(t, Verify(root, tc.leaf, tc.proof))
		})
	}

	// A leaf paired with another leaf's proof must fail.
	assert.False(t, Verify(root, a, proofs["id_2"].proof))
	assert.False(t, Verify(root, c, proofs["id_1"].proof))
}

func TestVerifyTamperedProof(t *testing.T) {
	a := LeafHash("id_1", 100)
	b := LeafHash("id_2", 250)
	c := LeafHash("id_3", 50)
	root := Combine(Combine(a, b), c)

	good := []ProofStep{{Hash: b, Side: SideRight}, {Hash: c, Side: SideRight}}
	require.True(t, Verify(root, a, good))

	for i := range good {
		// Flip one bit in a sibling hash.
		tampered := make([]ProofStep, len(good))
		copy(tampered, good)
		tampered[i].Hash[0] ^= 0x01
		assert.False(t, Verify(root, a, tampered), "tampered hash at step %d", i)

		// Flip the side flag.
		flipped := make([]ProofStep, len(good))
		copy(flipped, good)
		if flipped[i].Side == SideLeft {
			flipped[i].Side = SideRight
		} else {
			flipped[i].Side = SideLeft
		}
		assert.False(t, Verify(root, a, flipped), "flipped side at step %d", i)
	}

	// Truncated and over-long proofs.
	assert.False(t, Verify(root, a, good[:1]))
	assert.False(t, Verify(root, a, append([]ProofStep{}, append(good, good[0])...)))
}

func TestVerifySingleLeafTree(t *testing.T) {
	leaf := LeafHash("only.near", 42)
	assert.True(t, Verify(leaf, leaf, nil))
	assert.False(t, Verify(LeafHash("other.near", 42), leaf, nil))
}

func TestVerifyMalformedSideMarker(t *testing.T) {
	a := LeafHash("id_1", 100)
	b := LeafHash("id_2", 250)
	root := Combine(a, b)

	// An out-of-range side marker is a plain verification failure.
	assert.False(t, Verify(root, a, []ProofStep{{Hash: b, Side: Side(7)}}))
	assert.False(t, Verify(root, a, []ProofStep{{Hash: b, Side: ParseSide("up")}}))
}

func TestParseSide(t *testing.T) {
	assert.Equal(t, SideLeft, ParseSide("left"))
	assert.Equal(t, SideRight, ParseSide("right"))
	assert.Equal(t, "left", SideLeft.String())
	assert.Equal(t, "right", SideRight.String())
	assert.Equal(t, "invalid", ParseSide("LEFT").String())
}
