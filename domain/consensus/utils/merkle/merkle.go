package merkle

import (
	"math"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/hashes"
)

func nextPowerOfTwo(n int) int {
	// Return the number if it's already a power of 2.
	if n&(n-1) == 0 {
		return n
	}

	// Figure out and return the next power of two.
	exponent := uint(math.Log2(float64(n))) + 1
	return 1 << exponent
}

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func hashMerkleBranches(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	w := hashes.NewMerkleBranchHashWriter()
	w.InfallibleWrite(left.ByteSlice())
	w.InfallibleWrite(right.ByteSlice())
	return w.Finalize()
}

// CalculateHashMerkleRoot calculates the merkle root of a tree consisted of the given transaction hashes
func CalculateHashMerkleRoot(transactions []*externalapi.DomainTransaction) *externalapi.DomainHash {
	txHashes := make([]*externalapi.DomainHash, len(transactions))
	for i, tx := range transactions {
		txHashes[i] = consensushashing.TransactionHash(tx)
	}
	return merkleRoot(txHashes)
}

// merkleRoot creates a merkle tree from a slice of hashes, and returns its root.
// The implementation stores the tree in a linear array: leaves occupy the first
// half, internal nodes the second half, the root being the last element. A
// missing right child is substituted by duplicating the left child.
func merkleRoot(hashes []*externalapi.DomainHash) *externalapi.DomainHash {
	nextPoT := nextPowerOfTwo(len(hashes))
	arraySize := nextPoT*2 - 1
	merkles := make([]*externalapi.DomainHash, arraySize)

	copy(merkles, hashes)

	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		case merkles[i] == nil:
			// When there is no left child node, the parent is nil too.
			merkles[offset] = nil

		case merkles[i+1] == nil:
			// When there is no right child, the parent is generated by
			// hashing the concatenation of the left child with itself.
			merkles[offset] = hashMerkleBranches(merkles[i], merkles[i])

		default:
			merkles[offset] = hashMerkleBranches(merkles[i], merkles[i+1])
		}
		offset++
	}

	return merkles[len(merkles)-1]
}
