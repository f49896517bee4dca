package pow

import (
	"math/big"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/util/difficulty"
)

// CheckProofOfWorkWithTarget checks if the block header's hash satisfies
// the given target. Returns true if it does.
func CheckProofOfWorkWithTarget(header *externalapi.DomainBlockHeader, target *big.Int) bool {
	powValue := toBig(consensushashing.HeaderHash(header))
	return powValue.Cmp(target) <= 0
}

// CheckProofOfWorkByBits checks if the block header's hash satisfies the
// target encoded in the header's bits field. Returns true if it does.
func CheckProofOfWorkByBits(header *externalapi.DomainBlockHeader) bool {
	return CheckProofOfWorkWithTarget(header, difficulty.CompactToBig(header.Bits))
}

// toBig converts a DomainHash into a big.Int, treating it as a
// little-endian byte array.
func toBig(hash *externalapi.DomainHash) *big.Int {
	// We treat the Hash as little-endian for big.Int conversion, so we reverse the hash.
	buf := hash.ByteSlice()
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf)
}
