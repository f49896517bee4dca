package blockvalidator

import (
	"time"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/constants"
	"github.com/dagcore/dagd/domain/consensus/utils/pow"
	"github.com/dagcore/dagd/util/difficulty"
)

// ValidateHeaderInIsolation validates block headers in isolation from the current
// consensus state
func (v *blockValidator) ValidateHeaderInIsolation(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	header := block.Header
	blockHash := consensushashing.BlockHash(block)

	err := v.checkBlockVersion(header)
	if err != nil {
		return err
	}

	err = v.checkParentsLimit(blockHash, header)
	if err != nil {
		return err
	}

	err = v.checkBlockDuplicateParents(header)
	if err != nil {
		return err
	}

	err = v.checkBlockTimestampInIsolation(header)
	if err != nil {
		return err
	}

	return v.checkProofOfWork(header)
}

func (v *blockValidator) checkBlockVersion(header *externalapi.DomainBlockHeader) error {
	if header.Version != constants.BlockVersion {
		return ruleerrors.Errorf(ruleerrors.ErrWrongBlockVersion,
			"the block version should be %d, but got %d", constants.BlockVersion, header.Version)
	}
	return nil
}

func (v *blockValidator) checkParentsLimit(blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) error {
	directParents := header.DirectParents()
	if len(directParents) == 0 && !blockHash.Equal(v.genesisHash) {
		return ruleerrors.Errorf(ruleerrors.ErrNoParents, "block has no parents")
	}

	if len(directParents) > v.maxBlockParents {
		return ruleerrors.Errorf(ruleerrors.ErrTooManyParents,
			"block header has %d parents, but the maximum allowed amount is %d",
			len(directParents), v.maxBlockParents)
	}
	return nil
}

func (v *blockValidator) checkBlockDuplicateParents(header *externalapi.DomainBlockHeader) error {
	existingParents := make(map[externalapi.DomainHash]struct{})
	for _, parent := range header.DirectParents() {
		if _, exists := existingParents[*parent]; exists {
			return ruleerrors.Errorf(ruleerrors.ErrDuplicateParents,
				"block contains duplicate parent %s", parent)
		}
		existingParents[*parent] = struct{}{}
	}
	return nil
}

func (v *blockValidator) checkBlockTimestampInIsolation(header *externalapi.DomainBlockHeader) error {
	// The timestamp must not be more than the maximum allowed deviation
	// ahead of the node's clock.
	maxTimeOffset := int64(v.timestampDeviationTolerance) * v.targetTimePerBlock.Milliseconds()
	maxCurrentTime := time.Now().UnixMilli() + maxTimeOffset
	if header.TimeInMilliseconds > maxCurrentTime {
		return ruleerrors.Errorf(ruleerrors.ErrTimeTooMuchInTheFuture,
			"the timestamp of the block is in the future: %d > %d",
			header.TimeInMilliseconds, maxCurrentTime)
	}
	return nil
}

// checkProofOfWork ensures the block header bits which indicate the target
// difficulty is in min/max range and that the block hash is less than the
// target difficulty as claimed.
func (v *blockValidator) checkProofOfWork(header *externalapi.DomainBlockHeader) error {
	// All blocks carry the fixed network difficulty.
	if header.Bits != v.powLimitBits {
		return ruleerrors.Errorf(ruleerrors.ErrUnexpectedDifficulty,
			"block difficulty of %d is not the expected value of %d", header.Bits, v.powLimitBits)
	}

	// The target difficulty must be larger than zero and not exceed the
	// proof-of-work limit.
	target := difficulty.CompactToBig(header.Bits)
	if target.Sign() <= 0 || target.Cmp(v.powMax) > 0 {
		return ruleerrors.Errorf(ruleerrors.ErrTargetTooHigh,
			"block target difficulty of %064x is out of range", target)
	}

	if v.skipPoW {
		return nil
	}

	if !pow.CheckProofOfWorkWithTarget(header, target) {
		return ruleerrors.Errorf(ruleerrors.ErrInvalidPoW, "block has invalid proof of work")
	}
	return nil
}
