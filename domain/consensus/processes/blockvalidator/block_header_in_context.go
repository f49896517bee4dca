package blockvalidator

import (
	"github.com/dagcore/dagd/domain/consensus/database"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/hashes"
)

// ValidateHeaderInContext validates block headers in the context of the current
// consensus state. It expects the block's parents to be known and its GHOSTDAG
// data to have been calculated already.
func (v *blockValidator) ValidateHeaderInContext(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	header := block.Header
	blockHash := consensushashing.BlockHash(block)

	err := v.checkParents(stagingArea, header)
	if err != nil {
		return err
	}

	err = v.validateMedianTime(stagingArea, blockHash, header)
	if err != nil {
		return err
	}

	return v.checkMergeSizeLimit(stagingArea, blockHash)
}

// checkParents makes sure all the block's direct parents are known, valid and
// not ancestors of each other
func (v *blockValidator) checkParents(stagingArea *model.StagingArea, header *externalapi.DomainBlockHeader) error {
	missingParentHashes := []*externalapi.DomainHash{}
	parents := header.DirectParents()
	for _, parentHash := range parents {
		exists, err := v.blockHeaderStore.HasBlockHeader(v.databaseContext, stagingArea, parentHash)
		if err != nil {
			return err
		}
		if !exists {
			missingParentHashes = append(missingParentHashes, parentHash)
			continue
		}

		parentStatus, err := v.blockStatusStore.Get(v.databaseContext, stagingArea, parentHash)
		if err != nil {
			if !database.IsNotFoundError(err) {
				return err
			}
		} else if parentStatus == externalapi.StatusInvalid {
			return ruleerrors.Errorf(ruleerrors.ErrInvalidAncestorBlock,
				"parent %s is invalid", parentHash)
		}
	}
	if len(missingParentHashes) > 0 {
		return ruleerrors.Errorf(ruleerrors.ErrMissingParents,
			"missing parents: %s", hashes.JoinHashesStrings(missingParentHashes, ", "))
	}

	// No parent may be an ancestor of another parent
	for _, parentA := range parents {
		for _, parentB := range parents {
			if parentA.Equal(parentB) {
				continue
			}

			isAncestorOf, err := v.dagTopologyManager.IsAncestorOf(stagingArea, parentA, parentB)
			if err != nil {
				return err
			}
			if isAncestorOf {
				return ruleerrors.Errorf(ruleerrors.ErrInvalidParentsRelation,
					"parent %s is an ancestor of another parent %s", parentA, parentB)
			}
		}
	}
	return nil
}

func (v *blockValidator) validateMedianTime(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, header *externalapi.DomainBlockHeader) error {

	if len(header.DirectParents()) == 0 {
		return nil
	}

	// The block's timestamp must be strictly later than the median
	// timestamp of its past window.
	pastMedianTime, err := v.pastMedianTimeManager.PastMedianTime(stagingArea, blockHash)
	if err != nil {
		return err
	}

	if header.TimeInMilliseconds <= pastMedianTime {
		return ruleerrors.Errorf(ruleerrors.ErrTimeTooOld,
			"block timestamp of %d is not after expected %d",
			header.TimeInMilliseconds, pastMedianTime)
	}
	return nil
}

func (v *blockValidator) checkMergeSizeLimit(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	ghostdagData, err := v.ghostdagDataStore.Get(v.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	mergeSetSize := len(ghostdagData.MergeSetBlues()) + len(ghostdagData.MergeSetReds())
	if uint64(mergeSetSize) > v.mergeSetSizeLimit {
		return ruleerrors.Errorf(ruleerrors.ErrViolatingMergeLimit,
			"The block merges %d blocks > %d merge set size limit", mergeSetSize, v.mergeSetSizeLimit)
	}
	return nil
}
