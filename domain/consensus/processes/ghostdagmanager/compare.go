package ghostdagmanager

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// ChooseSelectedParent returns the parent with the highest blue work, using
// the block hash as a deterministic tie-break.
func (gm *ghostdagManager) ChooseSelectedParent(stagingArea *model.StagingArea,
	blockHashes ...*externalapi.DomainHash) (*externalapi.DomainHash, error) {

	if len(blockHashes) == 0 {
		return nil, errors.Errorf("expected at least one parent to choose from")
	}

	selectedParent := blockHashes[0]
	selectedParentGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, selectedParent)
	if err != nil {
		return nil, err
	}

	for _, blockHash := range blockHashes[1:] {
		blockGHOSTDAGData, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}

		if gm.Less(selectedParent, selectedParentGHOSTDAGData, blockHash, blockGHOSTDAGData) {
			selectedParent = blockHash
			selectedParentGHOSTDAGData = blockGHOSTDAGData
		}
	}

	return selectedParent, nil
}

// Less returns true if blockHashA is ordered before blockHashB in the
// GHOSTDAG total order: first by blue work, then by hash.
func (gm *ghostdagManager) Less(blockHashA *externalapi.DomainHash, ghostdagDataA *model.BlockGHOSTDAGData,
	blockHashB *externalapi.DomainHash, ghostdagDataB *model.BlockGHOSTDAGData) bool {

	switch ghostdagDataA.BlueWork().Cmp(ghostdagDataB.BlueWork()) {
	case -1:
		return true
	case 1:
		return false
	case 0:
		return blockHashA.Less(blockHashB)
	default:
		panic("big.Int.Cmp is defined to always return -1, 0 or 1")
	}
}

func (gm *ghostdagManager) less(stagingArea *model.StagingArea,
	blockHashA, blockHashB *externalapi.DomainHash) (bool, error) {

	ghostdagDataA, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHashA)
	if err != nil {
		return false, err
	}
	ghostdagDataB, err := gm.ghostdagDataStore.Get(gm.databaseContext, stagingArea, blockHashB)
	if err != nil {
		return false, err
	}
	return gm.Less(blockHashA, ghostdagDataA, blockHashB, ghostdagDataB), nil
}
