package consensusstatemanager

import (
	"github.com/dagcore/dagd/domain/consensus/database"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/multiset"
	"github.com/dagcore/dagd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

// updateVirtualUTXOSet updates the virtual UTXO set and its multiset
// commitment according to the given chain path: the removed chain blocks'
// UTXO diffs are unwound in order, and each added chain block is replayed
// and resolved to either StatusUTXOValid or StatusDisqualifiedFromChain.
func (csm *consensusStateManager) updateVirtualUTXOSet(stagingArea *model.StagingArea,
	chainPath *externalapi.SelectedChainPath) error {

	virtualMultiset, err := csm.virtualMultiset(stagingArea)
	if err != nil {
		return err
	}

	for _, removedChainBlock := range chainPath.Removed {
		err := csm.unwindChainBlock(stagingArea, removedChainBlock, virtualMultiset)
		if err != nil {
			return err
		}
	}

	for _, addedChainBlock := range chainPath.Added {
		err := csm.replayChainBlock(stagingArea, addedChainBlock, virtualMultiset)
		if err != nil {
			return err
		}
	}

	csm.consensusStateStore.StageVirtualMultiset(stagingArea, virtualMultiset)
	return nil
}

func (csm *consensusStateManager) virtualMultiset(stagingArea *model.StagingArea) (model.Multiset, error) {
	virtualMultiset, err := csm.consensusStateStore.VirtualMultiset(csm.databaseContext, stagingArea)
	if err != nil {
		if database.IsNotFoundError(err) {
			return multiset.New(), nil
		}
		return nil, err
	}
	return virtualMultiset, nil
}

// unwindChainBlock reverts the UTXO effect of a chain block that left the
// selected chain and sends it back to pending verification
func (csm *consensusStateManager) unwindChainBlock(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, virtualMultiset model.Multiset) error {

	blockStatus, err := csm.blockStatusStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if blockStatus != externalapi.StatusUTXOValid {
		// A disqualified chain block never touched the virtual UTXO
		// set, so there's nothing to revert.
		csm.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusUTXOPendingVerification)
		return nil
	}

	blockUTXODiff, err := csm.utxoDiffStore.UTXODiff(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	reversedDiff := blockUTXODiff.Reversed()
	csm.consensusStateStore.StageVirtualUTXODiff(stagingArea, reversedDiff)
	err = addDiffToMultiset(virtualMultiset, reversedDiff)
	if err != nil {
		return err
	}

	csm.utxoDiffStore.Delete(stagingArea, blockHash)
	csm.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusUTXOPendingVerification)
	return nil
}

// replayChainBlock applies the UTXO effect of a block that joined the
// selected chain and resolves its status
func (csm *consensusStateManager) replayChainBlock(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash, virtualMultiset model.Multiset) error {

	blockUTXODiff, err := csm.calculateBlockUTXODiff(stagingArea, blockHash)
	if err != nil {
		if !ruleerrors.Is(err) {
			return err
		}

		log.Debugf("Block %s was disqualified from the selected chain: %s", blockHash, err)
		csm.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusDisqualifiedFromChain)
		return nil
	}

	csm.utxoDiffStore.Stage(stagingArea, blockHash, blockUTXODiff)
	csm.consensusStateStore.StageVirtualUTXODiff(stagingArea, blockUTXODiff)
	err = addDiffToMultiset(virtualMultiset, blockUTXODiff)
	if err != nil {
		return err
	}

	csm.blockStatusStore.Stage(stagingArea, blockHash, externalapi.StatusUTXOValid)
	return nil
}

// calculateBlockUTXODiff calculates the UTXO diff a chain block applies on
// top of the current virtual UTXO set: its transactions' inputs are removed
// from the set and their outputs are added, with in-block chaining allowed.
// A missing or an already-spent outpoint disqualifies the block with a rule
// error.
func (csm *consensusStateManager) calculateBlockUTXODiff(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (model.UTXODiff, error) {

	block, err := csm.blockStore.Block(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	blockGHOSTDAGData, err := csm.ghostdagDataStore.Get(csm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockBlueScore := blockGHOSTDAGData.BlueScore()

	diff := utxo.NewMutableUTXODiff()
	createdInBlock := make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry)
	spentInBlock := make(map[externalapi.DomainOutpoint]struct{})

	for _, transaction := range block.Transactions {
		isCoinbase := len(transaction.Inputs) == 0

		for _, input := range transaction.Inputs {
			outpoint := input.PreviousOutpoint

			if _, spent := spentInBlock[outpoint]; spent {
				return nil, ruleerrors.Errorf(ruleerrors.ErrDoubleSpend,
					"outpoint %s is spent twice in block %s", outpoint, blockHash)
			}

			entry, ok := createdInBlock[outpoint]
			if !ok {
				entry, err = csm.consensusStateStore.UTXOByOutpoint(csm.databaseContext, stagingArea, &outpoint)
				if err != nil {
					if database.IsNotFoundError(err) {
						return nil, ruleerrors.Errorf(ruleerrors.ErrMissingTxOut,
							"outpoint %s referenced by block %s is not in the virtual UTXO set",
							outpoint, blockHash)
					}
					return nil, err
				}
			}

			outpointCopy := outpoint
			err = diff.RemoveEntry(&outpointCopy, entry)
			if err != nil {
				return nil, err
			}
			spentInBlock[outpoint] = struct{}{}
		}

		transactionID := consensushashing.TransactionID(transaction)
		for index, output := range transaction.Outputs {
			outpoint := externalapi.DomainOutpoint{
				TransactionID: *transactionID,
				Index:         uint32(index),
			}
			if _, exists := createdInBlock[outpoint]; exists {
				return nil, errors.Errorf("duplicate outpoint %s created in block %s", outpoint, blockHash)
			}

			entry := &externalapi.UTXOEntry{
				Amount:          output.Value,
				ScriptPublicKey: output.ScriptPublicKey,
				BlockBlueScore:  blockBlueScore,
				IsCoinbase:      isCoinbase,
			}
			outpointCopy := outpoint
			err = diff.AddEntry(&outpointCopy, entry)
			if err != nil {
				return nil, err
			}
			createdInBlock[outpoint] = entry
		}
	}

	return diff.ToImmutable(), nil
}

// addDiffToMultiset updates the multiset commitment with the given diff
func addDiffToMultiset(ms model.Multiset, diff model.UTXODiff) error {
	err := diff.ToAdd().Iterate(func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
		ms.Add(utxo.SerializeUTXOToBytes(outpoint, entry))
		return nil
	})
	if err != nil {
		return err
	}

	return diff.ToRemove().Iterate(func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
		ms.Remove(utxo.SerializeUTXOToBytes(outpoint, entry))
		return nil
	})
}
