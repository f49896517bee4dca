package consensusstatestore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/utxo"
)

type consensusStateStagingShard struct {
	store *consensusStateStore

	tips            []*externalapi.DomainHash
	virtualUTXODiff model.UTXODiff
	virtualMultiset model.Multiset
}

func (css *consensusStateStore) stagingShard(stagingArea *model.StagingArea) *consensusStateStagingShard {
	return stagingArea.GetOrCreateShard(css.shardID, func() model.StagingShard {
		return &consensusStateStagingShard{
			store: css,
		}
	}).(*consensusStateStagingShard)
}

func (csss *consensusStateStagingShard) Commit(dbTx model.DBTransaction) error {
	err := csss.commitTips(dbTx)
	if err != nil {
		return err
	}

	err = csss.commitVirtualUTXODiff(dbTx)
	if err != nil {
		return err
	}

	return csss.commitVirtualMultiset(dbTx)
}

func (csss *consensusStateStagingShard) commitTips(dbTx model.DBTransaction) error {
	if csss.tips == nil {
		return nil
	}

	err := dbTx.Put(csss.store.tipsKey, binaryserialization.SerializeHashes(csss.tips))
	if err != nil {
		return err
	}
	csss.store.tipsCache = csss.tips
	return nil
}

// commitVirtualUTXODiff applies the staged diff to the persisted virtual
// UTXO set: entries in toRemove are deleted, entries in toAdd are written.
func (csss *consensusStateStagingShard) commitVirtualUTXODiff(dbTx model.DBTransaction) error {
	if csss.virtualUTXODiff == nil {
		return nil
	}

	err := csss.virtualUTXODiff.ToRemove().Iterate(func(outpoint *externalapi.DomainOutpoint, _ *externalapi.UTXOEntry) error {
		outpointKey, err := csss.store.outpointAsKey(outpoint)
		if err != nil {
			return err
		}
		return dbTx.Delete(outpointKey)
	})
	if err != nil {
		return err
	}

	return csss.virtualUTXODiff.ToAdd().Iterate(func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
		outpointKey, err := csss.store.outpointAsKey(outpoint)
		if err != nil {
			return err
		}
		entryBytes, err := utxo.SerializeUTXOEntry(entry)
		if err != nil {
			return err
		}
		return dbTx.Put(outpointKey, entryBytes)
	})
}

func (csss *consensusStateStagingShard) commitVirtualMultiset(dbTx model.DBTransaction) error {
	if csss.virtualMultiset == nil {
		return nil
	}

	err := dbTx.Put(csss.store.virtualMultisetKey, csss.virtualMultiset.Serialize())
	if err != nil {
		return err
	}
	csss.store.virtualMultisetCache = csss.virtualMultiset.Clone()
	return nil
}

func (csss *consensusStateStagingShard) isStaged() bool {
	return csss.tips != nil || csss.virtualUTXODiff != nil || csss.virtualMultiset != nil
}
