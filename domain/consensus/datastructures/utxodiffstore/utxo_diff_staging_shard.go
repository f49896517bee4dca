package utxodiffstore

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/utxo"
)

type utxoDiffStagingShard struct {
	store    *utxoDiffStore
	toAdd    map[externalapi.DomainHash]model.UTXODiff
	toDelete map[externalapi.DomainHash]struct{}
}

func (uds *utxoDiffStore) stagingShard(stagingArea *model.StagingArea) *utxoDiffStagingShard {
	return stagingArea.GetOrCreateShard(uds.shardID, func() model.StagingShard {
		return &utxoDiffStagingShard{
			store:    uds,
			toAdd:    make(map[externalapi.DomainHash]model.UTXODiff),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*utxoDiffStagingShard)
}

func (udss *utxoDiffStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, utxoDiff := range udss.toAdd {
		utxoDiffBytes, err := utxo.SerializeUTXODiff(utxoDiff)
		if err != nil {
			return err
		}
		hashCopy := hash
		err = dbTx.Put(udss.store.hashAsKey(&hashCopy), utxoDiffBytes)
		if err != nil {
			return err
		}
		udss.store.cache.Add(hash, utxoDiff)
	}
	for hash := range udss.toDelete {
		hashCopy := hash
		err := dbTx.Delete(udss.store.hashAsKey(&hashCopy))
		if err != nil {
			return err
		}
		udss.store.cache.Remove(hash)
	}

	return nil
}

func (udss *utxoDiffStagingShard) isStaged() bool {
	return len(udss.toAdd) != 0 || len(udss.toDelete) != 0
}
