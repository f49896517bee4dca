package pruningstore

import (
	"github.com/dagcore/dagd/domain/consensus/database/binaryserialization"
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

type pruningStagingShard struct {
	store *pruningStore

	pruningPoint          *externalapi.DomainHash
	pruningPointBlueScore uint64
	hasNewPruningPoint    bool
}

func (ps *pruningStore) stagingShard(stagingArea *model.StagingArea) *pruningStagingShard {
	return stagingArea.GetOrCreateShard(ps.shardID, func() model.StagingShard {
		return &pruningStagingShard{
			store: ps,
		}
	}).(*pruningStagingShard)
}

func (pss *pruningStagingShard) Commit(dbTx model.DBTransaction) error {
	if !pss.hasNewPruningPoint {
		return nil
	}

	err := dbTx.Put(pss.store.pruningPointKey, binaryserialization.SerializeHash(pss.pruningPoint))
	if err != nil {
		return err
	}
	err = dbTx.Put(pss.store.pruningPointBlueScoreKey, binaryserialization.SerializeUint64(pss.pruningPointBlueScore))
	if err != nil {
		return err
	}
	pss.store.pruningPointCache = pss.pruningPoint
	pss.store.pruningPointBlueScoreCache = pss.pruningPointBlueScore
	pss.store.hasPruningPointCache = true

	return nil
}

func (pss *pruningStagingShard) isStaged() bool {
	return pss.hasNewPruningPoint
}
