package main

import (
	"encoding/binary"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/ruleerrors"
	"github.com/dagcore/dagd/domain/consensus/utils/constants"
	"github.com/dagcore/dagd/domain/consensus/utils/merkle"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/pkg/errors"
)

// miner repeatedly builds blocks over the current DAG tips and submits them,
// simulating one member of a mining network
type miner struct {
	id        uint64
	consensus consensus.Consensus
	params    *dagconfig.Params
	extraTxs  uint64

	random       *rand.Rand
	payloadCount uint64

	// blocksRemaining is shared between all miners
	blocksRemaining *int64
}

func newMiner(id uint64, consensusInstance consensus.Consensus, params *dagconfig.Params,
	extraTxs uint64, blocksRemaining *int64) *miner {

	return &miner{
		id:              id,
		consensus:       consensusInstance,
		params:          params,
		extraTxs:        extraTxs,
		random:          rand.New(rand.NewSource(time.Now().UnixNano() + int64(id))),
		blocksRemaining: blocksRemaining,
	}
}

func (m *miner) mineLoop() error {
	for atomic.AddInt64(m.blocksRemaining, -1) >= 0 {
		// An exponential wait approximates each miner finding blocks
		// as a Poisson process.
		meanWait := float64(m.params.TargetTimePerBlock)
		time.Sleep(time.Duration(m.random.ExpFloat64() * meanWait))

		block, err := m.buildBlock()
		if err != nil {
			return err
		}

		err = m.consensus.ValidateAndInsertBlock(block)
		if err != nil {
			// Two miners may mine on the same tips concurrently and
			// collide; losing such a race is part of the simulation.
			if errors.Is(err, ruleerrors.ErrDuplicateBlock) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *miner) buildBlock() (*externalapi.DomainBlock, error) {
	tips, err := m.consensus.Tips()
	if err != nil {
		return nil, err
	}
	if len(tips) > m.params.MaxBlockParents {
		tips = tips[:m.params.MaxBlockParents]
	}

	timeInMilliseconds, err := m.blockTime(tips)
	if err != nil {
		return nil, err
	}

	transactions := []*externalapi.DomainTransaction{m.newCoinbaseTransaction()}
	for i := uint64(0); i < m.extraTxs; i++ {
		transactions = append(transactions, m.newTransaction())
	}

	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            constants.BlockVersion,
			Parents:            []externalapi.BlockLevelParents{tips},
			HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(transactions),
			TimeInMilliseconds: timeInMilliseconds,
			Bits:               m.params.PowLimitBits,
			Nonce:              m.random.Uint64(),
		},
		Transactions: transactions,
	}, nil
}

// blockTime returns the current time, bumped above the parent timestamps if
// the local clock lags them
func (m *miner) blockTime(parentHashes []*externalapi.DomainHash) (int64, error) {
	blockTime := time.Now().UnixMilli()
	for _, parentHash := range parentHashes {
		parentHeader, err := m.consensus.GetBlockHeader(parentHash)
		if err != nil {
			return 0, err
		}
		if parentHeader.TimeInMilliseconds >= blockTime {
			blockTime = parentHeader.TimeInMilliseconds + 1
		}
	}
	return blockTime, nil
}

// newCoinbaseTransaction builds a coinbase paying this miner's subsidy to a
// per-block unique script
func (m *miner) newCoinbaseTransaction() *externalapi.DomainTransaction {
	coinbase := m.newTransaction()
	coinbase.Outputs = []*externalapi.DomainTransactionOutput{{
		Value:           constants.CoinbaseSubsidy,
		ScriptPublicKey: coinbase.Payload,
	}}
	return coinbase
}

// newTransaction builds a no-op transaction with a payload unique across all
// of this miner's blocks
func (m *miner) newTransaction() *externalapi.DomainTransaction {
	m.payloadCount++

	payload := make([]byte, 8+8+8)
	binary.LittleEndian.PutUint64(payload[8:], m.id)
	binary.LittleEndian.PutUint64(payload[16:], m.payloadCount)

	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{},
		Payload: payload,
	}
}
