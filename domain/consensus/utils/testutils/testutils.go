package testutils

import (
	"encoding/binary"
	"os"
	"sync/atomic"

	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/constants"
	"github.com/dagcore/dagd/domain/consensus/utils/merkle"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/dagcore/dagd/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

const testDatabaseCacheSizeMiB = 8

// TestConsensus wraps a real consensus over a throwaway LevelDB with helpers
// for building valid blocks on top of arbitrary parents
type TestConsensus struct {
	Consensus consensus.Consensus
	Params    *dagconfig.Params

	nonceCounter uint64
}

// NewTestConsensus creates a started and initialized consensus over simnet
// parameters and a temporary database. The returned teardown function stops
// the consensus and deletes the database.
func NewTestConsensus(testName string) (*TestConsensus, func(), error) {
	return NewTestConsensusWithParams(testName, &dagconfig.SimnetParams)
}

// NewTestConsensusWithParams is like NewTestConsensus with explicit network
// parameters, for tests that shrink the DAG constants
func NewTestConsensusWithParams(testName string, givenParams *dagconfig.Params) (
	*TestConsensus, func(), error) {

	databaseDir, err := os.MkdirTemp("", testName)
	if err != nil {
		return nil, nil, err
	}

	db, err := ldb.NewLevelDB(databaseDir, testDatabaseCacheSizeMiB)
	if err != nil {
		_ = os.RemoveAll(databaseDir)
		return nil, nil, err
	}

	params := *givenParams
	consensusInstance, err := consensus.NewFactory().NewConsensus(&params, db)
	if err != nil {
		_ = db.Close()
		_ = os.RemoveAll(databaseDir)
		return nil, nil, err
	}

	consensusInstance.Start()
	err = consensusInstance.Init()
	if err != nil {
		consensusInstance.Stop()
		_ = db.Close()
		_ = os.RemoveAll(databaseDir)
		return nil, nil, errors.Wrapf(err, "failed inserting the genesis block")
	}

	teardown := func() {
		consensusInstance.Stop()
		err := db.Close()
		if err != nil {
			panic(err)
		}
		err = os.RemoveAll(databaseDir)
		if err != nil {
			panic(err)
		}
	}

	tc := &TestConsensus{
		Consensus: consensusInstance,
		Params:    &params,
	}
	return tc, teardown, nil
}

// AddBlock builds a valid block on top of the given parents, inserts it and
// returns its hash. Additional transactions are included after the
// block-unique coinbase.
func (tc *TestConsensus) AddBlock(parentHashes []*externalapi.DomainHash,
	transactions ...*externalapi.DomainTransaction) (*externalapi.DomainHash, error) {

	block, err := tc.BuildBlock(parentHashes, transactions...)
	if err != nil {
		return nil, err
	}

	err = tc.Consensus.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, err
	}
	return consensushashing.BlockHash(block), nil
}

// BuildBlock builds a valid block on top of the given parents without
// inserting it
func (tc *TestConsensus) BuildBlock(parentHashes []*externalapi.DomainHash,
	transactions ...*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	timeInMilliseconds, err := tc.blockTime(parentHashes)
	if err != nil {
		return nil, err
	}

	nonce := atomic.AddUint64(&tc.nonceCounter, 1)
	blockTransactions := append(
		[]*externalapi.DomainTransaction{newCoinbaseTransaction(nonce)}, transactions...)

	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            constants.BlockVersion,
			Parents:            []externalapi.BlockLevelParents{parentHashes},
			HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(blockTransactions),
			TimeInMilliseconds: timeInMilliseconds,
			Bits:               tc.Params.PowLimitBits,
			Nonce:              nonce,
		},
		Transactions: blockTransactions,
	}, nil
}

// BuildBlockOnBlocks builds a valid block on top of the given parent blocks.
// Unlike BuildBlock it does not consult the consensus, so the parents do not
// need to have been inserted yet.
func (tc *TestConsensus) BuildBlockOnBlocks(parentBlocks ...*externalapi.DomainBlock) *externalapi.DomainBlock {
	maxParentTime := int64(0)
	parentHashes := make([]*externalapi.DomainHash, len(parentBlocks))
	for i, parentBlock := range parentBlocks {
		parentHashes[i] = consensushashing.BlockHash(parentBlock)
		if parentBlock.Header.TimeInMilliseconds > maxParentTime {
			maxParentTime = parentBlock.Header.TimeInMilliseconds
		}
	}

	nonce := atomic.AddUint64(&tc.nonceCounter, 1)
	blockTransactions := []*externalapi.DomainTransaction{newCoinbaseTransaction(nonce)}

	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:            constants.BlockVersion,
			Parents:            []externalapi.BlockLevelParents{parentHashes},
			HashMerkleRoot:     *merkle.CalculateHashMerkleRoot(blockTransactions),
			TimeInMilliseconds: maxParentTime + 1,
			Bits:               tc.Params.PowLimitBits,
			Nonce:              nonce,
		},
		Transactions: blockTransactions,
	}
}

// AddChain builds a chain of chainLength blocks on top of fromHash and
// returns the hashes of the new blocks in chain order
func (tc *TestConsensus) AddChain(fromHash *externalapi.DomainHash, chainLength int) (
	[]*externalapi.DomainHash, error) {

	chainHashes := make([]*externalapi.DomainHash, 0, chainLength)
	currentHash := fromHash
	for i := 0; i < chainLength; i++ {
		addedHash, err := tc.AddBlock([]*externalapi.DomainHash{currentHash})
		if err != nil {
			return nil, err
		}
		chainHashes = append(chainHashes, addedHash)
		currentHash = addedHash
	}
	return chainHashes, nil
}

// blockTime returns a timestamp strictly above each parent's timestamp, and
// therefore above the new block's past median time
func (tc *TestConsensus) blockTime(parentHashes []*externalapi.DomainHash) (int64, error) {
	maxParentTime := int64(0)
	for _, parentHash := range parentHashes {
		parentHeader, err := tc.Consensus.GetBlockHeader(parentHash)
		if err != nil {
			return 0, err
		}
		if parentHeader.TimeInMilliseconds > maxParentTime {
			maxParentTime = parentHeader.TimeInMilliseconds
		}
	}
	return maxParentTime + 1, nil
}

// newCoinbaseTransaction builds a coinbase with a payload unique to the
// given nonce, so every built block has a distinct merkle root. The single
// output makes the virtual UTXO set grow with every accepted chain block.
func newCoinbaseTransaction(nonce uint64) *externalapi.DomainTransaction {
	payload := make([]byte, 8+8)
	binary.LittleEndian.PutUint64(payload[8:], nonce)

	return &externalapi.DomainTransaction{
		Version: 0,
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           constants.CoinbaseSubsidy,
			ScriptPublicKey: payload,
		}},
		Payload: payload,
	}
}
