// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"math/big"
	"time"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
)

// These variables are the DAG proof-of-work limit parameters for each default
// network.
var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowMax is the highest proof of work value a block can
	// have for the main network. It is the value 2^255 - 1.
	mainPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

	// simnetPowMax is the highest proof of work value a block can
	// have for the simulation test network. It is the value 2^255 - 1.
	simnetPowMax = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

const (
	ghostdagK                   = 18
	maxBlockParents             = 10
	mergeSetSizeLimit           = uint64(ghostdagK) * 10
	targetTimePerBlock          = time.Second
	timestampDeviationTolerance = 132
	finalityDuration            = 24 * time.Hour
	mergeDepth                  = 3600
)

// Params defines a DAG network by its parameters. These parameters may be
// used by applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the DAG.
	GenesisBlock *externalapi.DomainBlock

	// GenesisHash is the starting block hash.
	GenesisHash *externalapi.DomainHash

	// PowLimit defines the highest allowed proof of work value for a
	// block as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for
	// a block in compact form.
	PowLimitBits uint32

	// K defines the K parameter for GHOSTDAG consensus algorithm.
	// See ghostdag.go for further details.
	K model.KType

	// MaxBlockParents is the maximum number of direct parents a block
	// header may point at.
	MaxBlockParents int

	// MergeSetSizeLimit is the maximum number of blocks a block is
	// allowed to merge.
	MergeSetSizeLimit uint64

	// MergeDepth is the bounded merge depth: blocks may not merge
	// blocks that are deeper than it in the selected chain's past.
	MergeDepth uint64

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// TimestampDeviationTolerance is the maximum offset a block timestamp
	// is allowed to be in the future, in units of TargetTimePerBlock.
	TimestampDeviationTolerance uint64

	// FinalityDuration is the duration of the finality window, which
	// bounds how deep a reorg may reach. It also determines the pruning
	// depth.
	FinalityDuration time.Duration

	// SkipProofOfWork defines whether proof of work should be verified.
	// Used by the simulation network and by tests.
	SkipProofOfWork bool
}

// FinalityDepth returns the finality duration represented in blocks
func (p *Params) FinalityDepth() uint64 {
	return uint64(p.FinalityDuration / p.TargetTimePerBlock)
}

// PruningDepth returns the pruning duration represented in blocks. The
// pruning point is kept at least this deep below the virtual, so that the
// finality window and the merge depth root always stay unpruned.
func (p *Params) PruningDepth() uint64 {
	return 2*p.FinalityDepth() + 4*p.MergeSetSizeLimit*uint64(p.K) + 2*uint64(p.K) + 2
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name: "dag-mainnet",

	GenesisBlock: genesisBlock,
	GenesisHash:  consensushashing.BlockHash(genesisBlock),

	PowLimit:     mainPowMax,
	PowLimitBits: 0x207fffff,

	K:                           ghostdagK,
	MaxBlockParents:             maxBlockParents,
	MergeSetSizeLimit:           mergeSetSizeLimit,
	MergeDepth:                  mergeDepth,
	TargetTimePerBlock:          targetTimePerBlock,
	TimestampDeviationTolerance: timestampDeviationTolerance,
	FinalityDuration:            finalityDuration,
	SkipProofOfWork:             false,
}

// SimnetParams defines the network parameters for the simulation test
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	Name: "dag-simnet",

	GenesisBlock: simnetGenesisBlock,
	GenesisHash:  consensushashing.BlockHash(simnetGenesisBlock),

	PowLimit:     simnetPowMax,
	PowLimitBits: 0x207fffff,

	K:                           ghostdagK,
	MaxBlockParents:             maxBlockParents,
	MergeSetSizeLimit:           mergeSetSizeLimit,
	MergeDepth:                  mergeDepth,
	TargetTimePerBlock:          time.Millisecond,
	TimestampDeviationTolerance: timestampDeviationTolerance,
	FinalityDuration:            time.Minute,
	SkipProofOfWork:             true,
}
