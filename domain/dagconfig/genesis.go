// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dagconfig

import (
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/constants"
	"github.com/dagcore/dagd/domain/consensus/utils/merkle"
)

var genesisTxOuts = []*externalapi.DomainTransactionOutput{}

var genesisTxPayload = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Blue score
	0x01, // Varint
	0x00, // OP-FALSE
}

// genesisCoinbaseTx is the coinbase transaction for the genesis block for
// the main network.
var genesisCoinbaseTx = &externalapi.DomainTransaction{
	Version:      0,
	Inputs:       []*externalapi.DomainTransactionInput{},
	Outputs:      genesisTxOuts,
	LockTime:     0,
	Payload:      genesisTxPayload,
}

// genesisMerkleRoot is the merkle root of the single transaction in the
// genesis block for the main network.
var genesisMerkleRoot = merkle.CalculateHashMerkleRoot(
	[]*externalapi.DomainTransaction{genesisCoinbaseTx})

// genesisBlock defines the genesis block of the block DAG which serves as
// the public transaction ledger for the main network.
var genesisBlock = &externalapi.DomainBlock{
	Header: &externalapi.DomainBlockHeader{
		Version:            constants.BlockVersion,
		Parents:            []externalapi.BlockLevelParents{},
		HashMerkleRoot:     *genesisMerkleRoot,
		TimeInMilliseconds: 0x177a5f1dd32,
		Bits:               0x207fffff,
		Nonce:              0x4,
	},
	Transactions: []*externalapi.DomainTransaction{genesisCoinbaseTx},
}

var simnetGenesisTxOuts = []*externalapi.DomainTransactionOutput{}

var simnetGenesisTxPayload = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Blue score
	0x01,                                                 // Varint
	0x00,                                                 // OP-FALSE
	0x64, 0x61, 0x67, 0x2d, 0x73, 0x69, 0x6d, 0x6e, 0x65, 0x74, // dag-simnet
}

// simnetGenesisCoinbaseTx is the coinbase transaction for the genesis block
// for the simulation network.
var simnetGenesisCoinbaseTx = &externalapi.DomainTransaction{
	Version:  0,
	Inputs:   []*externalapi.DomainTransactionInput{},
	Outputs:  simnetGenesisTxOuts,
	LockTime: 0,
	Payload:  simnetGenesisTxPayload,
}

// simnetGenesisMerkleRoot is the merkle root of the single transaction in
// the genesis block for the simulation network.
var simnetGenesisMerkleRoot = merkle.CalculateHashMerkleRoot(
	[]*externalapi.DomainTransaction{simnetGenesisCoinbaseTx})

// simnetGenesisBlock defines the genesis block of the block DAG which serves
// as the public transaction ledger for the simulation network.
var simnetGenesisBlock = &externalapi.DomainBlock{
	Header: &externalapi.DomainBlockHeader{
		Version:            constants.BlockVersion,
		Parents:            []externalapi.BlockLevelParents{},
		HashMerkleRoot:     *simnetGenesisMerkleRoot,
		TimeInMilliseconds: 0x17c5f62fbb4,
		Bits:               0x207fffff,
		Nonce:              0x2,
	},
	Transactions: []*externalapi.DomainTransaction{simnetGenesisCoinbaseTx},
}
