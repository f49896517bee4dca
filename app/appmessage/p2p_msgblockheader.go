package appmessage

import (
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// MaxNumParentBlocks is the maximum number of parent blocks a block can reference.
// Currently set to 255 as the maximum number NumParentBlocks can be due to it being a byte
const MaxNumParentBlocks = 255

// MsgBlockHeader defines information about a block and is used in the
// headers (BlockHeaders) message.
type MsgBlockHeader struct {
	baseMessage

	// Version of the block. This is not the same as the protocol version.
	Version uint16

	// Hashes of the parent block headers in the blockDAG, by block level.
	Parents []externalapi.BlockLevelParents

	// HashMerkleRoot is the merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *externalapi.DomainHash

	// Time the block was created, in milliseconds since the unix epoch.
	TimeInMilliseconds int64

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint64
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgBlockHeader) Command() MessageCommand {
	return CmdBlockHeaders
}

// NewMsgBlockHeader returns a new block header message that conforms to the
// Message interface.
func NewMsgBlockHeader(version uint16, parents []externalapi.BlockLevelParents,
	hashMerkleRoot *externalapi.DomainHash, timeInMilliseconds int64, bits uint32,
	nonce uint64) *MsgBlockHeader {

	return &MsgBlockHeader{
		Version:            version,
		Parents:            parents,
		HashMerkleRoot:     hashMerkleRoot,
		TimeInMilliseconds: timeInMilliseconds,
		Bits:               bits,
		Nonce:              nonce,
	}
}
