package appmessage

import (
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// MsgRequestAnticone asks a peer for the headers in the intersection of
// past(ContextHash) and anticone(BlockHash)
type MsgRequestAnticone struct {
	baseMessage
	BlockHash   *externalapi.DomainHash
	ContextHash *externalapi.DomainHash
}

// Command returns the protocol command of this message
func (msg *MsgRequestAnticone) Command() MessageCommand {
	return CmdRequestAnticone
}

// NewMsgRequestAnticone builds a RequestAnticone message for the given
// block and context hashes
func NewMsgRequestAnticone(blockHash, contextHash *externalapi.DomainHash) *MsgRequestAnticone {
	return &MsgRequestAnticone{
		BlockHash:   blockHash,
		ContextHash: contextHash,
	}
}
