package appmessage

import (
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// MsgRequestPruningPointInfo represents a RequestPruningPointInfo message.
// It is used by a syncing peer to learn where the node's pruning horizon is
// before negotiating which headers to request.
//
// This message has no payload.
type MsgRequestPruningPointInfo struct {
	baseMessage
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgRequestPruningPointInfo) Command() MessageCommand {
	return CmdRequestPruningPointInfo
}

// NewMsgRequestPruningPointInfo returns a new RequestPruningPointInfo message
// that conforms to the Message interface.
func NewMsgRequestPruningPointInfo() *MsgRequestPruningPointInfo {
	return &MsgRequestPruningPointInfo{}
}

// MsgPruningPointInfo represents a PruningPointInfo message. A nil
// PruningPoint means the node did not prune anything yet.
type MsgPruningPointInfo struct {
	baseMessage
	PruningPoint *externalapi.DomainHash
	BlueScore    uint64
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgPruningPointInfo) Command() MessageCommand {
	return CmdPruningPointInfo
}

// NewMsgPruningPointInfo returns a new PruningPointInfo message that conforms
// to the Message interface.
func NewMsgPruningPointInfo(pruningPoint *externalapi.DomainHash, blueScore uint64) *MsgPruningPointInfo {
	return &MsgPruningPointInfo{
		PruningPoint: pruningPoint,
		BlueScore:    blueScore,
	}
}
