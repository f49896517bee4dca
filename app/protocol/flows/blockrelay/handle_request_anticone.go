package blockrelay

import (
	"github.com/dagcore/dagd/app/appmessage"
	peerpkg "github.com/dagcore/dagd/app/protocol/peer"
	"github.com/dagcore/dagd/app/protocol/protocolerrors"
	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/dagcore/dagd/infrastructure/network/netadapter/router"
)

// RequestAnticoneContext is the interface for the context needed for the
// HandleRequestAnticone flow.
type RequestAnticoneContext interface {
	Consensus() consensus.Consensus
	Params() *dagconfig.Params
}

// HandleRequestAnticone listens to appmessage.MsgRequestAnticone messages and
// sends the headers of the requested block's anticone within the requesting
// peer's known past, in bottom-up topological order.
func HandleRequestAnticone(context RequestAnticoneContext, incomingRoute *router.Route,
	outgoingRoute *router.Route, peer *peerpkg.Peer) error {

	for {
		err := handleRequestAnticoneMessage(context, incomingRoute, outgoingRoute, peer)
		if err != nil {
			return err
		}
	}
}

func handleRequestAnticoneMessage(context RequestAnticoneContext, incomingRoute *router.Route,
	outgoingRoute *router.Route, peer *peerpkg.Peer) error {

	message, err := incomingRoute.Dequeue()
	if err != nil {
		return err
	}
	msgRequestAnticone := message.(*appmessage.MsgRequestAnticone)
	blockHash := msgRequestAnticone.BlockHash
	contextHash := msgRequestAnticone.ContextHash
	log.Debugf("Got request for anticone of block %s in the past of %s from %s",
		blockHash, contextHash, peer)

	blockInfo, err := context.Consensus().GetBlockInfo(blockHash)
	if err != nil {
		return err
	}
	if !blockInfo.HasHeader() {
		return protocolerrors.Errorf(true, "peer %s requested the anticone of unknown block %s",
			peer, blockHash)
	}
	contextInfo, err := context.Consensus().GetBlockInfo(contextHash)
	if err != nil {
		return err
	}
	if !contextInfo.HasHeader() {
		return protocolerrors.Errorf(true, "peer %s requested an anticone within the past of "+
			"unknown block %s", peer, contextHash)
	}

	// The response is bounded, so a malicious context hash cannot make
	// the node walk an arbitrarily large part of the DAG.
	maxBlocks := 2 * context.Params().MergeSetSizeLimit
	anticoneHashes, err := context.Consensus().GetAnticone(blockHash, contextHash, maxBlocks)
	if err != nil {
		return protocolerrors.Wrap(true, err, "failed resolving the requested anticone")
	}

	msgBlockHeaders := make([]*appmessage.MsgBlockHeader, len(anticoneHashes))
	for i, anticoneHash := range anticoneHashes {
		blockHeader, err := context.Consensus().GetBlockHeader(anticoneHash)
		if err != nil {
			return err
		}
		msgBlockHeaders[i] = appmessage.DomainBlockHeaderToBlockHeader(blockHeader)
	}

	err = outgoingRoute.Enqueue(appmessage.NewBlockHeadersMessage(msgBlockHeaders))
	if err != nil {
		return err
	}
	return outgoingRoute.Enqueue(appmessage.NewMsgDoneHeaders())
}
