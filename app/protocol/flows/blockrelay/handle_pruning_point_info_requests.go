package blockrelay

import (
	"github.com/dagcore/dagd/app/appmessage"
	peerpkg "github.com/dagcore/dagd/app/protocol/peer"
	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/infrastructure/network/netadapter/router"
)

// PruningPointInfoRequestsContext is the interface for the context needed for the
// HandlePruningPointInfoRequests flow.
type PruningPointInfoRequestsContext interface {
	Consensus() consensus.Consensus
}

// HandlePruningPointInfoRequests listens to appmessage.MsgRequestPruningPointInfo
// messages and sends the node's current pruning point and its blue score to the
// requesting peer
func HandlePruningPointInfoRequests(context PruningPointInfoRequestsContext,
	incomingRoute *router.Route, outgoingRoute *router.Route, peer *peerpkg.Peer) error {

	for {
		_, err := incomingRoute.Dequeue()
		if err != nil {
			return err
		}
		log.Debugf("Got request for the pruning point info from %s", peer)

		pruningPointInfo, err := context.Consensus().PruningPoint()
		if err != nil {
			return err
		}

		// A nil pruning point means nothing was pruned yet, which the
		// message passes along as is.
		message := appmessage.NewMsgPruningPointInfo(nil, 0)
		if pruningPointInfo != nil {
			message = appmessage.NewMsgPruningPointInfo(
				pruningPointInfo.PruningPoint, pruningPointInfo.BlueScore)
		}

		err = outgoingRoute.Enqueue(message)
		if err != nil {
			return err
		}
	}
}
