package blockrelay

import (
	"testing"

	"github.com/dagcore/dagd/app/appmessage"
	peerpkg "github.com/dagcore/dagd/app/protocol/peer"
	"github.com/dagcore/dagd/domain/consensus/utils/testutils"
	"github.com/dagcore/dagd/infrastructure/network/netadapter/router"
)

func TestHandlePruningPointInfoRequests(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestHandlePruningPointInfoRequests")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	context := &fakeRelayContext{consensus: tc.Consensus, params: tc.Params}
	incomingRoute := router.NewRoute("incoming")
	outgoingRoute := router.NewRoute("outgoing")
	peer := peerpkg.New(1, "1.2.3.4:16511")

	errChan := make(chan error)
	go func() {
		errChan <- HandlePruningPointInfoRequests(context, incomingRoute, outgoingRoute, peer)
	}()
	defer incomingRoute.Close()

	err = incomingRoute.Enqueue(appmessage.NewMsgRequestPruningPointInfo())
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}

	message, err := outgoingRoute.DequeueWithTimeout(flowTestTimeout)
	if err != nil {
		t.Fatalf("DequeueWithTimeout: %+v", err)
	}
	infoMessage, ok := message.(*appmessage.MsgPruningPointInfo)
	if !ok {
		t.Fatalf("expected a PruningPointInfo message, got %s", message.Command())
	}

	// Nothing was pruned on a fresh DAG.
	if infoMessage.PruningPoint != nil || infoMessage.BlueScore != 0 {
		t.Fatalf("fresh DAG unexpectedly reports a pruning point %s at blue score %d",
			infoMessage.PruningPoint, infoMessage.BlueScore)
	}

	select {
	case err := <-errChan:
		t.Fatalf("flow exited unexpectedly: %+v", err)
	default:
	}
}
