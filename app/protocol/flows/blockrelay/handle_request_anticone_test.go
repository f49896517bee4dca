package blockrelay

import (
	"testing"
	"time"

	"github.com/dagcore/dagd/app/appmessage"
	peerpkg "github.com/dagcore/dagd/app/protocol/peer"
	"github.com/dagcore/dagd/app/protocol/protocolerrors"
	"github.com/dagcore/dagd/domain/consensus"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/consensushashing"
	"github.com/dagcore/dagd/domain/consensus/utils/testutils"
	"github.com/dagcore/dagd/domain/dagconfig"
	"github.com/dagcore/dagd/infrastructure/network/netadapter/router"
	"github.com/pkg/errors"
)

const flowTestTimeout = 30 * time.Second

type fakeRelayContext struct {
	consensus consensus.Consensus
	params    *dagconfig.Params
}

func (f *fakeRelayContext) Consensus() consensus.Consensus {
	return f.consensus
}

func (f *fakeRelayContext) Params() *dagconfig.Params {
	return f.params
}

func startAnticoneFlow(tc *testutils.TestConsensus) (
	incomingRoute, outgoingRoute *router.Route, errChan chan error) {

	context := &fakeRelayContext{consensus: tc.Consensus, params: tc.Params}
	incomingRoute = router.NewRoute("incoming")
	outgoingRoute = router.NewRoute("outgoing")
	peer := peerpkg.New(1, "1.2.3.4:16511")

	errChan = make(chan error)
	go func() {
		errChan <- HandleRequestAnticone(context, incomingRoute, outgoingRoute, peer)
	}()
	return incomingRoute, outgoingRoute, errChan
}

func TestHandleRequestAnticone(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestHandleRequestAnticone")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	// A chain next to a side block, merged by a single block. The side
	// block's anticone within the merge block's past is the whole chain.
	chainHashes, err := tc.AddChain(tc.Params.GenesisHash, 3)
	if err != nil {
		t.Fatalf("AddChain: %+v", err)
	}
	sideHash, err := tc.AddBlock([]*externalapi.DomainHash{tc.Params.GenesisHash})
	if err != nil {
		t.Fatalf("AddBlock side: %+v", err)
	}
	mergeHash, err := tc.AddBlock([]*externalapi.DomainHash{chainHashes[2], sideHash})
	if err != nil {
		t.Fatalf("AddBlock merge: %+v", err)
	}

	incomingRoute, outgoingRoute, errChan := startAnticoneFlow(tc)
	defer incomingRoute.Close()

	err = incomingRoute.Enqueue(appmessage.NewMsgRequestAnticone(sideHash, mergeHash))
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}

	message, err := outgoingRoute.DequeueWithTimeout(flowTestTimeout)
	if err != nil {
		t.Fatalf("DequeueWithTimeout: %+v", err)
	}
	headersMessage, ok := message.(*appmessage.BlockHeadersMessage)
	if !ok {
		t.Fatalf("expected a BlockHeaders message, got %s", message.Command())
	}
	if len(headersMessage.BlockHeaders) != len(chainHashes) {
		t.Fatalf("expected %d headers, got %d", len(chainHashes), len(headersMessage.BlockHeaders))
	}
	for i, msgBlockHeader := range headersMessage.BlockHeaders {
		domainBlockHeader := appmessage.BlockHeaderToDomainBlockHeader(msgBlockHeader)
		headerHash := consensushashing.HeaderHash(domainBlockHeader)
		if !headerHash.Equal(chainHashes[i]) {
			t.Fatalf("header %d hashes to %s, expected the chain block %s",
				i, headerHash, chainHashes[i])
		}
	}

	message, err = outgoingRoute.DequeueWithTimeout(flowTestTimeout)
	if err != nil {
		t.Fatalf("DequeueWithTimeout: %+v", err)
	}
	if message.Command() != appmessage.CmdDoneHeaders {
		t.Fatalf("expected a DoneHeaders message, got %s", message.Command())
	}

	// The flow must keep serving requests on the same routes.
	err = incomingRoute.Enqueue(appmessage.NewMsgRequestAnticone(sideHash, mergeHash))
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}
	message, err = outgoingRoute.DequeueWithTimeout(flowTestTimeout)
	if err != nil {
		t.Fatalf("DequeueWithTimeout: %+v", err)
	}
	if message.Command() != appmessage.CmdBlockHeaders {
		t.Fatalf("expected a BlockHeaders message, got %s", message.Command())
	}

	select {
	case err := <-errChan:
		t.Fatalf("flow exited unexpectedly: %+v", err)
	default:
	}
}

func TestHandleRequestAnticoneUnknownBlock(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestHandleRequestAnticoneUnknownBlock")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	incomingRoute, outgoingRoute, errChan := startAnticoneFlow(tc)
	defer incomingRoute.Close()
	defer outgoingRoute.Close()

	unknownHash := externalapi.NewDomainHashFromByteArray(
		&[externalapi.DomainHashSize]byte{0xff})
	err = incomingRoute.Enqueue(appmessage.NewMsgRequestAnticone(unknownHash, tc.Params.GenesisHash))
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}

	select {
	case err := <-errChan:
		protocolErr := &protocolerrors.ProtocolError{}
		if !errors.As(err, &protocolErr) {
			t.Fatalf("expected a protocol error, got %+v", err)
		}
		if !protocolErr.ShouldBan {
			t.Fatalf("requesting the anticone of an unknown block should be ban-worthy")
		}
	case <-time.After(flowTestTimeout):
		t.Fatalf("flow did not fail on an unknown block hash")
	}
}

func TestHandleRequestAnticoneRouteClosed(t *testing.T) {
	tc, teardown, err := testutils.NewTestConsensus("TestHandleRequestAnticoneRouteClosed")
	if err != nil {
		t.Fatalf("NewTestConsensus: %+v", err)
	}
	defer teardown()

	incomingRoute, outgoingRoute, errChan := startAnticoneFlow(tc)
	defer outgoingRoute.Close()

	incomingRoute.Close()

	select {
	case err := <-errChan:
		if !errors.Is(err, router.ErrRouteClosed) {
			t.Fatalf("expected ErrRouteClosed, got %+v", err)
		}
	case <-time.After(flowTestTimeout):
		t.Fatalf("flow did not exit after its incoming route was closed")
	}
}
