package peer

import (
	"fmt"
	"sync"
	"time"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// Peer holds the protocol-relevant state of a connected peer
type Peer struct {
	id            uint64
	address       string
	timeConnected time.Time

	lastAnnouncedBlockMtx sync.RWMutex
	lastAnnouncedBlock    *externalapi.DomainHash
}

// New returns a new Peer
func New(id uint64, address string) *Peer {
	return &Peer{
		id:            id,
		address:       address,
		timeConnected: time.Now(),
	}
}

// ID returns the peer's unique ID
func (p *Peer) ID() uint64 {
	return p.id
}

// Address returns the peer's network address
func (p *Peer) Address() string {
	return p.address
}

// TimeConnected returns the time this peer connected
func (p *Peer) TimeConnected() time.Time {
	return p.timeConnected
}

// LastAnnouncedBlock returns the hash of the last block this peer announced
func (p *Peer) LastAnnouncedBlock() *externalapi.DomainHash {
	p.lastAnnouncedBlockMtx.RLock()
	defer p.lastAnnouncedBlockMtx.RUnlock()

	return p.lastAnnouncedBlock
}

// SetLastAnnouncedBlock records the hash of the last block this peer announced
func (p *Peer) SetLastAnnouncedBlock(blockHash *externalapi.DomainHash) {
	p.lastAnnouncedBlockMtx.Lock()
	defer p.lastAnnouncedBlockMtx.Unlock()

	p.lastAnnouncedBlock = blockHash
}

func (p *Peer) String() string {
	return fmt.Sprintf("%s (id %d)", p.address, p.id)
}
