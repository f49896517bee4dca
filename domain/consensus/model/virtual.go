package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// VirtualBlockHash is a marker hash for the virtual block: a synthetic,
// locally-computed block over the current DAG tips, used to linearize the
// DAG for UTXO application.
var VirtualBlockHash = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
})
