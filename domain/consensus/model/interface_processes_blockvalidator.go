package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// BlockValidator exposes a set of validation classes, each one validating
// some particular aspect of a block
type BlockValidator interface {
	ValidateHeaderInIsolation(stagingArea *StagingArea, block *externalapi.DomainBlock) error
	ValidateHeaderInContext(stagingArea *StagingArea, block *externalapi.DomainBlock) error
	ValidateBodyInIsolation(stagingArea *StagingArea, block *externalapi.DomainBlock) error
}
