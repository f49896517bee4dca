package hashes

import (
	"hash"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// HashWriter hashes data incrementally through an io.Writer interface,
// so callers never have to assemble a contiguous buffer. The underlying
// function is blake2b, and instances only come from the domain separated
// constructors in this package.
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite is Write without the error return. The hash.Hash
// contract promises writes never fail, so a failure here panics.
func (h HashWriter) InfallibleWrite(p []byte) {
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the hash of everything written so far
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var sum [externalapi.DomainHashSize]byte
	// Passing sum[:0] lets Sum fill the array in place; the copy covers
	// implementations that allocate anyway.
	copy(sum[:], h.Sum(sum[:0]))
	return externalapi.NewDomainHashFromByteArray(&sum)
}
