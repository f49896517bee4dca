package utxo

import (
	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

type immutableUTXODiff struct {
	toAdd    utxoCollection
	toRemove utxoCollection
}

// NewUTXODiff creates an empty UTXODiff
func NewUTXODiff() model.UTXODiff {
	return &immutableUTXODiff{
		toAdd:    utxoCollection{},
		toRemove: utxoCollection{},
	}
}

// NewUTXODiffFromCollections returns a new UTXODiff with the given toAdd and toRemove collections
func NewUTXODiffFromCollections(toAdd, toRemove model.UTXOCollection) (model.UTXODiff, error) {
	add, ok := toAdd.(utxoCollection)
	if !ok {
		return nil, errors.New("toAdd is not of type utxoCollection")
	}
	remove, ok := toRemove.(utxoCollection)
	if !ok {
		return nil, errors.New("toRemove is not of type utxoCollection")
	}
	return &immutableUTXODiff{
		toAdd:    add,
		toRemove: remove,
	}, nil
}

func (d *immutableUTXODiff) ToAdd() model.UTXOCollection {
	return d.toAdd
}

func (d *immutableUTXODiff) ToRemove() model.UTXOCollection {
	return d.toRemove
}

func (d *immutableUTXODiff) Reversed() model.UTXODiff {
	return &immutableUTXODiff{
		toAdd:    d.toRemove,
		toRemove: d.toAdd,
	}
}

// MutableUTXODiff accumulates UTXO changes while a chain block's
// transactions are applied, and while diffs of multiple chain blocks
// are merged into one
type MutableUTXODiff struct {
	toAdd    utxoCollection
	toRemove utxoCollection
}

// NewMutableUTXODiff creates an empty MutableUTXODiff
func NewMutableUTXODiff() *MutableUTXODiff {
	return &MutableUTXODiff{
		toAdd:    utxoCollection{},
		toRemove: utxoCollection{},
	}
}

// ToImmutable converts this MutableUTXODiff into an immutable UTXODiff.
// The mutable diff must not be used after this call.
func (d *MutableUTXODiff) ToImmutable() model.UTXODiff {
	return &immutableUTXODiff{
		toAdd:    d.toAdd,
		toRemove: d.toRemove,
	}
}

// AddEntry adds the given UTXO entry to the diff. If the entry is slated
// for removal, the two cancel out.
func (d *MutableUTXODiff) AddEntry(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	if d.toRemove.Contains(outpoint) {
		d.toRemove.remove(outpoint)
		return nil
	}
	if d.toAdd.Contains(outpoint) {
		return errors.Errorf("AddEntry: outpoint %s is already in toAdd", outpoint)
	}
	d.toAdd.add(outpoint, entry)
	return nil
}

// RemoveEntry slates the given UTXO entry for removal. If the entry was
// added by this same diff, the two cancel out.
func (d *MutableUTXODiff) RemoveEntry(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	if d.toAdd.Contains(outpoint) {
		d.toAdd.remove(outpoint)
		return nil
	}
	if d.toRemove.Contains(outpoint) {
		return errors.Errorf("RemoveEntry: outpoint %s is already in toRemove", outpoint)
	}
	d.toRemove.add(outpoint, entry)
	return nil
}

// WithDiffInPlace applies the given diff on top of this one
func (d *MutableUTXODiff) WithDiffInPlace(other model.UTXODiff) error {
	err := other.ToRemove().Iterate(func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
		return d.RemoveEntry(outpoint, entry)
	})
	if err != nil {
		return err
	}
	return other.ToAdd().Iterate(func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
		return d.AddEntry(outpoint, entry)
	})
}
