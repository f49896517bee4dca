package utxo

import (
	"bytes"
	"io"

	"github.com/dagcore/dagd/domain/consensus/model"
	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// SerializeUTXODiff serializes the given UTXODiff
func SerializeUTXODiff(diff model.UTXODiff) ([]byte, error) {
	w := &bytes.Buffer{}

	err := serializeUTXOCollection(w, diff.ToAdd())
	if err != nil {
		return nil, err
	}
	err = serializeUTXOCollection(w, diff.ToRemove())
	if err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// DeserializeUTXODiff deserializes a UTXODiff serialized by SerializeUTXODiff
func DeserializeUTXODiff(diffBytes []byte) (model.UTXODiff, error) {
	r := bytes.NewReader(diffBytes)

	toAdd, err := deserializeUTXOCollection(r)
	if err != nil {
		return nil, err
	}
	toRemove, err := deserializeUTXOCollection(r)
	if err != nil {
		return nil, err
	}

	return &immutableUTXODiff{toAdd: toAdd, toRemove: toRemove}, nil
}

func serializeUTXOCollection(w io.Writer, collection model.UTXOCollection) error {
	err := serialization.WriteElement(w, uint64(collection.Len()))
	if err != nil {
		return err
	}
	return collection.Iterate(func(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
		return SerializeUTXO(w, outpoint, entry)
	})
}

func deserializeUTXOCollection(r io.Reader) (utxoCollection, error) {
	var length uint64
	err := serialization.ReadElement(r, &length)
	if err != nil {
		return nil, err
	}
	collection := make(utxoCollection, length)
	for i := uint64(0); i < length; i++ {
		outpoint, entry, err := DeserializeUTXO(r)
		if err != nil {
			return nil, err
		}
		collection.add(outpoint, entry)
	}
	return collection, nil
}

// SerializeUTXO serializes an outpoint alongside its UTXO entry. This is also
// the exact byte sequence fed into the UTXO multiset, so any change here
// changes the virtual's UTXO commitment.
func SerializeUTXO(w io.Writer, outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	err := serialization.WriteElements(w, &outpoint.TransactionID, outpoint.Index)
	if err != nil {
		return err
	}
	return serialization.WriteElements(w, entry.Amount, entry.ScriptPublicKey, entry.BlockBlueScore, entry.IsCoinbase)
}

// SerializeUTXOToBytes is a convenience wrapper around SerializeUTXO that
// returns the serialization as a byte slice
func SerializeUTXOToBytes(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) []byte {
	w := &bytes.Buffer{}
	err := SerializeUTXO(w, outpoint, entry)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Writing to a bytes.Buffer should never return an error"))
	}
	return w.Bytes()
}

// DeserializeUTXO deserializes an outpoint and UTXO entry pair serialized by SerializeUTXO
func DeserializeUTXO(r io.Reader) (*externalapi.DomainOutpoint, *externalapi.UTXOEntry, error) {
	outpoint, err := deserializeOutpoint(r)
	if err != nil {
		return nil, nil, err
	}
	entry, err := deserializeUTXOEntry(r)
	if err != nil {
		return nil, nil, err
	}
	return outpoint, entry, nil
}

// SerializeOutpoint serializes the given outpoint into a byte slice
func SerializeOutpoint(outpoint *externalapi.DomainOutpoint) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serialization.WriteElements(w, &outpoint.TransactionID, outpoint.Index)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func deserializeOutpoint(r io.Reader) (*externalapi.DomainOutpoint, error) {
	idBytes := make([]byte, externalapi.DomainHashSize)
	_, err := io.ReadFull(r, idBytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	transactionID, err := externalapi.NewDomainTransactionIDFromByteSlice(idBytes)
	if err != nil {
		return nil, err
	}
	var index uint32
	err = serialization.ReadElement(r, &index)
	if err != nil {
		return nil, err
	}
	return externalapi.NewDomainOutpoint(transactionID, index), nil
}

// SerializeUTXOEntry serializes the given UTXO entry into a byte slice
func SerializeUTXOEntry(entry *externalapi.UTXOEntry) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serialization.WriteElements(w, entry.Amount, entry.ScriptPublicKey, entry.BlockBlueScore, entry.IsCoinbase)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeUTXOEntry deserializes a UTXO entry serialized by SerializeUTXOEntry
func DeserializeUTXOEntry(entryBytes []byte) (*externalapi.UTXOEntry, error) {
	return deserializeUTXOEntry(bytes.NewReader(entryBytes))
}

func deserializeUTXOEntry(r io.Reader) (*externalapi.UTXOEntry, error) {
	entry := &externalapi.UTXOEntry{}
	err := serialization.ReadElements(r, &entry.Amount)
	if err != nil {
		return nil, err
	}
	var scriptLength uint64
	err = serialization.ReadElement(r, &scriptLength)
	if err != nil {
		return nil, err
	}
	entry.ScriptPublicKey = make([]byte, scriptLength)
	_, err = io.ReadFull(r, entry.ScriptPublicKey)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = serialization.ReadElements(r, &entry.BlockBlueScore, &entry.IsCoinbase)
	if err != nil {
		return nil, err
	}
	return entry, nil
}
