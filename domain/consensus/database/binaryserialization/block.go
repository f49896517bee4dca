package binaryserialization

import (
	"bytes"
	"io"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// SerializeBlock serializes a full block, header and transactions, to a
// slice of bytes
func SerializeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	w := &bytes.Buffer{}
	err := writeHeader(w, block.Header)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteElement(w, uint64(len(block.Transactions)))
	if err != nil {
		return nil, err
	}
	for _, tx := range block.Transactions {
		err := writeTransaction(w, tx)
		if err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

// DeserializeBlock deserializes a slice of bytes to a full block
func DeserializeBlock(blockBytes []byte) (*externalapi.DomainBlock, error) {
	r := bytes.NewReader(blockBytes)
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	var numTransactions uint64
	err = serialization.ReadElement(r, &numTransactions)
	if err != nil {
		return nil, err
	}
	transactions := make([]*externalapi.DomainTransaction, numTransactions)
	for i := uint64(0); i < numTransactions; i++ {
		transactions[i], err = readTransaction(r)
		if err != nil {
			return nil, err
		}
	}
	return &externalapi.DomainBlock{Header: header, Transactions: transactions}, nil
}

func writeTransaction(w io.Writer, tx *externalapi.DomainTransaction) error {
	err := serialization.WriteElements(w, tx.Version, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}
	for _, input := range tx.Inputs {
		err := serialization.WriteElements(w, &input.PreviousOutpoint.TransactionID,
			input.PreviousOutpoint.Index, input.Sequence)
		if err != nil {
			return err
		}
	}
	err = serialization.WriteElement(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}
	for _, output := range tx.Outputs {
		err := serialization.WriteElements(w, output.Value, output.ScriptPublicKey)
		if err != nil {
			return err
		}
	}
	return serialization.WriteElements(w, tx.LockTime, tx.Payload, tx.Mass)
}

func readTransaction(r io.Reader) (*externalapi.DomainTransaction, error) {
	tx := &externalapi.DomainTransaction{}
	var numInputs uint64
	err := serialization.ReadElements(r, &tx.Version, &numInputs)
	if err != nil {
		return nil, err
	}
	tx.Inputs = make([]*externalapi.DomainTransactionInput, numInputs)
	for i := uint64(0); i < numInputs; i++ {
		input := &externalapi.DomainTransactionInput{}
		transactionID, err := readTransactionID(r)
		if err != nil {
			return nil, err
		}
		input.PreviousOutpoint.TransactionID = *transactionID
		err = serialization.ReadElements(r, &input.PreviousOutpoint.Index, &input.Sequence)
		if err != nil {
			return nil, err
		}
		tx.Inputs[i] = input
	}
	var numOutputs uint64
	err = serialization.ReadElement(r, &numOutputs)
	if err != nil {
		return nil, err
	}
	tx.Outputs = make([]*externalapi.DomainTransactionOutput, numOutputs)
	for i := uint64(0); i < numOutputs; i++ {
		output := &externalapi.DomainTransactionOutput{}
		err := serialization.ReadElement(r, &output.Value)
		if err != nil {
			return nil, err
		}
		output.ScriptPublicKey, err = readByteSlice(r)
		if err != nil {
			return nil, err
		}
		tx.Outputs[i] = output
	}
	err = serialization.ReadElement(r, &tx.LockTime)
	if err != nil {
		return nil, err
	}
	tx.Payload, err = readByteSlice(r)
	if err != nil {
		return nil, err
	}
	err = serialization.ReadElement(r, &tx.Mass)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func readTransactionID(r io.Reader) (*externalapi.DomainTransactionID, error) {
	idBytes := make([]byte, externalapi.DomainHashSize)
	_, err := io.ReadFull(r, idBytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return externalapi.NewDomainTransactionIDFromByteSlice(idBytes)
}

func readByteSlice(r io.Reader) ([]byte, error) {
	var length uint64
	err := serialization.ReadElement(r, &length)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	_, err = io.ReadFull(r, data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
