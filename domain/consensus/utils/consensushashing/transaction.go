package consensushashing

import (
	"io"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/domain/consensus/utils/hashes"
	"github.com/dagcore/dagd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// TransactionHash returns the transaction hash, commiting to the entire
// transaction including its inputs' scripts
func TransactionHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionHashWriter()
	err := serializeTransaction(writer, tx)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}

	return writer.Finalize()
}

// TransactionID returns the transaction ID, which excludes any malleable
// parts of the transaction
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	// If transaction ID is already cached, return it
	if tx.ID != nil {
		return tx.ID
	}

	writer := hashes.NewTransactionIDWriter()
	err := serializeTransaction(writer, tx)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Hash digest should never return an error"))
	}
	transactionID := externalapi.DomainTransactionID(*writer.Finalize())

	tx.ID = &transactionID

	return tx.ID
}

// TransactionIDs converts the given slice of DomainTransactions to a corresponding slice of TransactionIDs
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.DomainTransactionID {
	txIDs := make([]*externalapi.DomainTransactionID, len(txs))
	for i, tx := range txs {
		txIDs[i] = TransactionID(tx)
	}
	return txIDs
}

func serializeTransaction(w io.Writer, tx *externalapi.DomainTransaction) error {
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
	return serialization.WriteElements(w, tx.LockTime, tx.Payload)
}
