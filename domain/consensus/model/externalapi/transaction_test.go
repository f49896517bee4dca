package externalapi

import (
	"strings"
	"testing"
)

func TestTransactionIDString(t *testing.T) {
	var idBytes [DomainHashSize]byte
	for i := range idBytes {
		idBytes[i] = byte(i)
	}
	transactionID := DomainTransactionID(*NewDomainHashFromByteArray(&idBytes))

	idString := transactionID.String()
	expectedPrefix := "000102030405"
	if !strings.HasPrefix(idString, expectedPrefix) {
		t.Fatalf("expected the transaction ID string to start with %s, got %s",
			expectedPrefix, idString)
	}
	if len(idString) != DomainHashSize*2 {
		t.Fatalf("expected a %d character hex string, got %d characters",
			DomainHashSize*2, len(idString))
	}

	hashString := DomainHash(transactionID).String()
	if idString != hashString {
		t.Fatalf("transaction ID %s does not stringify like its underlying hash %s",
			idString, hashString)
	}
}

func TestOutpointString(t *testing.T) {
	var idBytes [DomainHashSize]byte
	idBytes[0] = 0xff
	outpoint := DomainOutpoint{
		TransactionID: DomainTransactionID(*NewDomainHashFromByteArray(&idBytes)),
		Index:         7,
	}

	outpointString := outpoint.String()
	if !strings.HasSuffix(outpointString, ":7") {
		t.Fatalf("expected the outpoint string to end with the output index, got %s", outpointString)
	}
	if !strings.HasPrefix(outpointString, "ff") {
		t.Fatalf("expected the outpoint string to start with the transaction ID, got %s", outpointString)
	}
}
