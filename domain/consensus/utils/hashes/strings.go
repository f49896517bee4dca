package hashes

import (
	"strings"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
)

// ToStrings converts a slice of hashes into a slice of the corresponding strings
func ToStrings(hashes []*externalapi.DomainHash) []string {
	strs := make([]string, len(hashes))
	for i, hash := range hashes {
		strs[i] = hash.String()
	}
	return strs
}

// JoinHashesStrings joins all the stringified hashes separated by a separator
func JoinHashesStrings(hashes []*externalapi.DomainHash, separator string) string {
	return strings.Join(ToStrings(hashes), separator)
}
