package externalapi

// BlockLevelParents are the parent hashes of a block at one proof-of-work
// level
type BlockLevelParents []*DomainHash

// Equal reports whether sl and other hold the same hashes, regardless of
// order
func (sl BlockLevelParents) Equal(other BlockLevelParents) bool {
	if len(sl) != len(other) {
		return false
	}
	for _, hash := range sl {
		if !other.Contains(hash) {
			return false
		}
	}
	return true
}

// Contains reports whether blockHash is one of the level's parents
func (sl BlockLevelParents) Contains(blockHash *DomainHash) bool {
	for _, parent := range sl {
		if parent.Equal(blockHash) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of this BlockLevelParents
func (sl BlockLevelParents) Clone() BlockLevelParents {
	return CloneHashes(sl)
}

// ParentsEqual reports whether the two slices hold equal BlockLevelParents
// at every level
func ParentsEqual(a, b []BlockLevelParents) bool {
	if len(a) != len(b) {
		return false
	}
	for i, levelParents := range a {
		if !levelParents.Equal(b[i]) {
			return false
		}
	}
	return true
}

// CloneParents deep-copies a slice of BlockLevelParents
func CloneParents(parents []BlockLevelParents) []BlockLevelParents {
	clone := make([]BlockLevelParents, len(parents))
	for i, levelParents := range parents {
		clone[i] = levelParents.Clone()
	}
	return clone
}
