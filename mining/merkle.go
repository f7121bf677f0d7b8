package mining

import "github.com/GlobalSushrut/metanode/types"

const domainMerkleNode = "MINING_MERKLE_NODE"

// MerkleRoot builds the Merkle tree over leaf hashes using a domain tag per
// interior node; odd levels duplicate the last element (spec §4.4 step 3).
func MerkleRoot(leaves []types.Hash) types.Hash {
	if len(leaves) == 0 {
		return types.ZeroHash
	}
	level := make([]types.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]types.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, types.DomainHashMulti(domainMerkleNode, level[i][:], level[i+1][:]))
		}
		level = next
	}
	return level[0]
}
