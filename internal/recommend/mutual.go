package recommend

import (
	"context"
	"fmt"
)

// MutualIndex maps each candidate to its directly connected IDs
type MutualIndex map[int64]IDSet

// BuildMutualIndex loads the connections of every candidate with a single
// store read. Every candidate gets an entry, empty when it has no connections.
func BuildMutualIndex(ctx context.Context, st Store, candidateIDs []int64) (MutualIndex, error) {
	index := make(MutualIndex, len(candidateIDs))
	for _, id := range candidateIDs {
		index[id] = NewIDSet()
	}
	if len(candidateIDs) == 0 {
		return index, nil
	}

	conns, err := st.ConnectionsAmong(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate connections: %w", err)
	}

	for _, c := range conns {
		if peers, ok := index[c.UserID1]; ok {
			peers.Add(c.UserID2)
		}
		if peers, ok := index[c.UserID2]; ok {
			peers.Add(c.UserID1)
		}
	}

	return index, nil
}

// Connections returns the connection set of id, empty if unknown
func (m MutualIndex) Connections(id int64) IDSet {
	if peers, ok := m[id]; ok {
		return peers
	}
	return IDSet{}
}

// Mutuals counts the connections id shares with target
func (m MutualIndex) Mutuals(id int64, target IDSet) int {
	return m.Connections(id).IntersectionLen(target)
}
