package recommend

import (
	"context"
	"fmt"
)

// Exclusions is the result of resolving who a user must never be shown
type Exclusions struct {
	// IDs holds the user, every connected peer, and every peer with a
	// pending request in either direction.
	IDs IDSet
	// Connected holds only the user's direct connections.
	Connected IDSet
}

// ResolveExclusions reads the user's connections and pending requests.
// Connected is built from the same rows so the store is read once.
func ResolveExclusions(ctx context.Context, st Store, userID int64) (*Exclusions, error) {
	ex := &Exclusions{
		IDs:       NewIDSet(userID),
		Connected: NewIDSet(),
	}

	conns, err := st.ConnectionsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read connections: %w", err)
	}
	for _, c := range conns {
		peer := c.Other(userID)
		ex.IDs.Add(peer)
		ex.Connected.Add(peer)
	}

	pending, err := st.PendingRequestsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending requests: %w", err)
	}
	for _, r := range pending {
		ex.IDs.Add(r.Other(userID))
	}

	return ex, nil
}
