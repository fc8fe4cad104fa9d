package recommend

import (
	"context"
	"slices"
	"time"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/metrics"
)

// Store is the read-only view of the relational store used by one request
type Store interface {
	ConnectionsOf(ctx context.Context, userID int64) ([]database.Connection, error)
	PendingRequestsOf(ctx context.Context, userID int64) ([]database.ConnectionRequest, error)
	CandidatesByRole(ctx context.Context, role database.Role, exclude []int64, limit int) ([]database.User, error)
	ConnectionsAmong(ctx context.Context, ids []int64) ([]database.Connection, error)
	JobsWithPoster(ctx context.Context) ([]database.Job, error)
	Close() error
}

// Source hands out a Store per request
type Source interface {
	Acquire(ctx context.Context) (Store, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (Store, error)

// Acquire calls f
func (f SourceFunc) Acquire(ctx context.Context) (Store, error) {
	return f(ctx)
}

// DatabaseSource serves each request from a dedicated database connection
func DatabaseSource(db *database.DB) Source {
	return SourceFunc(func(ctx context.Context) (Store, error) {
		conn, err := db.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	})
}

// IDSet is a set of user IDs
type IDSet map[int64]struct{}

// NewIDSet returns a set holding ids
func NewIDSet(ids ...int64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id
func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

// Has reports whether id is present
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order
func (s IDSet) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// IntersectionLen counts the members shared with other
func (s IDSet) IntersectionLen(other IDSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if large.Has(id) {
			n++
		}
	}
	return n
}

// timedStore records the duration of each read
type timedStore struct {
	Store
}

func (t timedStore) ConnectionsOf(ctx context.Context, userID int64) ([]database.Connection, error) {
	defer metrics.ObserveStoreQuery("connections_of", time.Now())
	return t.Store.ConnectionsOf(ctx, userID)
}

func (t timedStore) PendingRequestsOf(ctx context.Context, userID int64) ([]database.ConnectionRequest, error) {
	defer metrics.ObserveStoreQuery("pending_requests_of", time.Now())
	return t.Store.PendingRequestsOf(ctx, userID)
}

func (t timedStore) CandidatesByRole(ctx context.Context, role database.Role, exclude []int64, limit int) ([]database.User, error) {
	defer metrics.ObserveStoreQuery("candidates_by_role", time.Now())
	return t.Store.CandidatesByRole(ctx, role, exclude, limit)
}

func (t timedStore) ConnectionsAmong(ctx context.Context, ids []int64) ([]database.Connection, error) {
	defer metrics.ObserveStoreQuery("connections_among", time.Now())
	return t.Store.ConnectionsAmong(ctx, ids)
}

func (t timedStore) JobsWithPoster(ctx context.Context) ([]database.Job, error) {
	defer metrics.ObserveStoreQuery("jobs_with_poster", time.Now())
	return t.Store.JobsWithPoster(ctx)
}
