package recommend

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/vijay-prabhu/alumnet/internal/database"
)

// fakeStore is an in-memory Store mirroring the SQL reads
type fakeStore struct {
	users       []database.User
	connections []database.Connection
	requests    []database.ConnectionRequest
	jobs        []database.Job

	failOn string
	err    error

	calls  map[string]int
	closed int
}

func (f *fakeStore) call(name string) error {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	if f.failOn == name {
		return f.err
	}
	return nil
}

func (f *fakeStore) ConnectionsOf(ctx context.Context, userID int64) ([]database.Connection, error) {
	if err := f.call("ConnectionsOf"); err != nil {
		return nil, err
	}
	var out []database.Connection
	for _, c := range f.connections {
		if c.Touches(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) PendingRequestsOf(ctx context.Context, userID int64) ([]database.ConnectionRequest, error) {
	if err := f.call("PendingRequestsOf"); err != nil {
		return nil, err
	}
	var out []database.ConnectionRequest
	for _, r := range f.requests {
		if r.Status == database.RequestPending && (r.SenderID == userID || r.ReceiverID == userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CandidatesByRole(ctx context.Context, role database.Role, exclude []int64, limit int) ([]database.User, error) {
	if err := f.call("CandidatesByRole"); err != nil {
		return nil, err
	}
	users := slices.Clone(f.users)
	slices.SortStableFunc(users, func(a, b database.User) int { return int(a.ID - b.ID) })
	var out []database.User
	for _, u := range users {
		if u.Role != role || slices.Contains(exclude, u.ID) {
			continue
		}
		out = append(out, u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ConnectionsAmong(ctx context.Context, ids []int64) ([]database.Connection, error) {
	if err := f.call("ConnectionsAmong"); err != nil {
		return nil, err
	}
	var out []database.Connection
	for _, c := range f.connections {
		if slices.Contains(ids, c.UserID1) || slices.Contains(ids, c.UserID2) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) JobsWithPoster(ctx context.Context) ([]database.Job, error) {
	if err := f.call("JobsWithPoster"); err != nil {
		return nil, err
	}
	return slices.Clone(f.jobs), nil
}

func (f *fakeStore) Close() error {
	f.closed++
	return nil
}

func (f *fakeStore) source() Source {
	return SourceFunc(func(ctx context.Context) (Store, error) { return f, nil })
}

func (f *fakeStore) user(id int64) *database.User {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u
		}
	}
	return nil
}

// fixedProvider returns a constant similarity for non-blank texts
type fixedProvider struct {
	mu    sync.Mutex
	score int
	calls int
}

func (p *fixedProvider) Similarity(ctx context.Context, text1, text2 string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if strings.TrimSpace(text1) == "" || strings.TrimSpace(text2) == "" {
		return 0
	}
	return p.score
}
