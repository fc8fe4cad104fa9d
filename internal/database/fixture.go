package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Fixture is a TOML document describing users and their links.
// Links reference users by email so fixtures stay independent of row IDs.
type Fixture struct {
	Users       []User           `toml:"users"`
	Connections []FixtureLink    `toml:"connections"`
	Requests    []FixtureRequest `toml:"requests"`
	Jobs        []FixtureJob     `toml:"jobs"`
}

// FixtureLink connects two users by email
type FixtureLink struct {
	A string `toml:"a"`
	B string `toml:"b"`
}

// FixtureRequest is a connection request between two users by email
type FixtureRequest struct {
	From   string        `toml:"from"`
	To     string        `toml:"to"`
	Status RequestStatus `toml:"status"`
}

// FixtureJob is a job posted by the user with the given email
type FixtureJob struct {
	Title          string    `toml:"title"`
	Company        string    `toml:"company"`
	Description    string    `toml:"description"`
	RequiredSkills string    `toml:"required_skills"`
	PostedBy       string    `toml:"posted_by"`
	CreatedAt      time.Time `toml:"created_at"`
}

// SeedResult counts the rows written by Seed
type SeedResult struct {
	Users       int `json:"users"`
	Connections int `json:"connections"`
	Requests    int `json:"requests"`
	Jobs        int `json:"jobs"`
}

// LoadFixture parses a fixture file
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Seed writes the fixture into the database in one transaction; on error
// nothing is written. Users that already exist (matched by email) are
// reused rather than inserted again.
func (db *DB) Seed(ctx context.Context, f *Fixture) (*SeedResult, error) {
	var result *SeedResult
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		var err error
		result, err = seed(ctx, tx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func seed(ctx context.Context, ex execer, f *Fixture) (*SeedResult, error) {
	result := &SeedResult{}
	ids := make(map[string]int64)

	resolve := func(email string) (int64, error) {
		key := strings.ToLower(email)
		if id, ok := ids[key]; ok {
			return id, nil
		}
		u, err := getUserByEmail(ctx, ex, email)
		if err != nil {
			return 0, fmt.Errorf("failed to look up %s: %w", email, err)
		}
		if u == nil {
			return 0, fmt.Errorf("unknown user: %s", email)
		}
		ids[key] = u.ID
		return u.ID, nil
	}

	for i := range f.Users {
		u := f.Users[i]

		existing, err := getUserByEmail(ctx, ex, u.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", u.Email, err)
		}
		if existing != nil {
			ids[strings.ToLower(u.Email)] = existing.ID
			continue
		}

		u.ID = 0
		if err := createUser(ctx, ex, &u); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		ids[strings.ToLower(u.Email)] = u.ID
		result.Users++
	}

	for _, link := range f.Connections {
		a, err := resolve(link.A)
		if err != nil {
			return nil, err
		}
		b, err := resolve(link.B)
		if err != nil {
			return nil, err
		}
		if err := createConnection(ctx, ex, &Connection{UserID1: a, UserID2: b}); err != nil {
			return nil, fmt.Errorf("failed to connect %s and %s: %w", link.A, link.B, err)
		}
		result.Connections++
	}

	for _, req := range f.Requests {
		from, err := resolve(req.From)
		if err != nil {
			return nil, err
		}
		to, err := resolve(req.To)
		if err != nil {
			return nil, err
		}
		r := &ConnectionRequest{SenderID: from, ReceiverID: to, Status: req.Status}
		if err := createConnectionRequest(ctx, ex, r); err != nil {
			return nil, fmt.Errorf("failed to create request %s -> %s: %w", req.From, req.To, err)
		}
		result.Requests++
	}

	for _, fj := range f.Jobs {
		poster, err := resolve(fj.PostedBy)
		if err != nil {
			return nil, err
		}
		j := &Job{
			Title:          fj.Title,
			Company:        fj.Company,
			Description:    fj.Description,
			RequiredSkills: fj.RequiredSkills,
			PostedBy:       poster,
			CreatedAt:      fj.CreatedAt,
		}
		if err := createJob(ctx, ex, j); err != nil {
			return nil, fmt.Errorf("failed to create job %q: %w", fj.Title, err)
		}
		result.Jobs++
	}

	return result, nil
}
