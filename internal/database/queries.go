package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const userColumns = `id, name, email, role, branch, skills, city, current_domain,
		       bio, interests, profile_pic, created_at`

// execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (User, error) {
	u := User{}
	var branch, skills, city, domain, bio, interests, pic sql.NullString

	err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &branch, &skills, &city, &domain,
		&bio, &interests, &pic, &u.CreatedAt,
	)
	if err != nil {
		return u, err
	}

	u.Branch = StringValue(branch)
	u.Skills = StringValue(skills)
	u.City = StringValue(city)
	u.CurrentDomain = StringValue(domain)
	u.Bio = StringValue(bio)
	u.Interests = StringValue(interests)
	u.ProfilePic = StringValue(pic)
	return u, nil
}

// CreateUser inserts a new user and sets its ID
func (db *DB) CreateUser(ctx context.Context, u *User) error {
	return createUser(ctx, db, u)
}

func createUser(ctx context.Context, ex execer, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	result, err := ex.ExecContext(ctx, `
		INSERT INTO users (
			name, email, role, branch, skills, city, current_domain,
			bio, interests, profile_pic, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.Name, u.Email, u.Role, NullString(u.Branch), NullString(u.Skills),
		NullString(u.City), NullString(u.CurrentDomain), NullString(u.Bio),
		NullString(u.Interests), NullString(u.ProfilePic), u.CreatedAt,
	)
	if err != nil {
		return err
	}

	u.ID, err = result.LastInsertId()
	return err
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(ctx context.Context, id int64) (*User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = ?
	`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive)
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return getUserByEmail(ctx, db, email)
}

func getUserByEmail(ctx context.Context, ex execer, email string) (*User, error) {
	row := ex.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE LOWER(email) = LOWER(?)
	`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers retrieves users with optional filters
func (db *DB) ListUsers(ctx context.Context, opts ListOptions) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE 1=1
	`
	args := []any{}

	if opts.Role != nil {
		query += " AND role = ?"
		args = append(args, *opts.Role)
	}

	query += " ORDER BY id ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// CreateConnection links two users. The pair is stored as given.
func (db *DB) CreateConnection(ctx context.Context, c *Connection) error {
	return createConnection(ctx, db, c)
}

func createConnection(ctx context.Context, ex execer, c *Connection) error {
	if c.UserID1 == c.UserID2 {
		return fmt.Errorf("cannot connect user %d to itself", c.UserID1)
	}
	if c.ConnectedAt.IsZero() {
		c.ConnectedAt = time.Now().UTC()
	}

	result, err := ex.ExecContext(ctx, `
		INSERT INTO connections (user_id_1, user_id_2, connected_at)
		VALUES (?, ?, ?)
	`, c.UserID1, c.UserID2, c.ConnectedAt)
	if err != nil {
		return err
	}

	c.ID, err = result.LastInsertId()
	return err
}

// CreateConnectionRequest records a request from sender to receiver
func (db *DB) CreateConnectionRequest(ctx context.Context, r *ConnectionRequest) error {
	return createConnectionRequest(ctx, db, r)
}

func createConnectionRequest(ctx context.Context, ex execer, r *ConnectionRequest) error {
	if r.Status == "" {
		r.Status = RequestPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	result, err := ex.ExecContext(ctx, `
		INSERT INTO connection_requests (sender_id, receiver_id, status, created_at)
		VALUES (?, ?, ?, ?)
	`, r.SenderID, r.ReceiverID, r.Status, r.CreatedAt)
	if err != nil {
		return err
	}

	r.ID, err = result.LastInsertId()
	return err
}

// UpdateRequestStatus changes the status of a connection request
func (db *DB) UpdateRequestStatus(ctx context.Context, id int64, status RequestStatus) error {
	result, err := db.ExecContext(ctx, `
		UPDATE connection_requests SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("connection request not found: %d", id)
	}
	return nil
}

// CreateJob inserts a new job posting
func (db *DB) CreateJob(ctx context.Context, j *Job) error {
	return createJob(ctx, db, j)
}

func createJob(ctx context.Context, ex execer, j *Job) error {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	result, err := ex.ExecContext(ctx, `
		INSERT INTO jobs (title, company, description, required_skills, posted_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		j.Title, j.Company, NullString(j.Description), NullString(j.RequiredSkills),
		j.PostedBy, j.CreatedAt,
	)
	if err != nil {
		return err
	}

	j.ID, err = result.LastInsertId()
	return err
}

// GetStats returns aggregate store counts
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0)
		FROM users
	`, RoleStudent, RoleAlumni).Scan(&stats.TotalUsers, &stats.Students, &stats.Alumni)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections`).Scan(&stats.Connections)
	if err != nil {
		return nil, fmt.Errorf("failed to count connections: %w", err)
	}

	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM connection_requests WHERE status = ?
	`, RequestPending).Scan(&stats.PendingRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&stats.Jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	return stats, nil
}

// placeholders returns n comma-separated bind markers
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
