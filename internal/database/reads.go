package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Conn is a dedicated connection used for the reads of a single
// recommendation request. It must be closed when the request ends.
type Conn struct {
	conn *sql.Conn
}

// Acquire reserves a connection from the pool
func (db *DB) Acquire(ctx context.Context) (*Conn, error) {
	c, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Conn{conn: c}, nil
}

// Close returns the connection to the pool
func (c *Conn) Close() error {
	return c.conn.Close()
}

// ConnectionsOf returns every connection with userID in either column
func (c *Conn) ConnectionsOf(ctx context.Context, userID int64) ([]Connection, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT id, user_id_1, user_id_2, connected_at
		FROM connections
		WHERE user_id_1 = ? OR user_id_2 = ?
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConnections(rows)
}

// PendingRequestsOf returns pending requests sent or received by userID
func (c *Conn) PendingRequestsOf(ctx context.Context, userID int64) ([]ConnectionRequest, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, status, created_at
		FROM connection_requests
		WHERE (sender_id = ? OR receiver_id = ?) AND status = ?
	`, userID, userID, RequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []ConnectionRequest
	for rows.Next() {
		r := ConnectionRequest{}
		if err := rows.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

// CandidatesByRole returns up to limit users with the given role whose IDs
// are not in exclude, in ascending ID order.
func (c *Conn) CandidatesByRole(ctx context.Context, role Role, exclude []int64, limit int) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE role = ?
	`
	args := []any{role}

	if len(exclude) > 0 {
		query += " AND id NOT IN (" + placeholders(len(exclude)) + ")"
		args = append(args, idArgs(exclude)...)
	}

	query += " ORDER BY id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := c.conn.QueryContext(ctx, query, args...)
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

// ConnectionsAmong returns every connection touching any of ids in one query
func (c *Conn) ConnectionsAmong(ctx context.Context, ids []int64) ([]Connection, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	marks := placeholders(len(ids))
	args := append(idArgs(ids), idArgs(ids)...)

	rows, err := c.conn.QueryContext(ctx, `
		SELECT id, user_id_1, user_id_2, connected_at
		FROM connections
		WHERE user_id_1 IN (`+marks+`) OR user_id_2 IN (`+marks+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConnections(rows)
}

// JobsWithPoster returns all jobs with the poster's name, newest first
func (c *Conn) JobsWithPoster(ctx context.Context) ([]Job, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT j.id, j.title, j.company, j.description, j.required_skills,
		       j.posted_by, u.name, j.created_at
		FROM jobs j
		JOIN users u ON j.posted_by = u.id
		ORDER BY j.created_at DESC, j.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j := Job{}
		var description, skills sql.NullString

		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company, &description, &skills,
			&j.PostedBy, &j.PostedByName, &j.CreatedAt,
		); err != nil {
			return nil, err
		}

		j.Description = StringValue(description)
		j.RequiredSkills = StringValue(skills)
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

func scanConnections(rows *sql.Rows) ([]Connection, error) {
	var conns []Connection
	for rows.Next() {
		c := Connection{}
		if err := rows.Scan(&c.ID, &c.UserID1, &c.UserID2, &c.ConnectedAt); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}
