package database

import (
	"database/sql"
	"time"
)

// Role is the account type of a user
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
)

// Supported reports whether the role takes part in recommendations
func (r Role) Supported() bool {
	return r == RoleStudent || r == RoleAlumni
}

// Opposite returns the role a user of this role is matched against
func (r Role) Opposite() Role {
	if r == RoleStudent {
		return RoleAlumni
	}
	return RoleStudent
}

// RequestStatus represents the state of a connection request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// User represents a student or alumni profile.
// Nullable columns are read as empty strings.
type User struct {
	ID            int64     `json:"id" toml:"id"`
	Name          string    `json:"name" toml:"name"`
	Email         string    `json:"email" toml:"email"`
	Role          Role      `json:"role" toml:"role"`
	Branch        string    `json:"branch,omitempty" toml:"branch"`
	Skills        string    `json:"skills,omitempty" toml:"skills"`
	City          string    `json:"city,omitempty" toml:"city"`
	CurrentDomain string    `json:"current_domain,omitempty" toml:"current_domain"`
	Bio           string    `json:"bio,omitempty" toml:"bio"`
	Interests     string    `json:"interests,omitempty" toml:"interests"`
	ProfilePic    string    `json:"profile_pic,omitempty" toml:"profile_pic"`
	CreatedAt     time.Time `json:"created_at" toml:"-"`
}

// Connection is an accepted link between two users. Either column may hold either side.
type Connection struct {
	ID          int64     `json:"id"`
	UserID1     int64     `json:"user_id_1" toml:"user_id_1"`
	UserID2     int64     `json:"user_id_2" toml:"user_id_2"`
	ConnectedAt time.Time `json:"connected_at" toml:"-"`
}

// Other returns the endpoint that is not userID
func (c Connection) Other(userID int64) int64 {
	if c.UserID1 != userID {
		return c.UserID1
	}
	return c.UserID2
}

// Touches reports whether userID is one of the endpoints
func (c Connection) Touches(userID int64) bool {
	return c.UserID1 == userID || c.UserID2 == userID
}

// ConnectionRequest is a request from sender to receiver
type ConnectionRequest struct {
	ID         int64         `json:"id"`
	SenderID   int64         `json:"sender_id" toml:"sender_id"`
	ReceiverID int64         `json:"receiver_id" toml:"receiver_id"`
	Status     RequestStatus `json:"status" toml:"status"`
	CreatedAt  time.Time     `json:"created_at" toml:"-"`
}

// Other returns the party that is not userID
func (r ConnectionRequest) Other(userID int64) int64 {
	if r.SenderID != userID {
		return r.SenderID
	}
	return r.ReceiverID
}

// Job represents a posting made by a user
type Job struct {
	ID             int64     `json:"id" toml:"id"`
	Title          string    `json:"title" toml:"title"`
	Company        string    `json:"company" toml:"company"`
	Description    string    `json:"description,omitempty" toml:"description"`
	RequiredSkills string    `json:"required_skills,omitempty" toml:"required_skills"`
	PostedBy       int64     `json:"posted_by" toml:"posted_by"`
	PostedByName   string    `json:"posted_by_name,omitempty" toml:"-"`
	CreatedAt      time.Time `json:"created_at" toml:"created_at"`
}

// Stats represents aggregate store counts
type Stats struct {
	TotalUsers      int `json:"total_users"`
	Students        int `json:"students"`
	Alumni          int `json:"alumni"`
	Connections     int `json:"connections"`
	PendingRequests int `json:"pending_requests"`
	Jobs            int `json:"jobs"`
}

// ListOptions contains options for listing users
type ListOptions struct {
	Role   *Role
	Limit  int
	Offset int
}

// NullString converts an empty string to a NULL column value
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// StringValue reads a nullable column as a plain string
func StringValue(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
