package models

import (
	"strings"
	"time"
)

// MemberStatus is the validation state of a membership request
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "PENDING"
	MemberStatusApproved MemberStatus = "APPROVED"
	MemberStatusRejected MemberStatus = "REJECTED"
)

// IsValid checks the status against the known values
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusPending, MemberStatusApproved, MemberStatusRejected:
		return true
	}
	return false
}

// ParseMemberStatus accepts any letter case; "" yields "" with ok=true (no filter).
func ParseMemberStatus(s string) (MemberStatus, bool) {
	if s == "" {
		return "", true
	}
	status := MemberStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// Member defines the member model based on the 'members' table
type Member struct {
	ID              int64        `db:"id"`
	FirstName       string       `db:"first_name"`
	LastName        string       `db:"last_name"`
	Email           string       `db:"email"`
	PasswordHash    string       `db:"password_hash"`
	Phone           *string      `db:"phone"`
	TShirtSize      string       `db:"tshirt_size"`
	SweaterSize     string       `db:"sweater_size"`
	Status          MemberStatus `db:"status"`
	StatusDate      *time.Time   `db:"status_date"`
	RejectionReason *string      `db:"rejection_reason"`
	IsAdherent      bool         `db:"is_adherent"`
	IsManager       bool         `db:"is_manager"`
	// IsAdmin is only set by seeding, never through the API
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsApproved reports whether the account was validated
func (m *Member) IsApproved() bool {
	return m.Status == MemberStatusApproved
}

// FullName returns "First Last"
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// MemberFilter narrows the admin member list
type MemberFilter struct {
	Status   MemberStatus
	Adherent *bool
	Search   string
	Offset   uint64
	Limit    uint64
}

// MemberStats are the membership counters of the dashboard
type MemberStats struct {
	Total     int64
	Pending   int64
	Adherents int64
}
