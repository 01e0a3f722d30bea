package models

import "time"

// VolunteerRegistration links a member to a time slot
type VolunteerRegistration struct {
	MemberID  int64     `db:"member_id"`
	SlotID    int64     `db:"slot_id"`
	IsPresent bool      `db:"is_present"`
	CreatedAt time.Time `db:"created_at"`
}

// Participation links a member to an association event
type Participation struct {
	MemberID           int64 `db:"member_id"`
	AssociationEventID int64 `db:"association_event_id"`
	// PaymentConfirmed stays false: payment happens on site
	PaymentConfirmed  bool      `db:"payment_confirmed"`
	GuestCount        int       `db:"guest_count"`
	ParticipationDate time.Time `db:"participation_date"`
	CreatedAt         time.Time `db:"created_at"`
}

// MemberSlotRegistration is one slot a member volunteers for, with its event
type MemberSlotRegistration struct {
	Slot          TimeSlot
	EventID       int64
	EventTitle    string
	EventLocation string
	CategoryLabel string
	IsPresent     bool
}

// MemberParticipation is one association event a member attends
type MemberParticipation struct {
	Participation Participation
	Event         AssociationEvent
}

// SlotVolunteer is a member registered on a slot, as seen by managers
type SlotVolunteer struct {
	MemberID     int64
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	TShirtSize   string
	IsPresent    bool
	RegisteredAt time.Time
}

// EventParticipant is a member registered on an association event, as seen by managers
type EventParticipant struct {
	MemberID         int64
	FirstName        string
	LastName         string
	Email            string
	Phone            *string
	GuestCount       int
	PaymentConfirmed bool
	RegisteredAt     time.Time
}
