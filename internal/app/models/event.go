package models

import "time"

// SportCategory classifies sport events
type SportCategory struct {
	ID    int64  `db:"id"`
	Label string `db:"label"`
}

// SportEvent is a sport event owning volunteer time slots
type SportEvent struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	LocationText   string    `db:"location_text"`
	LocationMapURL *string   `db:"location_map_url"`
	VisibleDate    time.Time `db:"visible_date"`
	ClosingAt      time.Time `db:"closing_at"`
	CategoryID     int64     `db:"category_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`

	// Joined on reads
	CategoryLabel string
}

// AssociationEvent is an association gathering, possibly reserved to adherents
type AssociationEvent struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	LocationText   string    `db:"location_text"`
	LocationMapURL *string   `db:"location_map_url"`
	VisibleDate    time.Time `db:"visible_date"`
	ClosingAt      time.Time `db:"closing_at"`
	EventAt        time.Time `db:"event_at"`
	// Price in euros, cents precision
	Price     float64   `db:"price"`
	IsPrivate bool      `db:"is_private"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsVisibleOn reports whether the event is listed on the given day
func (e *SportEvent) IsVisibleOn(day time.Time) bool {
	return !e.VisibleDate.After(day)
}

// IsClosedAt reports whether registrations are closed at now
func (e *SportEvent) IsClosedAt(now time.Time) bool {
	return now.After(e.ClosingAt)
}

// IsVisibleOn reports whether the event is listed on the given day
func (e *AssociationEvent) IsVisibleOn(day time.Time) bool {
	return !e.VisibleDate.After(day)
}

// IsClosedAt reports whether registrations are closed at now
func (e *AssociationEvent) IsClosedAt(now time.Time) bool {
	return now.After(e.ClosingAt)
}

// SlotType is the kind of volunteer work a slot covers
type SlotType string

const (
	SlotTypeSetup    SlotType = "SETUP"
	SlotTypeEvent    SlotType = "EVENT"
	SlotTypeTeardown SlotType = "TEARDOWN"
)

// IsValid checks the slot type against the known values
func (t SlotType) IsValid() bool {
	switch t {
	case SlotTypeSetup, SlotTypeEvent, SlotTypeTeardown:
		return true
	}
	return false
}

// TimeSlot is a volunteer slot of a sport event
type TimeSlot struct {
	ID           int64    `db:"id"`
	SportEventID int64    `db:"sport_event_id"`
	Type         SlotType `db:"slot_type"`
	// SlotDate is midnight of the slot day
	SlotDate time.Time `db:"slot_date"`
	// StartTime and EndTime are offsets from midnight
	StartTime time.Duration `db:"start_time"`
	EndTime   time.Duration `db:"end_time"`
	Comment   *string       `db:"comment"`
}

// StartsAt combines the slot date and start time
func (s *TimeSlot) StartsAt() time.Time {
	return s.SlotDate.Add(s.StartTime)
}

// DashboardStats are the counters of the management dashboard
type DashboardStats struct {
	Members           MemberStats
	SportEvents       int64
	AssociationEvents int64
}
