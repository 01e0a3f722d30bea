// Package services holds the business rules of the association: member
// lifecycle, event catalog, registrations and dashboard counters.
package services

import (
	"time"

	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
)

// Clock supplies the association's wall-clock time.
// Now defaults to time.Now and Location to UTC.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the system time in loc
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// WallNow returns the current wall-clock time of the association
func (c Clock) WallNow() time.Time {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return helpers.WallClock(now(), c.Location)
}

// Today returns midnight of the current day
func (c Clock) Today() time.Time {
	return helpers.StartOfDay(c.WallNow())
}

// Services groups every service used by the controllers
type Services struct {
	AuthService             *AuthService
	MemberService           MemberService
	CategoryService         CategoryService
	SportEventService       SportEventService
	TimeSlotService         TimeSlotService
	AssociationEventService AssociationEventService
	RegistrationService     RegistrationService
	StatsService            StatsService
}
