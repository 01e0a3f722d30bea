// Package auth models the acting identity of a request and the capabilities it grants.
package auth

import (
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
)

// Permission is one capability checked by the services
type Permission string

const (
	PermRegisterForEvents Permission = "events:register"
	PermViewPrivateEvents Permission = "events:view-private"
	PermManageEvents      Permission = "events:manage"
	PermManageCategories  Permission = "categories:manage"
	PermManageTimeSlots   Permission = "timeslots:manage"
	PermViewRegistrations Permission = "registrations:view"
	PermViewStats         Permission = "stats:view"
	PermManageMembers     Permission = "members:manage"
)

// managementPermissions are shared by managers and admins
var managementPermissions = []Permission{
	PermManageEvents,
	PermManageCategories,
	PermManageTimeSlots,
	PermViewRegistrations,
	PermViewStats,
}

// Identity is who performs an operation. The zero value is the anonymous visitor.
type Identity struct {
	MemberID int64
	Approved bool
	Adherent bool
	Manager  bool
	Admin    bool
}

// Anonymous returns the identity of a visitor who is not logged in
func Anonymous() Identity {
	return Identity{}
}

// IdentityFromMember derives the identity from a freshly loaded member record
func IdentityFromMember(m *models.Member) Identity {
	if m == nil {
		return Anonymous()
	}
	approved := m.IsApproved()
	return Identity{
		MemberID: m.ID,
		Approved: approved,
		// adherent and manager rights vanish if the account is no longer approved
		Adherent: m.IsAdherent && approved,
		Manager:  m.IsManager && approved,
		Admin:   m.IsAdmin,
	}
}

// IsAuthenticated reports whether a member is logged in
func (i Identity) IsAuthenticated() bool {
	return i.MemberID > 0
}

// Permissions lists every capability of the identity
func (i Identity) Permissions() []Permission {
	if !i.IsAuthenticated() {
		return nil
	}

	var perms []Permission
	if i.Approved || i.Admin {
		perms = append(perms, PermRegisterForEvents)
	}
	if i.Adherent || i.Manager || i.Admin {
		perms = append(perms, PermViewPrivateEvents)
	}
	if i.Manager || i.Admin {
		perms = append(perms, managementPermissions...)
	}
	if i.Admin {
		perms = append(perms, PermManageMembers)
	}
	return perms
}

// Can reports whether the identity holds p
func (i Identity) Can(p Permission) bool {
	for _, have := range i.Permissions() {
		if have == p {
			return true
		}
	}
	return false
}

// Require returns nil if the identity holds p, Unauthenticated for visitors and Forbidden otherwise
func (i Identity) Require(p Permission) error {
	if i.Can(p) {
		return nil
	}
	if !i.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return apperrors.NewForbiddenError("you are not allowed to perform this action")
}

// CanSeePrivate reports whether private association events are visible to viewer
func CanSeePrivate(viewer Identity) bool {
	return viewer.Can(PermViewPrivateEvents)
}

// CheckEventAccess enforces adherent-only access to private association events.
// Visitors get a distinct error from logged-in non-adherents.
func CheckEventAccess(viewer Identity, event *models.AssociationEvent) error {
	if !event.IsPrivate {
		return nil
	}
	if !viewer.IsAuthenticated() {
		return apperrors.ErrLoginRequiredForEvent
	}
	if !CanSeePrivate(viewer) {
		return apperrors.ErrReservedForAdherents
	}
	return nil
}
