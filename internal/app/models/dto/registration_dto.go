package dto

// EnrollSlotsRequest selects the slots of one sport event
type EnrollSlotsRequest struct {
	SlotIDs []int64 `json:"slotIds" example:"21,22"`
}

// SlotEnrollmentResponse separates new registrations from slots already held
type SlotEnrollmentResponse struct {
	SportEventID      int64   `json:"sportEventId"`
	Added             []int64 `json:"added"`
	AlreadyRegistered []int64 `json:"alreadyRegistered"`
}

// EnrollAssociationRequest registers to an association event
type EnrollAssociationRequest struct {
	GuestCount int `json:"guestCount" example:"2"`
}

// ParticipationResponse represents a member's registration to an association event
type ParticipationResponse struct {
	AssociationEventID int64   `json:"associationEventId"`
	EventTitle         string  `json:"eventTitle"`
	EventAt            string  `json:"eventAt"`
	LocationText       string  `json:"locationText"`
	Price              float64 `json:"price"`
	GuestCount         int     `json:"guestCount"`
	PaymentConfirmed   bool    `json:"paymentConfirmed"`
	ParticipationDate  string  `json:"participationDate"`
}

// MySlotRegistrationResponse is one slot the member volunteers for
type MySlotRegistrationResponse struct {
	Slot          TimeSlotResponse `json:"slot"`
	SportEventID  int64            `json:"sportEventId"`
	EventTitle    string           `json:"eventTitle"`
	LocationText  string           `json:"locationText"`
	CategoryLabel string           `json:"categoryLabel"`
	IsPresent     bool             `json:"isPresent"`
}

// MyRegistrationsResponse lists everything the member is registered for
type MyRegistrationsResponse struct {
	Slots          []MySlotRegistrationResponse `json:"slots"`
	Participations []ParticipationResponse      `json:"participations"`
}

// SlotVolunteerResponse is a volunteer as seen by managers
type SlotVolunteerResponse struct {
	MemberID     int64   `json:"memberId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	TShirtSize   string  `json:"tshirtSize"`
	IsPresent    bool    `json:"isPresent"`
	RegisteredAt string  `json:"registeredAt"`
}

// EventParticipantResponse is a participant as seen by managers
type EventParticipantResponse struct {
	MemberID         int64   `json:"memberId"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone,omitempty"`
	GuestCount       int     `json:"guestCount"`
	PaymentConfirmed bool    `json:"paymentConfirmed"`
	RegisteredAt     string  `json:"registeredAt"`
}

// ParticipantListResponse lists the participants of an association event with the expected headcount
type ParticipantListResponse struct {
	Participants []EventParticipantResponse `json:"participants"`
	// Headcount counts participants plus their guests
	Headcount int `json:"headcount"`
}

// PresenceRequest marks a volunteer present or absent
type PresenceRequest struct {
	Present *bool `json:"present" binding:"required" example:"true"`
}
