package dto

// Dates in requests and responses use DD/MM/YYYY, date-times DD/MM/YYYY HH:MM and times HH:MM.

// CategoryRequest creates or renames a sport category
type CategoryRequest struct {
	Label string `json:"label" example:"Trail"`
}

// CategoryResponse represents a sport category
type CategoryResponse struct {
	ID    int64  `json:"id" example:"3"`
	Label string `json:"label" example:"Trail"`
}

// SportEventRequest is the full set of editable sport event fields, used for create and update
type SportEventRequest struct {
	Title          string `json:"title" example:"Trail des crêtes"`
	Description    string `json:"description" example:"15 km nature run"`
	LocationText   string `json:"locationText" example:"Salle des fêtes, Annecy"`
	LocationMapURL string `json:"locationMapUrl" example:"https://maps.example.com/?q=annecy"`
	VisibleDate    string `json:"visibleDate" example:"01/05/2025"`
	ClosingAt      string `json:"closingAt" example:"31/05/2025 23:59"`
	CategoryID     int64  `json:"categoryId" example:"3"`
}

// SportEventResponse represents a sport event
type SportEventResponse struct {
	ID                int64              `json:"id" example:"7"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	LocationText      string             `json:"locationText"`
	LocationMapURL    *string            `json:"locationMapUrl,omitempty"`
	VisibleDate       string             `json:"visibleDate" example:"01/05/2025"`
	ClosingAt         string             `json:"closingAt" example:"31/05/2025 23:59"`
	CategoryID        int64              `json:"categoryId"`
	CategoryLabel     string             `json:"categoryLabel"`
	RegistrationsOpen bool               `json:"registrationsOpen"`
	Slots             []TimeSlotResponse `json:"slots,omitempty"`
}

// TimeSlotRequest creates or updates a volunteer slot
type TimeSlotRequest struct {
	Type      string `json:"type" example:"SETUP"`
	Date      string `json:"date" example:"07/06/2025"`
	StartTime string `json:"startTime" example:"08:00"`
	EndTime   string `json:"endTime" example:"10:30"`
	Comment   string `json:"comment" example:"Bring gloves"`
}

// TimeSlotResponse represents a volunteer slot
type TimeSlotResponse struct {
	ID           int64   `json:"id" example:"21"`
	SportEventID int64   `json:"sportEventId" example:"7"`
	Type         string  `json:"type" example:"SETUP"`
	Date         string  `json:"date" example:"07/06/2025"`
	StartTime    string  `json:"startTime" example:"08:00"`
	EndTime      string  `json:"endTime" example:"10:30"`
	Comment      *string `json:"comment,omitempty"`
	// Registered is set when the caller volunteers on this slot
	Registered   bool    `json:"registered"`
}

// AssociationEventRequest is the full set of editable association event fields
type AssociationEventRequest struct {
	Title          string   `json:"title" example:"Soirée de fin de saison"`
	Description    string   `json:"description"`
	LocationText   string   `json:"locationText"`
	LocationMapURL string   `json:"locationMapUrl"`
	VisibleDate    string   `json:"visibleDate" example:"01/05/2025"`
	ClosingAt      string   `json:"closingAt" example:"20/06/2025 12:00"`
	EventAt        string   `json:"eventAt" example:"28/06/2025 19:30"`
	Price          *float64 `json:"price" example:"15"`
	IsPrivate      *bool    `json:"isPrivate" example:"true"`
}

// AssociationEventResponse represents an association event
type AssociationEventResponse struct {
	ID                int64   `json:"id" example:"4"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	LocationText      string  `json:"locationText"`
	LocationMapURL    *string `json:"locationMapUrl,omitempty"`
	VisibleDate       string  `json:"visibleDate"`
	ClosingAt         string  `json:"closingAt"`
	EventAt           string  `json:"eventAt"`
	Price             float64 `json:"price" example:"15"`
	IsPrivate         bool    `json:"isPrivate"`
	RegistrationsOpen bool    `json:"registrationsOpen"`
}

// DashboardResponse holds the management counters
type DashboardResponse struct {
	MembersTotal      int64 `json:"membersTotal"`
	MembersPending    int64 `json:"membersPending"`
	Adherents         int64 `json:"adherents"`
	SportEvents       int64 `json:"sportEvents"`
	AssociationEvents int64 `json:"associationEvents"`
}
