package dto

// RegisterRequest is the signup form. Field rules are checked together by the
// member validation so that every violation is reported at once.
type RegisterRequest struct {
	FirstName   string `json:"firstName" example:"Léa"`
	LastName    string `json:"lastName" example:"Martin"`
	Email       string `json:"email" example:"lea.martin@example.fr"`
	Password    string `json:"password" example:"Secret123"`
	Phone       string `json:"phone" example:"06 12 34 56 78"`
	TShirtSize  string `json:"tshirtSize" example:"M"`
	SweaterSize string `json:"sweaterSize" example:"L"`
	Adherent    bool   `json:"adherent" example:"false"`
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"lea.martin@example.fr"`
	Password string `json:"password" binding:"required" example:"Secret123"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType" example:"Bearer"`
	ExpiresIn   int            `json:"expiresIn" example:"43200"`
	Member      MemberResponse `json:"member"`
}

// MemberResponse is the public view of a member account
type MemberResponse struct {
	ID              int64   `json:"id" example:"12"`
	FirstName       string  `json:"firstName" example:"Léa"`
	LastName        string  `json:"lastName" example:"Martin"`
	Email           string  `json:"email" example:"lea.martin@example.fr"`
	Phone           *string `json:"phone,omitempty" example:"0612345678"`
	TShirtSize      string  `json:"tshirtSize" example:"M"`
	SweaterSize     string  `json:"sweaterSize" example:"L"`
	Status          string  `json:"status" example:"APPROVED"`
	StatusDate      string  `json:"statusDate,omitempty" example:"02/05/2025"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	IsAdherent      bool    `json:"isAdherent"`
	IsManager       bool    `json:"isManager"`
	IsAdmin         bool    `json:"isAdmin"`
	CreatedAt       string  `json:"createdAt" example:"01/05/2025 18:30"`
}

// MemberListResponse is a page of members
type MemberListResponse struct {
	Members []MemberResponse `json:"members"`
	PaginationInfo
}

// MemberListQuery holds the admin list filters, decoded from the query string
type MemberListQuery struct {
	Status   string `schema:"status"`
	Adherent *bool  `schema:"adherent"`
	Search   string `schema:"q"`
	Page     int    `schema:"page"`
	Size     int    `schema:"size"`
}

// UpdateProfileRequest lists the only fields a member may change on their profile.
// Email and status are not editable.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName" example:"Léa"`
	LastName    string `json:"lastName" example:"Martin"`
	Phone       string `json:"phone" example:"0612345678"`
	TShirtSize  string `json:"tshirtSize" example:"M"`
	SweaterSize string `json:"sweaterSize" example:"L"`
	// BecomeAdherent opts in once; false never revokes
	BecomeAdherent bool `json:"becomeAdherent" example:"false"`
}

// RejectMemberRequest carries the mandatory rejection reason
type RejectMemberRequest struct {
	Reason string `json:"reason" binding:"required" example:"Medical certificate missing"`
}

// ManagerToggleResponse reports the manager flag after a toggle
type ManagerToggleResponse struct {
	MemberID  int64 `json:"memberId"`
	IsManager bool  `json:"isManager"`
}

// AdherentResponse reports the adherent flag after a promotion request
type AdherentResponse struct {
	MemberID   int64 `json:"memberId"`
	IsAdherent bool  `json:"isAdherent"`
	// Changed is false when the member already was an adherent
	Changed bool `json:"changed"`
}
