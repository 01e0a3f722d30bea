package services

import (
	"time"

	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
)

func toMemberResponse(m *models.Member) dto.MemberResponse {
	resp := dto.MemberResponse{
		ID:              m.ID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		Phone:           m.Phone,
		TShirtSize:      m.TShirtSize,
		SweaterSize:     m.SweaterSize,
		Status:          string(m.Status),
		RejectionReason: m.RejectionReason,
		IsAdherent:      m.IsAdherent,
		IsManager:       m.IsManager && m.IsApproved(),
		IsAdmin:         m.IsAdmin,
		CreatedAt:       helpers.FormatDisplayDateTime(m.CreatedAt),
	}
	if m.StatusDate != nil {
		resp.StatusDate = helpers.FormatDisplayDate(*m.StatusDate)
	}
	return resp
}

func toCategoryResponse(c *models.SportCategory) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Label: c.Label}
}

func toTimeSlotResponse(s *models.TimeSlot) dto.TimeSlotResponse {
	return dto.TimeSlotResponse{
		ID:           s.ID,
		SportEventID: s.SportEventID,
		Type:         string(s.Type),
		Date:         helpers.FormatDisplayDate(s.SlotDate),
		StartTime:    helpers.FormatClock(s.StartTime),
		EndTime:      helpers.FormatClock(s.EndTime),
		Comment:      s.Comment,
	}
}

func toSportEventResponse(e *models.SportEvent, now time.Time) dto.SportEventResponse {
	return dto.SportEventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		LocationText:      e.LocationText,
		LocationMapURL:    e.LocationMapURL,
		VisibleDate:       helpers.FormatDisplayDate(e.VisibleDate),
		ClosingAt:         helpers.FormatDisplayDateTime(e.ClosingAt),
		CategoryID:        e.CategoryID,
		CategoryLabel:     e.CategoryLabel,
		RegistrationsOpen: !e.IsClosedAt(now),
	}
}

func toAssociationEventResponse(e *models.AssociationEvent, now time.Time) dto.AssociationEventResponse {
	return dto.AssociationEventResponse{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		LocationText:      e.LocationText,
		LocationMapURL:    e.LocationMapURL,
		VisibleDate:       helpers.FormatDisplayDate(e.VisibleDate),
		ClosingAt:         helpers.FormatDisplayDateTime(e.ClosingAt),
		EventAt:           helpers.FormatDisplayDateTime(e.EventAt),
		Price:             e.Price,
		IsPrivate:         e.IsPrivate,
		RegistrationsOpen: !e.IsClosedAt(now),
	}
}

func toParticipationResponse(p *models.Participation, e *models.AssociationEvent) dto.ParticipationResponse {
	return dto.ParticipationResponse{
		AssociationEventID: p.AssociationEventID,
		EventTitle:         e.Title,
		EventAt:            helpers.FormatDisplayDateTime(e.EventAt),
		LocationText:       e.LocationText,
		Price:              e.Price,
		GuestCount:         p.GuestCount,
		PaymentConfirmed:   p.PaymentConfirmed,
		ParticipationDate:  helpers.FormatDisplayDateTime(p.ParticipationDate),
	}
}

// optionalText turns an empty string into nil
func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
