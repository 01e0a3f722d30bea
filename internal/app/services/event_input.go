package services

import (
	"strings"
	"time"

	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
)

// Date fields are parsed while the other fields are validated so that a
// malformed date is reported together with every other violation.

func parseDateField(res *validation.Result, label, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		res.Add(label + " is required.")
		return time.Time{}
	}
	t, err := helpers.ParseDisplayDate(value)
	if err != nil {
		res.Add(label + " must use the DD/MM/YYYY format.")
	}
	return t
}

func parseDateTimeField(res *validation.Result, label, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		res.Add(label + " is required.")
		return time.Time{}
	}
	t, err := helpers.ParseDisplayDateTime(value)
	if err != nil {
		res.Add(label + " must use the DD/MM/YYYY HH:MM format.")
	}
	return t
}

func parseClockField(res *validation.Result, label, value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		res.Add(label + " is required.")
		return 0
	}
	d, err := helpers.ParseClock(value)
	if err != nil {
		res.Add(label + " must use the HH:MM format.")
	}
	return d
}

// checkVisibleBeforeClosing enforces visible date < closing date-time
func checkVisibleBeforeClosing(visible, closing time.Time) error {
	if !visible.Before(closing) {
		return apperrors.NewStateError("The visibility date must be before the registration closing date.")
	}
	return nil
}

// checkClosingBeforeEvent enforces closing date-time < event date-time
func checkClosingBeforeEvent(closing, eventAt time.Time) error {
	if !closing.Before(eventAt) {
		return apperrors.NewStateError("Registrations must close before the event date.")
	}
	return nil
}

// checkSlotAfterClosing enforces closing date-time < slot start
func checkSlotAfterClosing(closing, slotStart time.Time) error {
	if !closing.Before(slotStart) {
		return apperrors.NewStateError("The time slot must start after registrations close (" +
			helpers.FormatDisplayDateTime(closing) + ").")
	}
	return nil
}
