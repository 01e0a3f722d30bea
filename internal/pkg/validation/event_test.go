package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEventFields(t *testing.T) {
	ok := EventFields{
		Title:          "Trail des crêtes",
		Description:    "Course nature de 15 km",
		LocationText:   "Salle des fêtes",
		LocationMapURL: "https://maps.example.com/?q=salle",
	}
	assert.True(t, ValidateEventFields(ok).Valid())

	ok.LocationMapURL = ""
	assert.True(t, ValidateEventFields(ok).Valid())

	res := ValidateEventFields(EventFields{LocationMapURL: "ftp://files"})
	assert.Equal(t, []string{
		"Title is required.",
		"Description is required.",
		"Location is required.",
		"Map link must be an http(s) URL.",
	}, res.Errors)
}

func TestValidateCategoryLabel(t *testing.T) {
	assert.Equal(t, []string{"Label cannot be empty."}, ValidateCategoryLabel("").Errors)
	assert.True(t, ValidateCategoryLabel("Trail").Valid())
}

func TestValidateGuestCount(t *testing.T) {
	assert.True(t, ValidateGuestCount(0).Valid())
	assert.True(t, ValidateGuestCount(10).Valid())
	assert.False(t, ValidateGuestCount(11).Valid())
	assert.False(t, ValidateGuestCount(-1).Valid())
}
