package validation

import (
	"strings"
	"testing"

	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

func validMember() MemberInput {
	return MemberInput{
		FirstName:   "Émilie",
		LastName:    "Dupont-Martin",
		Email:       "emilie.dupont@example.fr",
		Password:    "Secret123",
		Phone:       "06 12 34 56 78",
		TShirtSize:  "M",
		SweaterSize: "",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	res := ValidateRegistration(validMember())
	assert.True(t, res.Valid(), res.Errors)
	assert.NoError(t, res.Err())
}

func TestValidateRegistration_AccumulatesEveryViolation(t *testing.T) {
	in := MemberInput{
		FirstName:   "",
		LastName:    "D",
		Email:       "not-an-email",
		Password:    "short",
		Phone:       "12345",
		TShirtSize:  "XXXL",
		SweaterSize: "tiny",
	}

	res := ValidateRegistration(in)

	assert.Equal(t, []string{
		"First name is required.",
		"Last name must contain at least 2 characters.",
		"Email address is not valid.",
		"Password must contain at least 8 characters, an uppercase letter and a digit.",
		"Phone number is not valid (expected format: 0XXXXXXXXX).",
		"Invalid t-shirt size.",
		"Invalid sweater size.",
	}, res.Errors)

	err := res.Err()
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Len(t, verr.Errors, 7)
}

func TestValidateMember_NameRules(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"accented letters", "Zoé", ""},
		{"space and hyphen", "Jean-Pierre Marie", ""},
		{"too long", strings.Repeat("a", 51), "First name cannot exceed 50 characters."},
		{"digits", "J3an", "First name can only contain letters, spaces and hyphens."},
		{"exactly two runes", "Éa", ""},
		{"line break", "Léa\r\nBcc", "First name can only contain letters, spaces and hyphens."},
		{"tab", "Léa\tMarie", "First name can only contain letters, spaces and hyphens."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMember()
			in.FirstName = tt.value
			res := ValidateRegistration(in)
			if tt.want == "" {
				assert.True(t, res.Valid(), res.Errors)
				return
			}
			assert.Equal(t, []string{tt.want}, res.Errors)
		})
	}
}

func TestValidateMember_Password(t *testing.T) {
	in := validMember()
	in.Password = ""
	assert.Equal(t, []string{"Password is required."}, ValidateRegistration(in).Errors)

	in.Password = "alllowercase1"
	assert.Equal(t, []string{"Password must contain at least 8 characters, an uppercase letter and a digit."}, ValidateRegistration(in).Errors)

	in.Password = "A1" + strings.Repeat("x", 254)
	assert.Equal(t, []string{"Password cannot exceed 255 characters."}, ValidateRegistration(in).Errors)
}

func TestValidateMember_EmailLength(t *testing.T) {
	in := validMember()
	in.Email = strings.Repeat("a", 96) + "@x.fr"
	assert.Equal(t, []string{"Email address cannot exceed 100 characters."}, ValidateRegistration(in).Errors)
}

func TestValidateProfile_SkipsEmailAndPassword(t *testing.T) {
	in := validMember()
	in.Email = ""
	in.Password = ""
	assert.True(t, ValidateProfile(in).Valid())
}

func TestValidateMember_PhoneIsOptional(t *testing.T) {
	in := validMember()
	in.Phone = ""
	assert.True(t, ValidateRegistration(in).Valid())

	in.Phone = "0012345678"
	assert.False(t, ValidateRegistration(in).Valid())
}

func TestIsAllowedSize(t *testing.T) {
	for _, s := range AllowedSizes {
		assert.True(t, IsAllowedSize(s), s)
	}
	assert.False(t, IsAllowedSize("xl"))
}
