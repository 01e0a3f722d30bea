package validation

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// MemberInput holds the member fields subject to validation.
type MemberInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Phone       string
	TShirtSize  string
	SweaterSize string
}

// MemberOptions selects which optional checks run.
type MemberOptions struct {
	// CheckEmail is false for profile updates, where the email is not editable.
	CheckEmail bool
	// RequirePassword is true on account creation.
	RequirePassword bool
}

// ValidateRegistration checks a signup form.
func ValidateRegistration(in MemberInput) *Result {
	return ValidateMember(in, MemberOptions{CheckEmail: true, RequirePassword: true})
}

// ValidateProfile checks a profile update.
func ValidateProfile(in MemberInput) *Result {
	return ValidateMember(in, MemberOptions{})
}

// ValidateMember accumulates the violations of every field, in form order.
func ValidateMember(in MemberInput, opts MemberOptions) *Result {
	res := &Result{}

	res.Add(nameValidation("First name", in.FirstName).Validate())
	res.Add(nameValidation("Last name", in.LastName).Validate())

	if opts.CheckEmail {
		res.Add(NewStringValidation("Email address", in.Email).
			WithMaxLength(EmailMaxLength).
			WithFormat(IsEmail, "Email address is not valid.").
			Validate())
	}

	if opts.RequirePassword {
		res.Add(passwordViolation(in.Password))
	}

	if phone := NormalizePhone(in.Phone); phone != "" && !CompiledPatterns.Phone.MatchString(phone) {
		res.Add("Phone number is not valid (expected format: 0XXXXXXXXX).")
	}

	res.Check(IsAllowedSize(in.TShirtSize), "Invalid t-shirt size.")
	res.Check(IsAllowedSize(in.SweaterSize), "Invalid sweater size.")

	return res
}

// IsAllowedSize reports whether size is one of AllowedSizes.
func IsAllowedSize(size string) bool {
	for _, s := range AllowedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// IsStrongPassword requires the minimum length, an uppercase letter and a digit.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return false
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}

func passwordViolation(password string) string {
	switch {
	case password == "":
		return "Password is required."
	case !IsStrongPassword(password):
		return "Password must contain at least " + strconv.Itoa(PasswordMinLength) + " characters, an uppercase letter and a digit."
	case utf8.RuneCountInString(password) > PasswordMaxLength:
		return "Password cannot exceed " + strconv.Itoa(PasswordMaxLength) + " characters."
	}
	return ""
}

func nameValidation(label, value string) *StringValidation {
	return NewStringValidation(label, value).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		WithFormat(isNameText, label+" can only contain letters, spaces and hyphens.")
}

func isNameText(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}
