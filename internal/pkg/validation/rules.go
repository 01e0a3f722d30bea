package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// French landline or mobile number once spaces are removed
	PhonePattern = `^0[1-9][0-9]{8}$`

	NameMinLength     = 2
	NameMaxLength     = 50
	EmailMaxLength    = 100
	PasswordMinLength = 8
	PasswordMaxLength = 255
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// AllowedSizes lists the clothing sizes a member can pick. Empty means no choice.
var AllowedSizes = []string{"", "XS", "S", "M", "L", "XL", "XXL"}

var validate = validator.New()

// Result accumulates every violation found while checking one input.
type Result struct {
	Errors []string
}

// Valid reports whether no violation was recorded.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Add records a violation. Empty messages are ignored.
func (r *Result) Add(msg string) {
	if msg != "" {
		r.Errors = append(r.Errors, msg)
	}
}

// Check records msg when ok is false.
func (r *Result) Check(ok bool, msg string) {
	if !ok {
		r.Add(msg)
	}
}

// Merge appends the violations of other.
func (r *Result) Merge(other *Result) {
	if other != nil {
		r.Errors = append(r.Errors, other.Errors...)
	}
}

// Err returns nil when valid, otherwise an *apperrors.ValidationError listing all violations.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return apperrors.NewValidationError(r.Errors...)
}

// StringValidation checks one string field and reports its first failing rule.
type StringValidation struct {
	Value       string
	Label       string
	Required    bool
	MinLen      int
	MaxLen      int
	Accept      func(string) bool
	InvalidText string
}

// NewStringValidation creates a required string validation; label starts the messages.
func NewStringValidation(label, value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Label:    label,
		Required: true,
	}
}

// WithMinLength sets minimum length in characters
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// WithFormat adds a format check and the message reported when it fails.
func (v *StringValidation) WithFormat(accept func(string) bool, message string) *StringValidation {
	v.Accept = accept
	v.InvalidText = message
	return v
}

// Validate returns the message of the first failing rule, or "" when the value is acceptable.
func (v *StringValidation) Validate() string {
	if v.Value == "" {
		if v.Required {
			return v.Label + " is required."
		}
		return ""
	}

	length := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && length < v.MinLen {
		return v.Label + " must contain at least " + strconv.Itoa(v.MinLen) + " characters."
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return v.Label + " cannot exceed " + strconv.Itoa(v.MaxLen) + " characters."
	}
	if v.Accept != nil && !v.Accept(v.Value) {
		return v.InvalidText
	}
	return ""
}

// IsEmail reports whether s is a plausible email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsHTTPURL reports whether s is an absolute http(s) URL.
func IsHTTPURL(s string) bool {
	if validate.Var(s, "required,url") != nil {
		return false
	}
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NormalizePhone drops the spaces members type between digit pairs.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}
