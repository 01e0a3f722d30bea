package validation

const (
	TitleMaxLength       = 150
	DescriptionMaxLength = 5000
	LocationMaxLength    = 255
	MapURLMaxLength      = 500
	LabelMaxLength       = 100
	CommentMaxLength     = 255
)

// EventFields are the descriptive fields shared by sport and association events.
type EventFields struct {
	Title          string
	Description    string
	LocationText   string
	LocationMapURL string
}

// ValidateEventFields checks the descriptive fields only. Date ordering is a
// separate state check performed once every field is valid.
func ValidateEventFields(f EventFields) *Result {
	res := &Result{}
	res.Add(NewStringValidation("Title", f.Title).WithMaxLength(TitleMaxLength).Validate())
	res.Add(NewStringValidation("Description", f.Description).WithMaxLength(DescriptionMaxLength).Validate())
	res.Add(NewStringValidation("Location", f.LocationText).WithMaxLength(LocationMaxLength).Validate())
	res.Add(NewStringValidation("Map link", f.LocationMapURL).
		WithRequired(false).
		WithMaxLength(MapURLMaxLength).
		WithFormat(IsHTTPURL, "Map link must be an http(s) URL.").
		Validate())
	return res
}

// ValidateCategoryLabel checks a sport category label.
func ValidateCategoryLabel(label string) *Result {
	res := &Result{}
	if label == "" {
		res.Add("Label cannot be empty.")
		return res
	}
	res.Add(NewStringValidation("Label", label).WithMaxLength(LabelMaxLength).Validate())
	return res
}

// ValidateComment checks an optional free-text comment.
func ValidateComment(comment string) *Result {
	res := &Result{}
	res.Add(NewStringValidation("Comment", comment).WithRequired(false).WithMaxLength(CommentMaxLength).Validate())
	return res
}

// ValidateGuestCount checks the number of guests a participant brings.
func ValidateGuestCount(guests int) *Result {
	res := &Result{}
	res.Check(guests >= 0 && guests <= 10, "The number of guests must be between 0 and 10.")
	return res
}
