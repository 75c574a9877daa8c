package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Eordinary01/View-Assignment/core"
)

// Assignment is one uploaded document's metadata. FileName points at the
// blob store entry holding the document's bytes.
type Assignment struct {
	ID         string    `json:"id"`
	Course     string    `json:"course"`
	Branch     string    `json:"branch"`
	Year       string    `json:"year"`
	Subject    string    `json:"subject"`
	College    string    `json:"college"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewAssignment contains the metadata accompanying an upload. The college is
// never taken from the client; it comes from the uploader's identity.
type NewAssignment struct {
	Course  string `json:"course" validate:"required"`
	Branch  string `json:"branch" validate:"required"`
	Year    string `json:"year" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Course = core.CleanString(na.Course, true /* upper */)
	na.Branch = core.CleanString(na.Branch, true /* upper */)
	na.Year = core.CleanString(na.Year, true /* upper */)
	na.Subject = core.CleanString(na.Subject, true /* upper */)
	return validate.Struct(na)
}

// UpdateAssignment defines what an admin may overwrite on an existing
// Assignment. All fields are required; a partial patch is a caller error.
type UpdateAssignment struct {
	Course  string `json:"course" validate:"required"`
	Branch  string `json:"branch" validate:"required"`
	Year    string `json:"year" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	College string `json:"college" validate:"required"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Course = core.CleanString(ua.Course, true /* upper */)
	ua.Branch = core.CleanString(ua.Branch, true /* upper */)
	ua.Year = core.CleanString(ua.Year, true /* upper */)
	ua.Subject = core.CleanString(ua.Subject, true /* upper */)
	ua.College = core.CleanString(ua.College, true /* upper */)
	return validate.Struct(ua)
}
