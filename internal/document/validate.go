package document

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MinDescriptionLength is the strict-mode minimum for experience descriptions.
const MinDescriptionLength = 50

// Mode selects which rule set Validate applies.
type Mode int

const (
	// ModeBase checks required fields, formats and end-date coupling.
	ModeBase Mode = iota
	// ModeStrict additionally applies the editing-form rules, such as the
	// minimum experience description length.
	ModeStrict
)

// FieldError describes one failing field. EntryID is empty for personal info
// and summary.
type FieldError struct {
	Section string `json:"section"`
	EntryID string `json:"entryId,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.EntryID != "" {
		return fmt.Sprintf("%s[%s].%s: %s", e.Section, e.EntryID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Message)
}

// ValidationErrors is the list of problems found in a document. It is
// informational: saving never depends on it being empty.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// For returns the errors reported for a given section and entry.
func (v ValidationErrors) For(section, entryID string) ValidationErrors {
	var out ValidationErrors
	for _, fe := range v {
		if fe.Section == section && fe.EntryID == entryID {
			out = append(out, fe)
		}
	}
	return out
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks doc and returns every failing field, or nil.
func Validate(doc Document, mode Mode) ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, structErrors(SectionPersonal, "", doc.Personal)...)

	for _, e := range doc.Experience {
		errs = append(errs, structErrors(SectionExperience, e.ID, e)...)
		if !e.Current && strings.TrimSpace(e.EndDate) == "" {
			errs = append(errs, FieldError{SectionExperience, e.ID, "endDate", "End date is required unless this is your current role"})
		}
		if mode == ModeStrict && len(strings.TrimSpace(e.Description)) < MinDescriptionLength {
			errs = append(errs, FieldError{SectionExperience, e.ID, "description", fmt.Sprintf("Description must be at least %d characters", MinDescriptionLength)})
		}
	}

	for _, e := range doc.Education {
		errs = append(errs, structErrors(SectionEducation, e.ID, e)...)
		if !e.Current && strings.TrimSpace(e.GraduationDate) == "" {
			errs = append(errs, FieldError{SectionEducation, e.ID, "graduationDate", "Graduation date is required unless currently studying"})
		}
	}

	for _, c := range doc.Certifications {
		errs = append(errs, structErrors(SectionCertifications, c.ID, c)...)
		if !c.NeverExpires && strings.TrimSpace(c.ExpiryDate) == "" {
			errs = append(errs, FieldError{SectionCertifications, c.ID, "expiryDate", "Expiry date is required unless the certification never expires"})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func structErrors(section, entryID string, v any) ValidationErrors {
	err := fieldValidator().Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Section: section, EntryID: entryID, Message: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{
			Section: section,
			EntryID: entryID,
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	default:
		return fmt.Sprintf("Failed %s check", fe.Tag())
	}
}
