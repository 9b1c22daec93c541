package document

import "fmt"

// EntryNotFoundError is returned when a list operation names an id that is not
// in the list.
type EntryNotFoundError struct {
	ID string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry not found: %s", e.ID)
}

// ImmutableIDError is returned when a patch tries to change an entry id.
type ImmutableIDError struct {
	ID string
}

func (e *ImmutableIDError) Error() string {
	return fmt.Sprintf("entry id is immutable: %s", e.ID)
}

// UnknownFieldError is returned for a personal-info field name that does not exist.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown personal field: %s", e.Field)
}

// UnknownSectionError is returned when a section key is not one of the six
// document sections.
type UnknownSectionError struct {
	Section string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section: %s", e.Section)
}

// DecodeError wraps a malformed section payload.
type DecodeError struct {
	Section string
	Cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s payload: %v", e.Section, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// SkillError reports a rejected skill addition.
type SkillError struct {
	Skill   string
	Message string
}

func (e *SkillError) Error() string {
	if e.Skill == "" {
		return fmt.Sprintf("skill rejected: %s", e.Message)
	}
	return fmt.Sprintf("skill %q rejected: %s", e.Skill, e.Message)
}

// DuplicateIDError is returned when a replacement list carries an empty or
// repeated entry id.
type DuplicateIDError struct {
	Section string
	ID      string
}

func (e *DuplicateIDError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: entry without id", e.Section)
	}
	return fmt.Sprintf("%s: duplicate entry id %s", e.Section, e.ID)
}
