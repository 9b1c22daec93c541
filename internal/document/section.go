package document

import (
	"encoding/json"
	"fmt"
)

// Section keys as used in JSON content and HTTP paths.
const (
	SectionPersonal       = "personal"
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionCertifications = "certifications"
)

// Sections lists every section key in document order.
var Sections = []string{
	SectionPersonal,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
}

// Shape classifies how a section update is applied.
type Shape int

const (
	// ShapeRecord merges a single named field.
	ShapeRecord Shape = iota
	// ShapeScalar replaces a single value.
	ShapeScalar
	// ShapeCollection replaces a whole list.
	ShapeCollection
)

func (s Shape) String() string {
	switch s {
	case ShapeRecord:
		return "record"
	case ShapeScalar:
		return "scalar"
	case ShapeCollection:
		return "collection"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// SectionUpdate is a change to one document section. The set of
// implementations is closed.
type SectionUpdate interface {
	Section() string
	Shape() Shape
	sectionUpdate()
}

// PersonalField sets one field of PersonalInfo, named by its JSON key.
type PersonalField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SummaryUpdate replaces the summary text.
type SummaryUpdate struct {
	Text string
}

// ExperienceUpdate replaces the experience list.
type ExperienceUpdate struct {
	Entries List[Experience]
}

// EducationUpdate replaces the education list.
type EducationUpdate struct {
	Entries List[Education]
}

// SkillsUpdate replaces the skills list.
type SkillsUpdate struct {
	Skills Skills
}

// CertificationsUpdate replaces the certifications list.
type CertificationsUpdate struct {
	Entries List[Certification]
}

func (PersonalField) Section() string        { return SectionPersonal }
func (SummaryUpdate) Section() string        { return SectionSummary }
func (ExperienceUpdate) Section() string     { return SectionExperience }
func (EducationUpdate) Section() string      { return SectionEducation }
func (SkillsUpdate) Section() string         { return SectionSkills }
func (CertificationsUpdate) Section() string { return SectionCertifications }

func (PersonalField) Shape() Shape        { return ShapeRecord }
func (SummaryUpdate) Shape() Shape        { return ShapeScalar }
func (ExperienceUpdate) Shape() Shape     { return ShapeCollection }
func (EducationUpdate) Shape() Shape      { return ShapeCollection }
func (SkillsUpdate) Shape() Shape         { return ShapeCollection }
func (CertificationsUpdate) Shape() Shape { return ShapeCollection }

func (PersonalField) sectionUpdate()        {}
func (SummaryUpdate) sectionUpdate()        {}
func (ExperienceUpdate) sectionUpdate()     {}
func (EducationUpdate) sectionUpdate()      {}
func (SkillsUpdate) sectionUpdate()         {}
func (CertificationsUpdate) sectionUpdate() {}

// UpdateSection returns a copy of doc with the update applied. Other sections
// are carried over unchanged. On error doc is returned as is.
func UpdateSection(doc Document, update SectionUpdate) (Document, error) {
	out := doc.Clone()
	switch u := update.(type) {
	case PersonalField:
		personal, err := setPersonalField(out.Personal, u.Field, u.Value)
		if err != nil {
			return doc, err
		}
		out.Personal = personal
	case SummaryUpdate:
		out.Summary = u.Text
	case ExperienceUpdate:
		if err := checkIDs(SectionExperience, u.Entries); err != nil {
			return doc, err
		}
		out.Experience = make(List[Experience], len(u.Entries))
		for i, e := range u.Entries {
			e = ExperiencePatch{}.Apply(e)
			e.Achievements = append([]string{}, e.Achievements...)
			out.Experience[i] = e
		}
	case EducationUpdate:
		if err := checkIDs(SectionEducation, u.Entries); err != nil {
			return doc, err
		}
		out.Education = make(List[Education], len(u.Entries))
		for i, e := range u.Entries {
			out.Education[i] = EducationPatch{}.Apply(e)
		}
	case SkillsUpdate:
		skills, err := ParseSkills(u.Skills)
		if err != nil {
			return doc, err
		}
		out.Skills = skills
	case CertificationsUpdate:
		if err := checkIDs(SectionCertifications, u.Entries); err != nil {
			return doc, err
		}
		out.Certifications = make(List[Certification], len(u.Entries))
		for i, c := range u.Entries {
			out.Certifications[i] = CertificationPatch{}.Apply(c)
		}
	default:
		return doc, fmt.Errorf("unsupported section update %T", update)
	}
	return out, nil
}

// SectionValue returns the current value of a section, as it would be sent to
// a leaf surface.
func SectionValue(doc Document, section string) (any, error) {
	switch section {
	case SectionPersonal:
		return doc.Personal, nil
	case SectionSummary:
		return doc.Summary, nil
	case SectionExperience:
		return doc.Experience, nil
	case SectionEducation:
		return doc.Education, nil
	case SectionSkills:
		return doc.Skills, nil
	case SectionCertifications:
		return doc.Certifications, nil
	default:
		return nil, &UnknownSectionError{Section: section}
	}
}

// ParseSectionUpdate decodes a JSON payload for the given section key. The
// personal section expects {"field": ..., "value": ...}; summary expects a
// string; the list sections expect the full replacement array.
func ParseSectionUpdate(section string, raw json.RawMessage) (SectionUpdate, error) {
	switch section {
	case SectionPersonal:
		var u PersonalField
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, &DecodeError{Section: section, Cause: err}
		}
		if _, err := setPersonalField(PersonalInfo{}, u.Field, u.Value); err != nil {
			return nil, err
		}
		return u, nil
	case SectionSummary:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, &DecodeError{Section: section, Cause: err}
		}
		return SummaryUpdate{Text: text}, nil
	case SectionExperience:
		var entries List[Experience]
		if err := decodeList(section, raw, &entries); err != nil {
			return nil, err
		}
		return ExperienceUpdate{Entries: entries}, nil
	case SectionEducation:
		var entries List[Education]
		if err := decodeList(section, raw, &entries); err != nil {
			return nil, err
		}
		return EducationUpdate{Entries: entries}, nil
	case SectionSkills:
		var skills Skills
		if err := decodeList(section, raw, &skills); err != nil {
			return nil, err
		}
		return SkillsUpdate{Skills: skills}, nil
	case SectionCertifications:
		var entries List[Certification]
		if err := decodeList(section, raw, &entries); err != nil {
			return nil, err
		}
		return CertificationsUpdate{Entries: entries}, nil
	default:
		return nil, &UnknownSectionError{Section: section}
	}
}

func decodeList[T any](section string, raw json.RawMessage, dst *T) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return &DecodeError{Section: section, Cause: err}
	}
	return nil
}

func setPersonalField(p PersonalInfo, field, value string) (PersonalInfo, error) {
	switch field {
	case "firstName":
		p.FirstName = value
	case "lastName":
		p.LastName = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "location":
		p.Location = value
	case "website":
		p.Website = value
	default:
		return p, &UnknownFieldError{Field: field}
	}
	return p, nil
}

func checkIDs[T Entry](section string, entries List[T]) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		id := e.EntryID()
		if id == "" {
			return &DuplicateIDError{Section: section}
		}
		if _, ok := seen[id]; ok {
			return &DuplicateIDError{Section: section, ID: id}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CheckIDs reports the first list section holding an empty or repeated entry id.
func CheckIDs(doc Document) error {
	if err := checkIDs(SectionExperience, doc.Experience); err != nil {
		return err
	}
	if err := checkIDs(SectionEducation, doc.Education); err != nil {
		return err
	}
	return checkIDs(SectionCertifications, doc.Certifications)
}
