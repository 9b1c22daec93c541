// Package document provides the resume document model: the aggregate root, its
// ordered section lists and the section-level update protocol.
package document

import "time"

// PersonalInfo is the singleton contact record at the top of a resume.
type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=10"`
	Location  string `json:"location" validate:"required,min=2"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
}

// FullName joins first and last name, trimming missing halves.
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Experience is a work history entry.
type Experience struct {
	ID           string   `json:"id"`
	Title        string   `json:"title" validate:"required,min=2"`
	Company      string   `json:"company" validate:"required,min=2"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate" validate:"required"`
	EndDate      string   `json:"endDate"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// EntryID implements Entry.
func (e Experience) EntryID() string { return e.ID }

// Education is a school or degree entry.
type Education struct {
	ID             string `json:"id"`
	Degree         string `json:"degree" validate:"required"`
	Institution    string `json:"institution" validate:"required"`
	Location       string `json:"location,omitempty"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa,omitempty"`
	Description    string `json:"description,omitempty"`
	Current        bool   `json:"current"`
}

// EntryID implements Entry.
func (e Education) EntryID() string { return e.ID }

// Certification is a professional certification entry.
type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Issuer       string `json:"issuer" validate:"required"`
	Date         string `json:"date" validate:"required"`
	ExpiryDate   string `json:"expiryDate"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty" validate:"omitempty,url"`
	Description  string `json:"description,omitempty"`
	NeverExpires bool   `json:"neverExpires"`
}

// EntryID implements Entry.
func (c Certification) EntryID() string { return c.ID }

// Expired reports whether the certification has a past expiry date and is not
// marked as never expiring. Dates are YYYY-MM or YYYY-MM-DD.
func (c Certification) Expired(now time.Time) bool {
	if c.NeverExpires || c.ExpiryDate == "" {
		return false
	}
	expiry, ok := parseDate(c.ExpiryDate)
	if !ok {
		return false
	}
	return expiry.Before(now)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Document is the full editable resume.
type Document struct {
	Personal       PersonalInfo        `json:"personal"`
	Summary        string              `json:"summary"`
	Experience     List[Experience]    `json:"experience"`
	Education      List[Education]     `json:"education"`
	Skills         Skills              `json:"skills"`
	Certifications List[Certification] `json:"certifications"`
}

// New returns an empty document with non-nil collections so it serializes as
// empty arrays rather than null.
func New() Document {
	return Document{
		Experience:     List[Experience]{},
		Education:      List[Education]{},
		Skills:         Skills{},
		Certifications: List[Certification]{},
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Experience = make(List[Experience], len(d.Experience))
	for i, e := range d.Experience {
		e.Achievements = append([]string{}, e.Achievements...)
		out.Experience[i] = e
	}
	out.Education = append(List[Education]{}, d.Education...)
	out.Skills = append(Skills{}, d.Skills...)
	out.Certifications = append(List[Certification]{}, d.Certifications...)
	return out
}

// Normalize replaces nil collections with empty ones. Documents decoded from
// storage may omit sections.
func (d Document) Normalize() Document {
	experience := make(List[Experience], len(d.Experience))
	for i, e := range d.Experience {
		if e.Achievements == nil {
			e.Achievements = []string{}
		}
		experience[i] = e
	}
	d.Experience = experience
	if d.Education == nil {
		d.Education = List[Education]{}
	}
	if d.Skills == nil {
		d.Skills = Skills{}
	}
	if d.Certifications == nil {
		d.Certifications = List[Certification]{}
	}
	return d
}
