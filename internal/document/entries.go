package document

// Id prefixes for generated entry ids.
const (
	ExperiencePrefix    = "exp"
	EducationPrefix     = "edu"
	CertificationPrefix = "cert"
)

// NewExperience returns an empty experience entry.
func NewExperience(id string) Experience {
	return Experience{ID: id, Achievements: []string{}}
}

// NewEducation returns an empty education entry.
func NewEducation(id string) Education {
	return Education{ID: id}
}

// NewCertification returns an empty certification entry.
func NewCertification(id string) Certification {
	return Certification{ID: id}
}

// ExperiencePatch carries the fields to change on an experience entry. Nil
// fields are left untouched.
type ExperiencePatch struct {
	Title        *string  `json:"title,omitempty"`
	Company      *string  `json:"company,omitempty"`
	Location     *string  `json:"location,omitempty"`
	StartDate    *string  `json:"startDate,omitempty"`
	EndDate      *string  `json:"endDate,omitempty"`
	Current      *bool    `json:"current,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Apply implements Patch. Turning Current on clears EndDate in the same update.
func (p ExperiencePatch) Apply(e Experience) Experience {
	setString(&e.Title, p.Title)
	setString(&e.Company, p.Company)
	setString(&e.Location, p.Location)
	setString(&e.StartDate, p.StartDate)
	setString(&e.EndDate, p.EndDate)
	setString(&e.Description, p.Description)
	if p.Achievements != nil {
		e.Achievements = append([]string{}, p.Achievements...)
	}
	if p.Current != nil {
		e.Current = *p.Current
	}
	if e.Current {
		e.EndDate = ""
	}
	return e
}

// EducationPatch carries the fields to change on an education entry.
type EducationPatch struct {
	Degree         *string `json:"degree,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	Location       *string `json:"location,omitempty"`
	GraduationDate *string `json:"graduationDate,omitempty"`
	GPA            *string `json:"gpa,omitempty"`
	Description    *string `json:"description,omitempty"`
	Current        *bool   `json:"current,omitempty"`
}

// Apply implements Patch. Turning Current on clears GraduationDate.
func (p EducationPatch) Apply(e Education) Education {
	setString(&e.Degree, p.Degree)
	setString(&e.Institution, p.Institution)
	setString(&e.Location, p.Location)
	setString(&e.GraduationDate, p.GraduationDate)
	setString(&e.GPA, p.GPA)
	setString(&e.Description, p.Description)
	if p.Current != nil {
		e.Current = *p.Current
	}
	if e.Current {
		e.GraduationDate = ""
	}
	return e
}

// CertificationPatch carries the fields to change on a certification entry.
type CertificationPatch struct {
	Name         *string `json:"name,omitempty"`
	Issuer       *string `json:"issuer,omitempty"`
	Date         *string `json:"date,omitempty"`
	ExpiryDate   *string `json:"expiryDate,omitempty"`
	CredentialID *string `json:"credentialId,omitempty"`
	URL          *string `json:"url,omitempty"`
	Description  *string `json:"description,omitempty"`
	NeverExpires *bool   `json:"neverExpires,omitempty"`
}

// Apply implements Patch. Turning NeverExpires on clears ExpiryDate.
func (p CertificationPatch) Apply(c Certification) Certification {
	setString(&c.Name, p.Name)
	setString(&c.Issuer, p.Issuer)
	setString(&c.Date, p.Date)
	setString(&c.ExpiryDate, p.ExpiryDate)
	setString(&c.CredentialID, p.CredentialID)
	setString(&c.URL, p.URL)
	setString(&c.Description, p.Description)
	if p.NeverExpires != nil {
		c.NeverExpires = *p.NeverExpires
	}
	if c.NeverExpires {
		c.ExpiryDate = ""
	}
	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }
