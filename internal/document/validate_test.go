package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() Document {
	doc := New()
	doc.Personal = PersonalInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0958",
		Location:  "London",
		Website:   "https://ada.dev",
	}
	doc.Experience = List[Experience]{{
		ID:           "exp-1",
		Title:        "Engineer",
		Company:      "Analytical Engines",
		StartDate:    "2020-01",
		Current:      true,
		Description:  strings.Repeat("Built things that computed Bernoulli numbers. ", 2),
		Achievements: []string{},
	}}
	doc.Education = List[Education]{{ID: "edu-1", Degree: "BSc", Institution: "UCL", GraduationDate: "2019-06"}}
	doc.Certifications = List[Certification]{{ID: "cert-1", Name: "CKA", Issuer: "CNCF", Date: "2022-03", NeverExpires: true}}
	return doc
}

func TestValidate_ValidDocument(t *testing.T) {
	assert.Nil(t, Validate(validDocument(), ModeStrict))
}

func TestValidate_EmptyDocumentReportsPersonalFields(t *testing.T) {
	errs := Validate(New(), ModeBase)
	require.NotEmpty(t, errs)

	fields := map[string]bool{}
	for _, fe := range errs {
		assert.Equal(t, SectionPersonal, fe.Section)
		fields[fe.Field] = true
	}
	for _, f := range []string{"firstName", "lastName", "email", "phone", "location"} {
		assert.True(t, fields[f], "missing error for %s", f)
	}
	assert.False(t, fields["website"])
}

func TestValidate_EndDateRequiredUnlessOngoing(t *testing.T) {
	doc := validDocument()
	doc.Experience[0].Current = false

	errs := Validate(doc, ModeBase).For(SectionExperience, "exp-1")
	require.Len(t, errs, 1)
	assert.Equal(t, "endDate", errs[0].Field)

	doc.Education[0].GraduationDate = ""
	assert.Len(t, Validate(doc, ModeBase).For(SectionEducation, "edu-1"), 1)

	doc.Certifications[0].NeverExpires = false
	certErrs := Validate(doc, ModeBase).For(SectionCertifications, "cert-1")
	require.Len(t, certErrs, 1)
	assert.Equal(t, "expiryDate", certErrs[0].Field)
}

func TestValidate_StrictDescriptionLength(t *testing.T) {
	doc := validDocument()
	doc.Experience[0].Description = "Too short"

	assert.Empty(t, Validate(doc, ModeBase).For(SectionExperience, "exp-1"))

	errs := Validate(doc, ModeStrict).For(SectionExperience, "exp-1")
	require.Len(t, errs, 1)
	assert.Equal(t, "description", errs[0].Field)
	assert.Equal(t, "Description must be at least 50 characters", errs[0].Message)
}

func TestValidate_Formats(t *testing.T) {
	doc := validDocument()
	doc.Personal.Email = "not-an-email"
	doc.Personal.Website = "nope"
	doc.Personal.Phone = "123"

	errs := Validate(doc, ModeBase)
	messages := map[string]string{}
	for _, fe := range errs {
		messages[fe.Field] = fe.Message
	}
	assert.Equal(t, "Invalid email address", messages["email"])
	assert.Equal(t, "Invalid URL", messages["website"])
	assert.Equal(t, "Must be at least 10 characters", messages["phone"])
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Section: SectionPersonal, Field: "email", Message: "Invalid email address"},
		{Section: SectionExperience, EntryID: "exp-1", Field: "title", Message: "This field is required"},
	}
	assert.Equal(t,
		"validation failed: personal.email: Invalid email address; experience[exp-1].title: This field is required",
		errs.Error())
}
