package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	doc := New()
	doc.Personal = PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	doc.Summary = "Analyst"
	doc.Experience = List[Experience]{{ID: "exp-1", Title: "Engineer", Achievements: []string{}}}
	doc.Skills = Skills{"Go"}
	return doc
}

func TestUpdateSection_PersonalFieldMerges(t *testing.T) {
	doc := sampleDocument()
	out, err := UpdateSection(doc, PersonalField{Field: "email", Value: "ada@analytical.engine"})
	require.NoError(t, err)

	assert.Equal(t, "ada@analytical.engine", out.Personal.Email)
	assert.Equal(t, "Ada", out.Personal.FirstName)
	assert.Equal(t, "ada@example.com", doc.Personal.Email)
}

func TestUpdateSection_UnknownPersonalField(t *testing.T) {
	doc := sampleDocument()
	out, err := UpdateSection(doc, PersonalField{Field: "nickname", Value: "x"})

	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nickname", unknown.Field)
	assert.Equal(t, doc, out)
}

func TestUpdateSection_ReplacesOnlyTargetSection(t *testing.T) {
	doc := sampleDocument()

	tests := []struct {
		name   string
		update SectionUpdate
		check  func(t *testing.T, out Document)
	}{
		{
			name:   "summary",
			update: SummaryUpdate{Text: "New summary"},
			check: func(t *testing.T, out Document) {
				assert.Equal(t, "New summary", out.Summary)
				assert.Equal(t, doc.Experience, out.Experience)
			},
		},
		{
			name:   "skills",
			update: SkillsUpdate{Skills: Skills{"Go", "SQL"}},
			check: func(t *testing.T, out Document) {
				assert.Equal(t, Skills{"Go", "SQL"}, out.Skills)
				assert.Equal(t, doc.Summary, out.Summary)
			},
		},
		{
			name:   "experience",
			update: ExperienceUpdate{Entries: List[Experience]{{ID: "exp-2", Title: "Lead"}}},
			check: func(t *testing.T, out Document) {
				assert.Equal(t, []string{"exp-2"}, out.Experience.IDs())
				assert.Equal(t, doc.Skills, out.Skills)
			},
		},
		{
			name:   "education",
			update: EducationUpdate{Entries: List[Education]{{ID: "edu-1", Degree: "BSc"}}},
			check: func(t *testing.T, out Document) {
				assert.Equal(t, []string{"edu-1"}, out.Education.IDs())
			},
		},
		{
			name:   "certifications",
			update: CertificationsUpdate{Entries: List[Certification]{{ID: "cert-1", Name: "CKA"}}},
			check: func(t *testing.T, out Document) {
				assert.Equal(t, []string{"cert-1"}, out.Certifications.IDs())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := UpdateSection(doc, tt.update)
			require.NoError(t, err)
			tt.check(t, out)
			assert.Equal(t, sampleDocument(), doc)
		})
	}
}

func TestUpdateSection_EnforcesOngoingCouplingOnReplace(t *testing.T) {
	out, err := UpdateSection(New(), ExperienceUpdate{Entries: List[Experience]{
		{ID: "exp-1", Current: true, EndDate: "2023-05"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "", out.Experience[0].EndDate)
}

func TestUpdateSection_RejectsDuplicateIDs(t *testing.T) {
	_, err := UpdateSection(New(), EducationUpdate{Entries: List[Education]{{ID: "edu-1"}, {ID: "edu-1"}}})
	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "edu-1", dup.ID)

	_, err = UpdateSection(New(), CertificationsUpdate{Entries: List[Certification]{{Name: "no id"}}})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "", dup.ID)
}

func TestUpdateSection_Skills(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Skills
		wantErr string
	}{
		{"trims values", `[" React ","Node"]`, Skills{"React", "Node"}, ""},
		{"empty list", `[]`, Skills{}, ""},
		{"duplicate", `["React","Node","React"]`, nil, `skill "React" rejected: already present`},
		{"duplicate after trim", `["React","React  "]`, nil, `skill "React" rejected: already present`},
		{"blank", `["React","  "]`, nil, "skill rejected: empty"},
		{"case differs", `["go","Go"]`, Skills{"go", "Go"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			update, err := ParseSectionUpdate(SectionSkills, json.RawMessage(tt.payload))
			require.NoError(t, err)

			out, err := UpdateSection(doc, update)
			if tt.wantErr != "" {
				var skillErr *SkillError
				require.ErrorAs(t, err, &skillErr)
				assert.EqualError(t, err, tt.wantErr)
				assert.Equal(t, doc, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Skills)
		})
	}
}

func TestSectionUpdate_Shapes(t *testing.T) {
	assert.Equal(t, ShapeRecord, PersonalField{}.Shape())
	assert.Equal(t, ShapeScalar, SummaryUpdate{}.Shape())
	for _, u := range []SectionUpdate{ExperienceUpdate{}, EducationUpdate{}, SkillsUpdate{}, CertificationsUpdate{}} {
		assert.Equal(t, ShapeCollection, u.Shape(), u.Section())
	}
	assert.Equal(t, "collection", ShapeCollection.String())
}

func TestParseSectionUpdate(t *testing.T) {
	tests := []struct {
		name    string
		section string
		body    string
		want    SectionUpdate
	}{
		{"personal", SectionPersonal, `{"field":"phone","value":"5551234567"}`, PersonalField{Field: "phone", Value: "5551234567"}},
		{"summary", SectionSummary, `"Hello there"`, SummaryUpdate{Text: "Hello there"}},
		{"skills", SectionSkills, `["Go","SQL"]`, SkillsUpdate{Skills: Skills{"Go", "SQL"}}},
		{"education", SectionEducation, `[{"id":"edu-1","degree":"BSc","institution":"MIT"}]`,
			EducationUpdate{Entries: List[Education]{{ID: "edu-1", Degree: "BSc", Institution: "MIT"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSectionUpdate(tt.section, json.RawMessage(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSectionUpdate_Errors(t *testing.T) {
	_, err := ParseSectionUpdate("hobbies", json.RawMessage(`[]`))
	var unknownSection *UnknownSectionError
	assert.ErrorAs(t, err, &unknownSection)

	_, err = ParseSectionUpdate(SectionSummary, json.RawMessage(`42`))
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)

	_, err = ParseSectionUpdate(SectionPersonal, json.RawMessage(`{"field":"age","value":"3"}`))
	var unknownField *UnknownFieldError
	assert.ErrorAs(t, err, &unknownField)
}

func TestSectionValue(t *testing.T) {
	doc := sampleDocument()
	v, err := SectionValue(doc, SectionSkills)
	require.NoError(t, err)
	assert.Equal(t, doc.Skills, v)

	_, err = SectionValue(doc, "nope")
	assert.Error(t, err)
}

func TestDocument_JSONRoundTripKeepsEmptyArrays(t *testing.T) {
	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"personal": {"firstName":"","lastName":"","email":"","phone":"","location":""},
		"summary": "",
		"experience": [],
		"education": [],
		"skills": [],
		"certifications": []
	}`, string(data))
}

func TestCheckIDs(t *testing.T) {
	require.NoError(t, CheckIDs(sampleDocument()))

	doc := New()
	doc.Education = List[Education]{{ID: "edu-1"}, {ID: "edu-1"}}
	var dup *DuplicateIDError
	require.ErrorAs(t, CheckIDs(doc), &dup)
	assert.Equal(t, SectionEducation, dup.Section)
	assert.Equal(t, "edu-1", dup.ID)

	doc = New()
	doc.Certifications = List[Certification]{{Name: "No id"}}
	require.ErrorAs(t, CheckIDs(doc), &dup)
	assert.Empty(t, dup.ID)
}
