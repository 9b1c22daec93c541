package rendering

import (
	"time"

	"github.com/jonathan/resume-builder/internal/document"
)

var fixedNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func sampleDocument() document.Document {
	doc := document.New()
	doc.Personal = document.PersonalInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "555-010-0199",
		Location:  "London",
		Website:   "https://ada.dev",
	}
	doc.Summary = "Engineer focused on analytical engines & data."
	doc.Experience = document.List[document.Experience]{
		{ID: "exp-1", Title: "Lead Engineer", Company: "Engines Ltd", StartDate: "2021-02", Current: true,
			Description: "Built the 100% reliable mill", Achievements: []string{"Shipped v2", " "}},
		{ID: "exp-2", Title: "Engineer", Company: "Analytical Co", StartDate: "2018-01", EndDate: "2021-01"},
	}
	doc.Education = document.List[document.Education]{
		{ID: "edu-1", Degree: "BSc Mathematics", Institution: "University of London", GraduationDate: "2017-06", GPA: "3.9"},
	}
	doc.Skills = document.Skills{"Go", "C_lang"}
	doc.Certifications = document.List[document.Certification]{
		{ID: "cert-1", Name: "CKA", Issuer: "CNCF", Date: "2022-05", ExpiryDate: "2025-05"},
		{ID: "cert-2", Name: "PMP", Issuer: "PMI", Date: "2020-01", NeverExpires: true},
	}
	return doc
}
