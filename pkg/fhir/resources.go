package fhir

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ICD10System                 = "http://hl7.org/fhir/sid/icd-10"
	RiskProbabilitySystem       = "http://terminology.hl7.org/CodeSystem/risk-probability"
	ConditionClinicalSystem     = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	ConditionVerificationSystem = "http://terminology.hl7.org/CodeSystem/condition-ver-status"
)

// ConditionClinicalStatus / verification codes used here.
const (
	ConditionActive      = "active"
	ConditionProvisional = "provisional"
)

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Extension struct {
	URL          string  `json:"url"`
	ValueDecimal float64 `json:"valueDecimal"`
}

type RiskAssessment struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id"`
	Status       string                     `json:"status"`
	Subject      Reference                  `json:"subject"`
	OccurrenceDT string                     `json:"occurrenceDateTime"`
	Method       *CodeableConcept           `json:"method,omitempty"`
	Prediction   []RiskAssessmentPrediction `json:"prediction"`
	Note         []Annotation               `json:"note,omitempty"`
}

type RiskAssessmentPrediction struct {
	Outcome            *CodeableConcept `json:"outcome,omitempty"`
	ProbabilityDecimal float64          `json:"probabilityDecimal"`
	QualitativeRisk    *CodeableConcept `json:"qualitativeRisk,omitempty"`
}

type Annotation struct {
	Text string `json:"text"`
}

type Condition struct {
	ResourceType       string          `json:"resourceType"`
	ID                 string          `json:"id"`
	ClinicalStatus     CodeableConcept `json:"clinicalStatus"`
	VerificationStatus CodeableConcept `json:"verificationStatus"`
	Code               CodeableConcept `json:"code"`
	Subject            Reference       `json:"subject"`
	RecordedDate       string          `json:"recordedDate"`
	Extension          []Extension     `json:"extension,omitempty"`
}

// FormatReference returns the standard "ResourceType/id" reference string.
func FormatReference(resourceType, id string) string {
	return resourceType + "/" + id
}

// PatientReference returns an empty reference for a blank id.
func PatientReference(patientID string) Reference {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return Reference{}
	}
	return Reference{Reference: FormatReference("Patient", patientID)}
}

func newID() string {
	return uuid.New().String()
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func basisText(age, glucose int, conditions []string) string {
	if len(conditions) == 0 {
		return fmt.Sprintf("age=%d; glucose=%d mg/dL; conditions=none", age, glucose)
	}
	return fmt.Sprintf("age=%d; glucose=%d mg/dL; conditions=%s", age, glucose, strings.Join(conditions, ", "))
}
