package models

import "time"

// Event bus envelope
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // risk.scored, entities.extracted, note.submitted
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

const (
	EventRiskScored        = "risk.scored"
	EventEntitiesExtracted = "entities.extracted"
	EventNoteSubmitted     = "note.submitted"
)

// Risk scoring
type ScoreRiskRequest struct {
	Age        int      `json:"age"`
	Glucose    int      `json:"glucose"`
	Conditions []string `json:"conditions"`
}

// Entity extraction
type ExtractRequest struct {
	Note string `json:"note"`
}

// FHIR rendering
type FHIRRiskAssessmentRequest struct {
	PatientID  string   `json:"patient_id"`
	Age        int      `json:"age"`
	Glucose    int      `json:"glucose"`
	Conditions []string `json:"conditions"`
}

type FHIRConditionsRequest struct {
	PatientID string `json:"patient_id"`
	Note      string `json:"note"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
