package fhir

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recorded = time.Date(2025, 12, 27, 8, 0, 0, 0, time.UTC)

func TestNewRiskAssessment(t *testing.T) {
	a, err := risk.Assess(risk.VitalsRecord{Age: 60, Glucose: 200, ConditionHistory: []string{"ckd", "asthma"}}, recorded)
	require.NoError(t, err)

	ra := NewRiskAssessment(a, PatientReference("P-002"))
	assert.Equal(t, "RiskAssessment", ra.ResourceType)
	assert.Equal(t, a.ID, ra.ID)
	assert.Equal(t, "Patient/P-002", ra.Subject.Reference)
	assert.Equal(t, "2025-12-27T08:00:00Z", ra.OccurrenceDT)
	require.Len(t, ra.Prediction, 1)
	assert.InDelta(t, 0.8, ra.Prediction[0].ProbabilityDecimal, 1e-9)
	assert.Equal(t, "high", ra.Prediction[0].QualitativeRisk.Coding[0].Code)
	assert.Contains(t, ra.Note[0].Text, "conditions=ckd, asthma")
}

func TestPatientReferenceBlank(t *testing.T) {
	assert.Equal(t, Reference{}, PatientReference("  "))
}

func TestConditionsBundle(t *testing.T) {
	entities := []nlp.Entity{
		{Name: "Diabetes Mellitus", Code: "E11.9", System: nlp.SystemICD10, Confidence: 0.94},
		{Name: "Heart Failure", Code: "I50.9", System: nlp.SystemICD10, Confidence: 0.91},
	}
	conditions := NewConditions(entities, PatientReference("P-001"), recorded)
	require.Len(t, conditions, 2)
	assert.Equal(t, ICD10System, conditions[0].Code.Coding[0].System)
	assert.Equal(t, "E11.9", conditions[0].Code.Coding[0].Code)
	assert.Equal(t, ConditionProvisional, conditions[0].VerificationStatus.Coding[0].Code)
	assert.Equal(t, ConditionVerificationSystem, conditions[0].VerificationStatus.Coding[0].System)
	assert.Equal(t, ConditionClinicalSystem, conditions[0].ClinicalStatus.Coding[0].System)

	resources := make([]interface{}, len(conditions))
	for i, c := range conditions {
		resources[i] = c
	}
	bundle, err := NewCollectionBundle(resources, recorded)
	require.NoError(t, err)
	assert.Equal(t, "collection", bundle.Type)
	require.NotNil(t, bundle.Total)
	assert.Equal(t, 2, *bundle.Total)
	assert.Equal(t, "urn:uuid:"+conditions[1].ID, bundle.Entry[1].FullURL)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(bundle.Entry[0].Resource, &decoded))
	assert.Equal(t, "Condition", decoded["resourceType"])
}

func TestEmptyBundle(t *testing.T) {
	bundle, err := NewCollectionBundle(nil, recorded)
	require.NoError(t, err)
	assert.Equal(t, 0, *bundle.Total)
	assert.Empty(t, bundle.Entry)
}
