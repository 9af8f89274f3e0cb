package fhir

import (
	"time"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
)

const confidenceExtensionURL = "https://biosmart.example/fhir/StructureDefinition/extraction-confidence"

func NewRiskAssessment(a risk.Assessment, subject Reference) RiskAssessment {
	return RiskAssessment{
		ResourceType: "RiskAssessment",
		ID:           a.ID,
		Status:       "final",
		Subject:      subject,
		OccurrenceDT: formatDateTime(a.AssessedAt),
		Method:       &CodeableConcept{Text: "BioSmart linear vitals score"},
		Prediction: []RiskAssessmentPrediction{{
			Outcome:            &CodeableConcept{Text: "Clinical deterioration"},
			ProbabilityDecimal: a.Score / risk.MaxScore,
			QualitativeRisk:    qualitativeRisk(a.Tier),
		}},
		Note: []Annotation{{Text: basisText(a.Vitals.Age, a.Vitals.Glucose, a.Vitals.ConditionHistory)}},
	}
}

// qualitativeRisk maps tiers onto the HL7 risk-probability code system.
func qualitativeRisk(t risk.Tier) *CodeableConcept {
	var code, display string
	switch t {
	case risk.TierHigh:
		code, display = "high", "High likelihood"
	case risk.TierModerate:
		code, display = "moderate", "Moderate likelihood"
	default:
		code, display = "low", "Low likelihood"
	}
	return &CodeableConcept{
		Coding: []Coding{{System: RiskProbabilitySystem, Code: code, Display: display}},
		Text:   display,
	}
}

func NewCondition(e nlp.Entity, subject Reference, recorded time.Time) Condition {
	return Condition{
		ResourceType: "Condition",
		ID:           newID(),
		ClinicalStatus: CodeableConcept{
			Coding: []Coding{{System: ConditionClinicalSystem, Code: ConditionActive}},
		},
		VerificationStatus: CodeableConcept{
			Coding: []Coding{{System: ConditionVerificationSystem, Code: ConditionProvisional}},
		},
		Code: CodeableConcept{
			Coding: []Coding{{System: ICD10System, Code: e.Code, Display: e.Name}},
			Text:   e.Name,
		},
		Subject:      subject,
		RecordedDate: formatDateTime(recorded),
		Extension:    []Extension{{URL: confidenceExtensionURL, ValueDecimal: e.Confidence}},
	}
}

func NewConditions(entities []nlp.Entity, subject Reference, recorded time.Time) []Condition {
	out := make([]Condition, 0, len(entities))
	for _, e := range entities {
		out = append(out, NewCondition(e, subject, recorded))
	}
	return out
}
