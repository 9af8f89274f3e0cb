package clinical

import (
	"sort"

	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/biosmart-lab/informatics/pkg/terminology"
)

// PatientSummary is one row of the population view. RiskScore is a
// probability in [0,1].
type PatientSummary struct {
	PatientID string  `json:"patient_id"`
	Condition string  `json:"condition"`
	ICD10     string  `json:"icd10"`
	RiskScore float64 `json:"risk_score"`
	LastVisit string  `json:"last_visit"`
}

type StratifiedPatient struct {
	PatientSummary
	Tier        risk.Tier `json:"tier"`
	CodeDisplay string    `json:"code_display,omitempty"`
	Category    string    `json:"category,omitempty"`
}

type Stratification struct {
	Patients  []StratifiedPatient `json:"patients"`
	TierCount map[risk.Tier]int   `json:"tier_counts"`
	MeanScore float64             `json:"mean_score"`
}

// SampleCohort returns the fixed demonstration cohort.
func SampleCohort() []PatientSummary {
	return []PatientSummary{
		{PatientID: "P-001", Condition: "Hypertension", ICD10: "I10", RiskScore: 0.45, LastVisit: "2025-11-20"},
		{PatientID: "P-002", Condition: "Type 2 Diabetes", ICD10: "E11.9", RiskScore: 0.82, LastVisit: "2025-12-15"},
		{PatientID: "P-003", Condition: "Asthma", ICD10: "J45.9", RiskScore: 0.31, LastVisit: "2025-10-05"},
		{PatientID: "P-004", Condition: "Chronic Kidney Disease", ICD10: "N18.9", RiskScore: 0.94, LastVisit: "2025-12-27"},
	}
}

// Stratify orders patients by descending risk (ties by id) and tiers each
// one on the 0-100 scale. dict may be nil.
func Stratify(patients []PatientSummary, dict *terminology.Dictionary) Stratification {
	out := Stratification{
		Patients:  make([]StratifiedPatient, 0, len(patients)),
		TierCount: make(map[risk.Tier]int, 3),
	}
	for _, t := range risk.Tiers() {
		out.TierCount[t] = 0
	}

	var total float64
	for _, p := range patients {
		sp := StratifiedPatient{
			PatientSummary: p,
			Tier:           risk.TierFor(p.RiskScore * 100),
		}
		if dict != nil {
			if code, ok := dict.Lookup(p.ICD10); ok {
				sp.CodeDisplay = code.Display
				sp.Category = code.Category
			}
		}
		out.Patients = append(out.Patients, sp)
		out.TierCount[sp.Tier]++
		total += p.RiskScore
	}

	sort.SliceStable(out.Patients, func(i, j int) bool {
		a, b := out.Patients[i], out.Patients[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		return a.PatientID < b.PatientID
	})

	if len(patients) > 0 {
		out.MeanScore = total / float64(len(patients))
	}
	return out
}
