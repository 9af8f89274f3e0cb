package risk

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AgeWeight       = 0.5
	ConditionWeight = 15.0
	GlucoseCutoff   = 180
	GlucoseBonus    = 20.0
	MinScore        = 0.0
	MaxScore        = 100.0
)

// VitalsRecord is the form input for a single scoring call.
type VitalsRecord struct {
	Age              int      `json:"age"`
	Glucose          int      `json:"glucose"`
	ConditionHistory []string `json:"conditions"`
}

type Assessment struct {
	ID         string       `json:"id"`
	Score      float64      `json:"score"`
	Tier       Tier         `json:"tier"`
	Vitals     VitalsRecord `json:"vitals"`
	AssessedAt time.Time    `json:"assessed_at"`
}

// Score applies the fixed linear formula:
//
//	age*0.5 + distinct conditions*15 (+20 when glucose > 180)
//
// clamped to [0,100]. It never fails; range checks live in Validate.
func Score(age, glucose int, conditions []string) float64 {
	score := float64(age)*AgeWeight + float64(CountConditions(conditions))*ConditionWeight
	if glucose > GlucoseCutoff {
		score += GlucoseBonus
	}
	return clamp(score)
}

func ScoreRecord(rec VitalsRecord) float64 {
	return Score(rec.Age, rec.Glucose, rec.ConditionHistory)
}

// CountConditions counts distinct non-blank tags, case-insensitively.
func CountConditions(conditions []string) int {
	seen := make(map[string]struct{}, len(conditions))
	for _, c := range conditions {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

// Assess validates the record and returns a stamped assessment.
func Assess(rec VitalsRecord, now time.Time) (Assessment, error) {
	if err := Validate(rec); err != nil {
		return Assessment{}, err
	}
	score := ScoreRecord(rec)
	return Assessment{
		ID:         uuid.New().String(),
		Score:      score,
		Tier:       TierFor(score),
		Vitals:     rec,
		AssessedAt: now.UTC(),
	}, nil
}

func clamp(score float64) float64 {
	switch {
	case score > MaxScore:
		return MaxScore
	case score < MinScore:
		return MinScore
	default:
		return score
	}
}
