package risk

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreReferenceValues(t *testing.T) {
	assert.Equal(t, 30.0, Score(60, 120, nil))
	assert.Equal(t, 30.0, Score(60, 120, []string{}))
	assert.Equal(t, 60.0, Score(60, 120, []string{"a", "b"}))
	assert.Equal(t, 50.0, Score(60, 200, []string{}))
}

func TestScoreGlucoseThresholdIsStrict(t *testing.T) {
	assert.Equal(t, 30.0, Score(60, 180, nil))
	assert.Equal(t, 50.0, Score(60, 181, nil))
}

func TestScoreClampsToBounds(t *testing.T) {
	assert.Equal(t, MaxScore, Score(110, 400, []string{"a", "b", "c", "d"}))
	assert.Equal(t, MinScore, Score(-50, 100, nil))
}

func TestScoreStaysInRangeOverDomain(t *testing.T) {
	tags := []string{"hypertension", "diabetes", "asthma", "ckd", "copd", "obesity"}
	for age := MinAge; age <= MaxAge; age += 7 {
		for glucose := MinGlucose; glucose <= MaxGlucose; glucose += 33 {
			for n := 0; n <= len(tags); n++ {
				s := Score(age, glucose, tags[:n])
				if s < MinScore || s > MaxScore {
					t.Fatalf("score %v out of range for age=%d glucose=%d conditions=%d", s, age, glucose, n)
				}
			}
		}
	}
}

func TestConditionTagsAreASet(t *testing.T) {
	assert.Equal(t, 2, CountConditions([]string{"Asthma", "asthma ", "", "  ", "CKD"}))
	assert.Equal(t, Score(60, 120, []string{"a", "b"}), Score(60, 120, []string{"a", "A", "b", " "}))
}

func TestAssessValidatesInput(t *testing.T) {
	now := time.Date(2025, 12, 27, 9, 30, 0, 0, time.UTC)

	a, err := Assess(VitalsRecord{Age: 60, Glucose: 200, ConditionHistory: []string{"asthma"}}, now)
	require.NoError(t, err)
	assert.Equal(t, 65.0, a.Score)
	assert.Equal(t, TierModerate, a.Tier)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, now, a.AssessedAt)

	_, err = Assess(VitalsRecord{Age: 0, Glucose: 100}, now)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.True(t, errors.Is(err, ErrAgeOutOfRange))

	_, err = Assess(VitalsRecord{Age: 40, Glucose: 401}, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGlucoseOutOfRange))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierLow, TierFor(0))
	assert.Equal(t, TierLow, TierFor(39.5))
	assert.Equal(t, TierModerate, TierFor(40))
	assert.Equal(t, TierHigh, TierFor(70))
	assert.Equal(t, TierHigh, TierFor(100))
	assert.False(t, Tier("critical").Valid())
}
