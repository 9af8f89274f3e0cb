package informatics

import (
	"context"
	"time"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindAssessment = "risk_assessment"
	KindExtraction = "entity_extraction"

	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// AssessmentLog is the audit row for one scoring or extraction call.
type AssessmentLog struct {
	ID        uuid.UUID         `gorm:"primaryKey;column:id" json:"id"`
	Kind      string            `gorm:"column:kind;index" json:"kind"`
	Score     *float64          `gorm:"column:score" json:"score,omitempty"`
	Tier      string            `gorm:"column:tier" json:"tier,omitempty"`
	NoteKey   string            `gorm:"column:note_key" json:"note_key,omitempty"`
	Input     datatypes.JSONMap `gorm:"column:input" json:"input"`
	Result    datatypes.JSONMap `gorm:"column:result" json:"result"`
	CreatedAt time.Time         `gorm:"column:created_at;index" json:"created_at"`
}

func (AssessmentLog) TableName() string {
	return "assessment_logs"
}

// Repository is the gorm-backed AuditStore.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&AssessmentLog{})
}

func (r *Repository) RecordAssessment(ctx context.Context, a risk.Assessment) error {
	row := assessmentRow(a)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) RecordExtraction(ctx context.Context, key string, entities []nlp.Entity, at time.Time) error {
	row := extractionRow(key, entities, at)
	return r.db.WithContext(ctx).Create(&row).Error
}

func assessmentRow(a risk.Assessment) AssessmentLog {
	score := a.Score
	id, err := uuid.Parse(a.ID)
	if err != nil {
		id = uuid.New()
	}
	return AssessmentLog{
		ID:    id,
		Kind:  KindAssessment,
		Score: &score,
		Tier:  string(a.Tier),
		Input: datatypes.JSONMap{
			"age":        a.Vitals.Age,
			"glucose":    a.Vitals.Glucose,
			"conditions": a.Vitals.ConditionHistory,
		},
		Result: datatypes.JSONMap{
			"score": a.Score,
			"tier":  string(a.Tier),
		},
		CreatedAt: a.AssessedAt.UTC(),
	}
}

// extractionRow keeps codes and the note fingerprint only. Matched terms are
// fragments of the note and stay out too.
func extractionRow(key string, entities []nlp.Entity, at time.Time) AssessmentLog {
	codes := make([]string, 0, len(entities))
	for _, e := range entities {
		codes = append(codes, e.Code)
	}
	return AssessmentLog{
		ID:      uuid.New(),
		Kind:    KindExtraction,
		NoteKey: key,
		Input:   datatypes.JSONMap{"note_key": key},
		Result: datatypes.JSONMap{
			"codes": codes,
			"count": len(codes),
		},
		CreatedAt: at.UTC(),
	}
}

// Recent returns the newest rows first. limit is clamped to [1,500], default 50.
func (r *Repository) Recent(ctx context.Context, limit int) ([]AssessmentLog, error) {
	limit = clampLimit(limit)
	var logs []AssessmentLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxRecentLimit:
		return maxRecentLimit
	default:
		return limit
	}
}
