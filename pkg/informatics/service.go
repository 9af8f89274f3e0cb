package informatics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/common/models"
	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/observability/metrics"
	"github.com/biosmart-lab/informatics/pkg/phi"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/biosmart-lab/informatics/pkg/terminology"
)

const (
	EventSource       = "informatics-service"
	WarningNoEntities = "no entities found"
)

// ErrAuditDisabled is returned by RecentAssessments when no audit store is configured.
var ErrAuditDisabled = errors.New("audit log disabled")

// AuditStore persists scoring and extraction results.
type AuditStore interface {
	RecordAssessment(ctx context.Context, a risk.Assessment) error
	RecordExtraction(ctx context.Context, key string, entities []nlp.Entity, at time.Time) error
	Recent(ctx context.Context, limit int) ([]AssessmentLog, error)
}

// ResultCache memoizes extraction results by note fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]nlp.Entity, bool, error)
	Set(ctx context.Context, key string, entities []nlp.Entity) error
}

// EventPublisher is satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// ExtractionResult carries PHI categories found in the note, never the values.
type ExtractionResult struct {
	Entities []nlp.Entity `json:"entities"`
	Cached   bool         `json:"cached"`
	Warning  string       `json:"warning,omitempty"`
	PHITypes []string     `json:"phi_types,omitempty"`
}

// Options wires the optional collaborators. Nil fields are disabled.
type Options struct {
	Tagger     *nlp.Tagger
	Dictionary *terminology.Dictionary
	PHI        *phi.Detector
	Metrics    *metrics.Recorder
	Audit      AuditStore
	Cache      ResultCache
	Publisher  EventPublisher
	Now        func() time.Time
}

type Service struct {
	tagger    *nlp.Tagger
	dict      *terminology.Dictionary
	phi       *phi.Detector
	metrics   *metrics.Recorder
	audit     AuditStore
	cache     ResultCache
	publisher EventPublisher
	now       func() time.Time
}

func NewService(opts Options) (*Service, error) {
	tagger := opts.Tagger
	if tagger == nil {
		var err error
		tagger, err = nlp.NewTagger(nlp.DefaultRules())
		if err != nil {
			return nil, fmt.Errorf("failed to build default tagger: %w", err)
		}
	}
	dict := opts.Dictionary
	if dict == nil {
		dict = terminology.Default()
	}
	detector := opts.PHI
	if detector == nil {
		var err error
		detector, err = phi.NewDetector(phi.DefaultRules())
		if err != nil {
			return nil, fmt.Errorf("failed to build default phi detector: %w", err)
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		tagger:    tagger,
		dict:      dict,
		phi:       detector,
		metrics:   opts.Metrics,
		audit:     opts.Audit,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		now:       now,
	}, nil
}

func (s *Service) Dictionary() *terminology.Dictionary {
	return s.dict
}

func (s *Service) ScoreRisk(ctx context.Context, rec risk.VitalsRecord) (risk.Assessment, error) {
	assessment, err := risk.Assess(rec, s.now())
	if err != nil {
		return risk.Assessment{}, err
	}
	s.metrics.ObserveAssessment(string(assessment.Tier))

	log := logger.Component("risk").WithFields(map[string]interface{}{
		"assessment_id": assessment.ID,
		"score":         assessment.Score,
		"tier":          assessment.Tier,
	})
	log.Debug("Risk scored")

	if s.audit != nil {
		if err := s.audit.RecordAssessment(ctx, assessment); err != nil {
			log.WithError(err).Warn("Failed to record assessment")
		}
	}

	s.publish(ctx, models.EventRiskScored, map[string]interface{}{
		"assessment_id": assessment.ID,
		"score":         assessment.Score,
		"tier":          string(assessment.Tier),
	})

	return assessment, nil
}

// ExtractEntities never fails on cache, audit or publish errors; those are logged.
func (s *Service) ExtractEntities(ctx context.Context, note string) (ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, err
	}
	key := NoteKey(note)
	log := logger.Component("nlp").WithField("note_key", key)
	finding := s.phi.Scan(note)
	if finding.Detected {
		log.WithField("phi_types", finding.Types).Info("Note contains identifiers")
	}

	if s.cache != nil {
		entities, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.ObserveCacheLookup("error")
			log.WithError(err).Warn("Extraction cache lookup failed")
		case ok:
			s.metrics.ObserveCacheLookup("hit")
			return newResult(entities, true, finding), nil
		default:
			s.metrics.ObserveCacheLookup("miss")
		}
	}

	entities := s.tagger.Extract(note)
	codes := make([]string, 0, len(entities))
	for _, e := range entities {
		codes = append(codes, e.Code)
	}
	s.metrics.ObserveExtraction(codes)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entities); err != nil {
			log.WithError(err).Warn("Failed to cache extraction")
		}
	}
	if s.audit != nil {
		if err := s.audit.RecordExtraction(ctx, key, entities, s.now()); err != nil {
			log.WithError(err).Warn("Failed to record extraction")
		}
	}

	s.publish(ctx, models.EventEntitiesExtracted, map[string]interface{}{
		"note_key": key,
		"codes":    codes,
	})

	return newResult(entities, false, finding), nil
}

// Assess and Tag let the dashboard reducer drive the service.
func (s *Service) Assess(ctx context.Context, rec risk.VitalsRecord) (risk.Assessment, error) {
	return s.ScoreRisk(ctx, rec)
}

func (s *Service) Tag(ctx context.Context, note string) ([]nlp.Entity, error) {
	result, err := s.ExtractEntities(ctx, note)
	if err != nil {
		return nil, err
	}
	return result.Entities, nil
}

// HandleNoteEvent runs extraction for note.submitted events and ignores the rest.
func (s *Service) HandleNoteEvent(ctx context.Context, event models.Event) error {
	if event.Type != models.EventNoteSubmitted {
		return nil
	}
	note, ok := event.Data["note"].(string)
	if !ok {
		logger.Component("nlp").WithField("event_id", event.ID).Warn("note event without note text")
		return nil
	}
	result, err := s.ExtractEntities(ctx, note)
	if err != nil {
		return fmt.Errorf("extract entities for event %s: %w", event.ID, err)
	}
	logger.Component("nlp").WithFields(map[string]interface{}{
		"event_id": event.ID,
		"note":     s.phi.Redact(note),
		"entities": len(result.Entities),
	}).Debug("Note event processed")
	return nil
}

func (s *Service) RecentAssessments(ctx context.Context, limit int) ([]AssessmentLog, error) {
	if s.audit == nil {
		return nil, ErrAuditDisabled
	}
	return s.audit.Recent(ctx, limit)
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, eventType, EventSource, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish event")
	}
}

func newResult(entities []nlp.Entity, cached bool, finding phi.Finding) ExtractionResult {
	if entities == nil {
		entities = []nlp.Entity{}
	}
	result := ExtractionResult{Entities: entities, Cached: cached, PHITypes: finding.Types}
	if len(entities) == 0 {
		result.Warning = WarningNoEntities
	}
	return result
}

// NoteKey fingerprints the normalized note text.
func NoteKey(note string) string {
	sum := sha256.Sum256([]byte(nlp.Normalize(note)))
	return hex.EncodeToString(sum[:])
}
