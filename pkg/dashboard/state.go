package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

type Section string

const (
	SectionOverview Section = "overview"
	SectionEHR      Section = "ehr-integration"
	SectionSecurity Section = "security"
)

type Tab string

const (
	TabDIKW       Tab = "dikw"
	TabNLP        Tab = "nlp"
	TabPopulation Tab = "population"
)

type ActionType string

const (
	ActionSetLanguage   ActionType = "set_language"
	ActionSelectSection ActionType = "select_section"
	ActionSelectTab     ActionType = "select_tab"
	ActionSubmitNote    ActionType = "submit_note"
	ActionSubmitVitals  ActionType = "submit_vitals"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidValue  = errors.New("invalid action value")
)

// State is the whole UI state. It is passed by value from the client on
// each request and returned updated; the server keeps none of it.
type State struct {
	Language   Language           `json:"language"`
	Section    Section            `json:"section"`
	Tab        Tab                `json:"tab"`
	Note       string             `json:"note,omitempty"`
	Vitals     *risk.VitalsRecord `json:"vitals,omitempty"`
	Assessment *risk.Assessment   `json:"assessment,omitempty"`
	Entities   []nlp.Entity       `json:"entities,omitempty"`
	Extracted  bool               `json:"extracted,omitempty"`
}

type Action struct {
	Type   ActionType         `json:"type"`
	Value  string             `json:"value,omitempty"`
	Note   string             `json:"note,omitempty"`
	Vitals *risk.VitalsRecord `json:"vitals,omitempty"`
}

// Engine runs the clinical computations behind the submit actions.
type Engine interface {
	Assess(ctx context.Context, rec risk.VitalsRecord) (risk.Assessment, error)
	Tag(ctx context.Context, note string) ([]nlp.Entity, error)
}

const defaultNote = "The patient presents with symptoms of type 2 diabetes and chronic heart issues."

func InitialState() State {
	return State{
		Language: LanguageEnglish,
		Section:  SectionOverview,
		Tab:      TabDIKW,
		Note:     defaultNote,
	}
}

// Normalize fills zero fields with their defaults.
func (s State) Normalize() State {
	def := InitialState()
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.Section == "" {
		s.Section = def.Section
	}
	if s.Tab == "" {
		s.Tab = def.Tab
	}
	return s
}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

func (s Section) Valid() bool {
	return s == SectionOverview || s == SectionEHR || s == SectionSecurity
}

func (t Tab) Valid() bool {
	return t == TabDIKW || t == TabNLP || t == TabPopulation
}

// Validate checks a normalized state. Blank fields are errors here; call
// Normalize first to default them.
func (s State) Validate() error {
	if !s.Language.Valid() {
		return fmt.Errorf("language %q: %w", s.Language, ErrInvalidValue)
	}
	if !s.Section.Valid() {
		return fmt.Errorf("section %q: %w", s.Section, ErrInvalidValue)
	}
	if !s.Tab.Valid() {
		return fmt.Errorf("tab %q: %w", s.Tab, ErrInvalidValue)
	}
	return nil
}

// Reduce applies one action. On error the input state is returned unchanged.
func Reduce(ctx context.Context, engine Engine, s State, a Action) (State, error) {
	next := s.Normalize()
	if err := next.Validate(); err != nil {
		return s, err
	}
	switch a.Type {
	case ActionSetLanguage:
		lang := Language(a.Value)
		if !lang.Valid() {
			return s, fmt.Errorf("language %q: %w", a.Value, ErrInvalidValue)
		}
		next.Language = lang
	case ActionSelectSection:
		sec := Section(a.Value)
		if !sec.Valid() {
			return s, fmt.Errorf("section %q: %w", a.Value, ErrInvalidValue)
		}
		next.Section = sec
	case ActionSelectTab:
		tab := Tab(a.Value)
		if !tab.Valid() {
			return s, fmt.Errorf("tab %q: %w", a.Value, ErrInvalidValue)
		}
		next.Tab = tab
	case ActionSubmitNote:
		entities, err := engine.Tag(ctx, a.Note)
		if err != nil {
			return s, err
		}
		next.Tab = TabNLP
		next.Note = a.Note
		next.Entities = entities
		next.Extracted = true
	case ActionSubmitVitals:
		if a.Vitals == nil {
			return s, fmt.Errorf("vitals missing: %w", ErrInvalidValue)
		}
		assessment, err := engine.Assess(ctx, *a.Vitals)
		if err != nil {
			return s, err
		}
		vitals := *a.Vitals
		next.Tab = TabPopulation
		next.Vitals = &vitals
		next.Assessment = &assessment
	default:
		return s, fmt.Errorf("%q: %w", a.Type, ErrUnknownAction)
	}
	return next, nil
}
