package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/biosmart-lab/informatics/pkg/terminology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type localEngine struct {
	tagger *nlp.Tagger
}

func (e localEngine) Assess(_ context.Context, rec risk.VitalsRecord) (risk.Assessment, error) {
	return risk.Assess(rec, time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC))
}

func (e localEngine) Tag(_ context.Context, note string) ([]nlp.Entity, error) {
	return e.tagger.Extract(note), nil
}

func newEngine(t *testing.T) localEngine {
	t.Helper()
	tagger, err := nlp.NewTagger(nlp.DefaultRules())
	require.NoError(t, err)
	return localEngine{tagger: tagger}
}

func TestReduceNavigation(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	s := InitialState()

	s, err := Reduce(ctx, engine, s, Action{Type: ActionSetLanguage, Value: "ar"})
	require.NoError(t, err)
	assert.Equal(t, LanguageArabic, s.Language)

	s, err = Reduce(ctx, engine, s, Action{Type: ActionSelectSection, Value: "security"})
	require.NoError(t, err)
	assert.Equal(t, SectionSecurity, s.Section)

	s, err = Reduce(ctx, engine, s, Action{Type: ActionSelectTab, Value: "population"})
	require.NoError(t, err)
	assert.Equal(t, TabPopulation, s.Tab)
}

func TestReduceRejectsInvalidActions(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	s := InitialState()

	got, err := Reduce(ctx, engine, s, Action{Type: "teleport"})
	assert.True(t, errors.Is(err, ErrUnknownAction))
	assert.Equal(t, s, got)

	got, err = Reduce(ctx, engine, s, Action{Type: ActionSetLanguage, Value: "fr"})
	assert.True(t, errors.Is(err, ErrInvalidValue))
	assert.Equal(t, s, got)

	got, err = Reduce(ctx, engine, s, Action{Type: ActionSubmitVitals})
	assert.True(t, errors.Is(err, ErrInvalidValue))
	assert.Equal(t, s, got)

	got, err = Reduce(ctx, engine, s, Action{Type: ActionSubmitVitals, Vitals: &risk.VitalsRecord{Age: 200, Glucose: 100}})
	assert.True(t, risk.IsValidationError(err))
	assert.Equal(t, s, got)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	engine := newEngine(t)
	s := InitialState()
	before := s

	_, err := Reduce(context.Background(), engine, s, Action{Type: ActionSubmitNote, Note: "heart"})
	require.NoError(t, err)
	assert.Equal(t, before, s)
}

func TestSubmitNoteAndRender(t *testing.T) {
	engine := newEngine(t)
	s, err := Reduce(context.Background(), engine, InitialState(), Action{Type: ActionSubmitNote, Note: "patient has diabetes and heart failure"})
	require.NoError(t, err)
	assert.Equal(t, TabNLP, s.Tab)
	require.Len(t, s.Entities, 2)

	v := Render(s, terminology.Default())
	assert.Equal(t, TabNLP, v.Panel.Kind)
	require.Len(t, v.Panel.Entities, 2)
	assert.Equal(t, "Type 2 diabetes mellitus without complications", v.Panel.Entities[0].Display)
	assert.Empty(t, v.Panel.Warning)
}

func TestSubmitEmptyNoteShowsWarning(t *testing.T) {
	engine := newEngine(t)
	s, err := Reduce(context.Background(), engine, State{Language: LanguageArabic}, Action{Type: ActionSubmitNote, Note: ""})
	require.NoError(t, err)

	v := Render(s, nil)
	assert.Equal(t, "rtl", v.Direction)
	assert.Equal(t, T(LanguageArabic, "nlp.empty"), v.Panel.Warning)
	assert.Empty(t, v.Panel.Entities)
}

func TestSubmitVitalsRendersRiskCard(t *testing.T) {
	engine := newEngine(t)
	s, err := Reduce(context.Background(), engine, InitialState(), Action{
		Type:   ActionSubmitVitals,
		Vitals: &risk.VitalsRecord{Age: 60, Glucose: 200},
	})
	require.NoError(t, err)

	v := Render(s, terminology.Default())
	require.NotNil(t, v.Panel.Risk)
	assert.Equal(t, 50.0, v.Panel.Risk.Score)
	assert.Equal(t, "Moderate risk", v.Panel.Risk.TierLabel)
	require.NotNil(t, v.Panel.Population)
	assert.Len(t, v.Panel.Population.Patients, 4)
}

func TestRenderDefaultsAndNavigation(t *testing.T) {
	v := Render(State{}, nil)
	assert.Equal(t, LanguageEnglish, v.Language)
	assert.Equal(t, TabDIKW, v.Panel.Kind)
	assert.Len(t, v.Panel.Lines, 5)
	assert.Len(t, v.Metrics, 4)
	require.Len(t, v.Sidebar.Menu, 3)
	assert.True(t, v.Sidebar.Menu[0].Active)
	assert.False(t, v.Sidebar.Menu[1].Active)
}

func TestTranslationsCoverEnglishKeys(t *testing.T) {
	for key := range translations[LanguageEnglish] {
		_, ok := translations[LanguageArabic][key]
		assert.True(t, ok, "missing arabic string %s", key)
	}
	assert.Equal(t, "no.such.key", T(LanguageArabic, "no.such.key"))
}

func TestStateValidate(t *testing.T) {
	require.NoError(t, InitialState().Validate())
	require.NoError(t, State{}.Normalize().Validate())
	require.NoError(t, State{Language: LanguageArabic, Section: SectionSecurity, Tab: TabPopulation}.Validate())

	for _, s := range []State{
		{Language: "fr", Section: SectionOverview, Tab: TabDIKW},
		{Language: LanguageEnglish, Section: "billing", Tab: TabDIKW},
		{Language: LanguageEnglish, Section: SectionOverview, Tab: "bogus"},
		{},
	} {
		err := s.Validate()
		assert.ErrorIs(t, err, ErrInvalidValue, "%+v", s)
	}
}

func TestReduceRejectsInvalidState(t *testing.T) {
	bad := State{Language: "fr", Section: "billing", Tab: "bogus"}

	got, err := Reduce(context.Background(), newEngine(t), bad, Action{Type: ActionSelectTab, Value: string(TabNLP)})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, bad, got)
}
