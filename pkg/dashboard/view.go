package dashboard

import (
	"github.com/biosmart-lab/informatics/pkg/clinical"
	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/biosmart-lab/informatics/pkg/terminology"
)

type View struct {
	Language  Language  `json:"language"`
	Direction string    `json:"direction"`
	Header    Header    `json:"header"`
	Sidebar   Sidebar   `json:"sidebar"`
	Metrics   []Metric  `json:"metrics"`
	Tabs      []NavItem `json:"tabs"`
	Panel     Panel     `json:"panel"`
}

type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Badge    string `json:"badge"`
	Status   string `json:"status"`
}

type Sidebar struct {
	Menu     []NavItem `json:"menu"`
	Evidence string    `json:"evidence"`
	Caption  string    `json:"caption"`
}

type NavItem struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// Panel is the body of the active tab; only the fields for Kind are set.
type Panel struct {
	Kind    Tab      `json:"kind"`
	Heading string   `json:"heading"`
	Lines   []string `json:"lines,omitempty"`

	Hint     string      `json:"hint,omitempty"`
	Note     string      `json:"note,omitempty"`
	Entities []EntityRow `json:"entities,omitempty"`
	Warning  string      `json:"warning,omitempty"`

	Risk       *RiskCard                `json:"risk,omitempty"`
	Population *clinical.Stratification `json:"population,omitempty"`
	Reference  string                   `json:"reference,omitempty"`
}

type EntityRow struct {
	nlp.Entity
	Display string `json:"display,omitempty"`
}

type RiskCard struct {
	Heading   string    `json:"heading"`
	Score     float64   `json:"score"`
	Tier      risk.Tier `json:"tier"`
	TierLabel string    `json:"tier_label"`
}

// Render builds the view for s. It reads s only; dict may be nil.
func Render(s State, dict *terminology.Dictionary) View {
	s = s.Normalize()
	lang := s.Language

	v := View{
		Language:  lang,
		Direction: Direction(lang),
		Header: Header{
			Title:    T(lang, "title"),
			Subtitle: T(lang, "subtitle"),
			Badge:    T(lang, "badge"),
			Status:   T(lang, "status"),
		},
		Sidebar: Sidebar{
			Evidence: T(lang, "sidebar.evidence"),
			Caption:  T(lang, "sidebar.caption"),
		},
		Metrics: []Metric{
			{Label: T(lang, "metric.interop"), Value: "HL7 FHIR v4"},
			{Label: T(lang, "metric.accuracy"), Value: "96.4%", Delta: "+1.2%"},
			{Label: T(lang, "metric.hipaa"), Value: T(lang, "metric.hipaa.value")},
			{Label: T(lang, "metric.nodes"), Value: "128"},
		},
	}

	for _, sec := range []Section{SectionOverview, SectionEHR, SectionSecurity} {
		v.Sidebar.Menu = append(v.Sidebar.Menu, NavItem{
			ID:     string(sec),
			Label:  T(lang, "menu."+string(sec)),
			Active: sec == s.Section,
		})
	}
	for _, tab := range []Tab{TabDIKW, TabNLP, TabPopulation} {
		v.Tabs = append(v.Tabs, NavItem{
			ID:     string(tab),
			Label:  T(lang, "tab."+string(tab)),
			Active: tab == s.Tab,
		})
	}

	switch s.Tab {
	case TabNLP:
		v.Panel = nlpPanel(s, dict)
	case TabPopulation:
		v.Panel = populationPanel(s, dict)
	default:
		v.Panel = Panel{
			Kind:    TabDIKW,
			Heading: T(lang, "dikw.heading"),
			Lines: []string{
				T(lang, "dikw.intro"),
				T(lang, "dikw.data"),
				T(lang, "dikw.information"),
				T(lang, "dikw.knowledge"),
				T(lang, "dikw.wisdom"),
			},
		}
	}
	return v
}

func nlpPanel(s State, dict *terminology.Dictionary) Panel {
	p := Panel{
		Kind:    TabNLP,
		Heading: T(s.Language, "nlp.heading"),
		Hint:    T(s.Language, "nlp.hint"),
		Note:    s.Note,
	}
	if !s.Extracted {
		return p
	}
	if len(s.Entities) == 0 {
		p.Warning = T(s.Language, "nlp.empty")
		return p
	}
	p.Lines = []string{T(s.Language, "nlp.results")}
	for _, e := range s.Entities {
		row := EntityRow{Entity: e}
		if dict != nil {
			if code, ok := dict.Lookup(e.Code); ok {
				row.Display = code.Display
			}
		}
		p.Entities = append(p.Entities, row)
	}
	return p
}

func populationPanel(s State, dict *terminology.Dictionary) Panel {
	strat := clinical.Stratify(clinical.SampleCohort(), dict)
	p := Panel{
		Kind:       TabPopulation,
		Heading:    T(s.Language, "population.heading"),
		Lines:      []string{T(s.Language, "population.chart")},
		Population: &strat,
		Reference:  T(s.Language, "population.reference"),
	}
	if s.Assessment != nil {
		p.Risk = &RiskCard{
			Heading:   T(s.Language, "risk.heading"),
			Score:     s.Assessment.Score,
			Tier:      s.Assessment.Tier,
			TierLabel: T(s.Language, "tier."+string(s.Assessment.Tier)),
		}
	}
	return p
}
