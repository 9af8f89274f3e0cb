package nlp

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Entity is one coded finding in a clinical note.
type Entity struct {
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	System     string  `json:"system"`
	Confidence float64 `json:"confidence"`
	Term       string  `json:"term"`
}

type compiledRule struct {
	rule  Rule
	terms []string
}

// Tagger is immutable after construction and safe for concurrent use.
type Tagger struct {
	rules []compiledRule
}

func NewTagger(cfg RulesConfig) (*Tagger, error) {
	compiled := make([]compiledRule, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		if strings.TrimSpace(rule.Code) == "" {
			return nil, fmt.Errorf("rule %q: missing code", rule.Name)
		}
		if rule.System == "" {
			rule.System = SystemICD10
		}
		var terms []string
		for _, term := range rule.Terms {
			if normalized := Normalize(term); normalized != "" {
				terms = append(terms, normalized)
			}
		}
		if len(terms) == 0 {
			return nil, fmt.Errorf("rule %q: no terms", rule.Name)
		}
		compiled = append(compiled, compiledRule{rule: rule, terms: terms})
	}
	if len(compiled) == 0 {
		return nil, errors.New("tagger requires at least one rule")
	}
	return &Tagger{rules: compiled}, nil
}

// Normalize folds a note into the form terms are matched against:
// NFKC, lower case, control characters dropped, whitespace collapsed.
func Normalize(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, normed)
	return strings.ToLower(strings.Join(strings.Fields(normed), " "))
}

// Entities yields one entity per matching rule, in rule order. The sequence
// holds no state and can be ranged any number of times.
func (t *Tagger) Entities(note string) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		text := Normalize(note)
		if text == "" {
			return
		}
		for _, cr := range t.rules {
			term, ok := firstMatch(text, cr.terms)
			if !ok {
				continue
			}
			entity := Entity{
				Name:       cr.rule.Name,
				Code:       cr.rule.Code,
				System:     cr.rule.System,
				Confidence: cr.rule.Confidence,
				Term:       term,
			}
			if !yield(entity) {
				return
			}
		}
	}
}

// Extract collects Entities; the result is empty, never nil, on no match.
func (t *Tagger) Extract(note string) []Entity {
	out := slices.Collect(t.Entities(note))
	if out == nil {
		return []Entity{}
	}
	return out
}

func (t *Tagger) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, cr := range t.rules {
		out[i] = cr.rule
	}
	return out
}

func firstMatch(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}
