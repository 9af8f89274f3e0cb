package phi

import (
	"fmt"
	"regexp"
	"sort"
)

// Span locates one match in the scanned text. The matched value itself is
// never carried.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

type Finding struct {
	Detected bool     `json:"detected"`
	Types    []string `json:"types,omitempty"`
	Spans    []Span   `json:"spans,omitempty"`
}

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Detector flags and masks identifiers in free-text notes. A nil Detector
// finds nothing and redacts nothing.
type Detector struct {
	rules []compiledRule
}

func NewDetector(cfg RulesConfig) (*Detector, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("phi rule %q: %w", rule.Name, err)
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Detector{rules: compiled}, nil
}

func (d *Detector) Scan(text string) Finding {
	if d == nil || text == "" {
		return Finding{}
	}

	var spans []Span
	types := make(map[string]struct{})
	for _, cr := range d.rules {
		for _, m := range cr.re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{Start: m[0], End: m[1], Type: cr.rule.Type})
			types[cr.rule.Type] = struct{}{}
		}
	}
	if len(spans) == 0 {
		return Finding{}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	typeList := make([]string, 0, len(types))
	for t := range types {
		typeList = append(typeList, t)
	}
	sort.Strings(typeList)

	return Finding{Detected: true, Types: typeList, Spans: spans}
}

// Redact applies every rule's mask in rule order.
func (d *Detector) Redact(text string) string {
	if d == nil {
		return text
	}
	for _, cr := range d.rules {
		text = cr.re.ReplaceAllLiteralString(text, cr.rule.Mask)
	}
	return text
}
