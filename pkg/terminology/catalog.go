package terminology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SystemICD10 = "ICD-10"
	SystemLOINC = "LOINC"
)

var ErrCodeNotFound = errors.New("code not found")

type Code struct {
	Code     string `yaml:"code" json:"code"`
	System   string `yaml:"system" json:"system"`
	Display  string `yaml:"display" json:"display"`
	Category string `yaml:"category" json:"category"`
}

type catalogFile struct {
	Codes []Code `yaml:"codes"`
}

// Dictionary is built once and only read afterwards.
type Dictionary struct {
	byCode   map[string]Code
	bySystem map[string][]Code
}

func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading terminology catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parsing terminology catalog: %w", err)
	}
	if len(file.Codes) == 0 {
		return nil, fmt.Errorf("terminology catalog empty")
	}
	return New(file.Codes)
}

func New(codes []Code) (*Dictionary, error) {
	d := &Dictionary{
		byCode:   make(map[string]Code, len(codes)),
		bySystem: make(map[string][]Code),
	}
	for _, c := range codes {
		c.Code = strings.TrimSpace(c.Code)
		if c.Code == "" {
			return nil, errors.New("terminology entry missing code")
		}
		if c.System != SystemICD10 && c.System != SystemLOINC {
			return nil, fmt.Errorf("code %s: unsupported system %q", c.Code, c.System)
		}
		key := strings.ToUpper(c.Code)
		if _, dup := d.byCode[key]; dup {
			return nil, fmt.Errorf("duplicate code %s", c.Code)
		}
		d.byCode[key] = c
		d.bySystem[c.System] = append(d.bySystem[c.System], c)
	}
	for system := range d.bySystem {
		list := d.bySystem[system]
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	}
	return d, nil
}

func (d *Dictionary) Lookup(code string) (Code, bool) {
	c, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Get is Lookup with ErrCodeNotFound on a miss.
func (d *Dictionary) Get(code string) (Code, error) {
	c, ok := d.Lookup(code)
	if !ok {
		return Code{}, fmt.Errorf("%s: %w", code, ErrCodeNotFound)
	}
	return c, nil
}

// BySystem returns a copy; an empty system lists every code.
func (d *Dictionary) BySystem(system string) []Code {
	if system == "" {
		var all []Code
		for _, s := range d.Systems() {
			all = append(all, d.bySystem[s]...)
		}
		return all
	}
	for s, list := range d.bySystem {
		if strings.EqualFold(s, system) {
			return append([]Code(nil), list...)
		}
	}
	return []Code{}
}

func (d *Dictionary) Systems() []string {
	systems := make([]string, 0, len(d.bySystem))
	for s := range d.bySystem {
		systems = append(systems, s)
	}
	sort.Strings(systems)
	return systems
}

func (d *Dictionary) Len() int {
	return len(d.byCode)
}

func Default() *Dictionary {
	d, err := New(defaultCodes())
	if err != nil {
		panic(err)
	}
	return d
}

func defaultCodes() []Code {
	return []Code{
		{Code: "I10", System: SystemICD10, Display: "Essential (primary) hypertension", Category: "Circulatory"},
		{Code: "I50.9", System: SystemICD10, Display: "Heart failure, unspecified", Category: "Circulatory"},
		{Code: "E11.9", System: SystemICD10, Display: "Type 2 diabetes mellitus without complications", Category: "Endocrine"},
		{Code: "J45.9", System: SystemICD10, Display: "Asthma, unspecified", Category: "Respiratory"},
		{Code: "N18.9", System: SystemICD10, Display: "Chronic kidney disease, unspecified", Category: "Genitourinary"},
		{Code: "2339-0", System: SystemLOINC, Display: "Glucose [Mass/volume] in Blood", Category: "Chemistry"},
		{Code: "4548-4", System: SystemLOINC, Display: "Hemoglobin A1c/Hemoglobin.total in Blood", Category: "Chemistry"},
		{Code: "2160-0", System: SystemLOINC, Display: "Creatinine [Mass/volume] in Serum or Plasma", Category: "Chemistry"},
		{Code: "85354-9", System: SystemLOINC, Display: "Blood pressure panel with all children optional", Category: "Vital signs"},
	}
}
