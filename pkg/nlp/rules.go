package nlp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const SystemICD10 = "ICD-10"

// Rule maps a set of bilingual keyword variants to one coded entity.
type Rule struct {
	Name       string   `yaml:"name" json:"name"`
	Code       string   `yaml:"code" json:"code"`
	System     string   `yaml:"system" json:"system"`
	Confidence float64  `yaml:"confidence" json:"confidence"`
	Terms      []string `yaml:"terms" json:"terms"`
}

type RulesConfig struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

func LoadRules(path string) (RulesConfig, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return RulesConfig{}, fmt.Errorf("reading nlp rules: %w", err)
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return RulesConfig{}, fmt.Errorf("parsing nlp rules: %w", err)
	}

	if len(cfg.Rules) == 0 {
		return RulesConfig{}, errors.New("no nlp rules configured")
	}

	return cfg, nil
}

func DefaultRules() RulesConfig {
	return RulesConfig{Rules: []Rule{
		{Name: "Diabetes Mellitus", Code: "E11.9", System: SystemICD10, Confidence: 0.94, Terms: []string{"diabetes", "سكري"}},
		{Name: "Heart Failure", Code: "I50.9", System: SystemICD10, Confidence: 0.91, Terms: []string{"heart", "قلب"}},
		{Name: "Essential Hypertension", Code: "I10", System: SystemICD10, Confidence: 0.89, Terms: []string{"hypertension", "ضغط الدم"}},
		{Name: "Asthma", Code: "J45.9", System: SystemICD10, Confidence: 0.87, Terms: []string{"asthma", "ربو"}},
	}}
}
