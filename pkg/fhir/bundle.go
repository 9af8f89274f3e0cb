package fhir

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bundle represents a FHIR Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type"`
	Total        *int          `json:"total,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
	Timestamp    *time.Time    `json:"timestamp,omitempty"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// NewCollectionBundle wraps resources in a collection Bundle with urn:uuid
// full URLs.
func NewCollectionBundle(resources []interface{}, now time.Time) (*Bundle, error) {
	ts := now.UTC()
	entries := make([]BundleEntry, 0, len(resources))
	for i, r := range resources {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encoding bundle entry %d: %w", i, err)
		}
		entries = append(entries, BundleEntry{
			FullURL:  "urn:uuid:" + resourceID(r),
			Resource: raw,
		})
	}
	total := len(entries)
	return &Bundle{
		ResourceType: "Bundle",
		ID:           newID(),
		Type:         "collection",
		Total:        &total,
		Entry:        entries,
		Timestamp:    &ts,
	}, nil
}

func resourceID(r interface{}) string {
	switch v := r.(type) {
	case Condition:
		return v.ID
	case *Condition:
		return v.ID
	case RiskAssessment:
		return v.ID
	case *RiskAssessment:
		return v.ID
	default:
		return newID()
	}
}
