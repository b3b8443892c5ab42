// Package validator reconciles extraction tiers and scores required-field coverage.
package validator

import (
	"fmt"
	"log"

	"finescan/internal/domain"
)

// overrideConfidence is assigned to user-corrected field values.
const overrideConfidence = 0.95

// Merger combines a primary extraction result with an optional secondary
// deterministic result and produces the ValidationSummary.
type Merger struct {
	catalog   *domain.Catalog
	watchList []string
	threshold float64
}

// NewMerger creates a Merger. watchList names the fields eligible for
// deterministic back-fill; threshold is the required-field acceptance floor.
func NewMerger(catalog *domain.Catalog, watchList []string, threshold float64) *Merger {
	return &Merger{catalog: catalog, watchList: watchList, threshold: threshold}
}

// MissingWatchList returns the watch-list fields absent from the result.
func (m *Merger) MissingWatchList(result *domain.FieldExtractionResult) []string {
	var missing []string
	for _, name := range m.watchList {
		if _, ok := result.Fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Merge splices secondary values for missing watch-list fields into a copy of
// primary, verbatim and with their deterministic confidence, then attaches the
// ValidationSummary. Confidence for fields the primary already holds is never
// overwritten. secondary may be nil.
func (m *Merger) Merge(primary, secondary *domain.FieldExtractionResult) *domain.FieldExtractionResult {
	merged := primary.Clone()

	if secondary != nil {
		for _, name := range m.watchList {
			if _, ok := merged.Fields[name]; ok {
				continue
			}
			value, ok := secondary.Fields[name]
			if !ok {
				continue
			}
			merged.Fields[name] = value
			merged.Confidence[name] = secondary.Confidence[name]
			merged.Notes = append(merged.Notes, fmt.Sprintf("back-filled %s from deterministic pass", name))
			log.Printf("validator.Merger: back-filled %s (confidence %.2f)", name, secondary.Confidence[name])
		}
	}

	merged.Summary = m.Summarize(merged)
	return merged
}

// Summarize computes the required-field validation summary. A required field
// counts as valid only if present and its confidence meets the threshold.
// Completeness is valid/total × 100.
func (m *Merger) Summarize(result *domain.FieldExtractionResult) domain.ValidationSummary {
	required := m.catalog.RequiredFields()
	summary := domain.ValidationSummary{
		MissingRequired:       []string{},
		LowConfidenceRequired: []string{},
	}

	valid := 0
	for _, name := range required {
		if _, ok := result.Fields[name]; !ok {
			summary.MissingRequired = append(summary.MissingRequired, name)
			continue
		}
		if result.Confidence[name] < m.threshold {
			summary.LowConfidenceRequired = append(summary.LowConfidenceRequired, name)
			continue
		}
		valid++
	}

	summary.Completeness = float64(valid) / float64(len(required)) * 100
	summary.Valid = len(summary.MissingRequired) == 0 && len(summary.LowConfidenceRequired) == 0
	return summary
}

// ApplyCorrections merges user-supplied field overrides into a copy of a prior
// result: overridden fields take the corrected value at override confidence
// and the summary is recomputed. Unknown field names are rejected.
func (m *Merger) ApplyCorrections(prior *domain.FieldExtractionResult, overrides map[string]string) (*domain.FieldExtractionResult, error) {
	for name := range overrides {
		if m.catalog.Get(name) == nil {
			return nil, fmt.Errorf("correction for %q: %w", name, domain.ErrUnknownField)
		}
	}

	amended := prior.Clone()
	for name, value := range overrides {
		amended.Fields[name] = value
		amended.Confidence[name] = overrideConfidence
		amended.Notes = append(amended.Notes, fmt.Sprintf("user correction applied to %s", name))
	}
	amended.Summary = m.Summarize(amended)
	return amended, nil
}
