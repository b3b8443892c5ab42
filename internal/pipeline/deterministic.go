package pipeline

import (
	"finescan/internal/domain"
	"finescan/internal/pattern"
)

// Deterministic is the keyword-and-regex extraction tier. It cannot raise:
// its only failure mode is finding nothing at all.
type Deterministic struct {
	catalog  *domain.Catalog
	patterns *pattern.Extractor
}

// NewDeterministic creates the deterministic extraction branch.
func NewDeterministic(catalog *domain.Catalog, patterns *pattern.Extractor) *Deterministic {
	return &Deterministic{catalog: catalog, patterns: patterns}
}

// Extract builds a result from detected label lines: for each detection the
// pattern candidates from the line and its successor are filtered through the
// field's shape rule and the first surviving candidate is kept with the
// detection confidence.
func (d *Deterministic) Extract(lines []string, detected map[string]domain.DetectedField) *domain.FieldExtractionResult {
	result := domain.NewFieldExtractionResult()

	for _, def := range d.catalog.Fields() {
		det, ok := detected[def.Name]
		if !ok {
			continue
		}
		line := lines[det.LineIndex]
		next := ""
		if det.LineIndex+1 < len(lines) {
			next = lines[det.LineIndex+1]
		}
		for _, candidate := range d.patterns.Extract(def.Name, line, next) {
			if !def.Validate(candidate) {
				continue
			}
			result.Fields[def.Name] = candidate
			result.Confidence[def.Name] = det.Confidence
			break
		}
	}
	return result
}
