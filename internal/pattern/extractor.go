// Package pattern pulls raw candidate values out of detected ticket lines.
package pattern

import (
	"regexp"

	"finescan/internal/domain"
)

// family is one regex pattern for a field; group selects the submatch that
// carries the value (0 = whole match).
type family struct {
	re    *regexp.Regexp
	group int
}

var (
	slashDate = family{re: regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)}
	dotDate   = family{re: regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{2,4}`)}
	dashDate  = family{re: regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{2,4}`)}
)

// families lists the pattern families per field, tried in order. All matches
// from all families are concatenated; the caller selects which candidate to keep.
var families = map[string][]family{
	domain.FieldReportNumber: {
		{re: regexp.MustCompile(`\d{6,}`)},
	},
	domain.FieldViolationDate:  {slashDate, dotDate, dashDate},
	domain.FieldAppealDeadline: {slashDate, dotDate, dashDate},
	domain.FieldViolationTime: {
		{re: regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)},
		{re: regexp.MustCompile(`\b\d{1,2}\.\d{2}\b`)},
	},
	domain.FieldFineAmount: {
		{re: regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?`)},
		{re: regexp.MustCompile(`\d+\.\d{1,2}`)},
		{re: regexp.MustCompile(`\d+`)},
	},
	domain.FieldPoints: {
		{re: regexp.MustCompile(`(\d{1,2})\s*נקודות`), group: 1},
		{re: regexp.MustCompile(`נקודות\D{0,3}(\d{1,2})`), group: 1},
	},
	domain.FieldViolationType: {
		{re: regexp.MustCompile(`\(([^)]+)\)`), group: 1},
		{re: regexp.MustCompile(`סעיף\s+\S+`)},
	},
	domain.FieldVehiclePlate: {
		{re: regexp.MustCompile(`\d{2,3}-\d{2,3}-\d{2,3}`)},
		{re: regexp.MustCompile(`\d{7,8}`)},
	},
	domain.FieldLicenseNumber: {
		{re: regexp.MustCompile(`\d{5,9}`)},
	},
}

// Extractor applies per-field regex families to a detected line and its
// successor; ticket fields regularly wrap onto the following line.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns all raw candidate values for the field found on line and
// next, in pattern-family order. An empty result is not an error; fields like
// driver_name have no deterministic pattern at all.
func (e *Extractor) Extract(field, line, next string) []string {
	fams, ok := families[field]
	if !ok {
		return nil
	}
	var out []string
	for _, text := range []string{line, next} {
		if text == "" {
			continue
		}
		for _, f := range fams {
			for _, m := range f.re.FindAllStringSubmatch(text, -1) {
				out = append(out, m[f.group])
			}
		}
	}
	return out
}
