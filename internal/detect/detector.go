// Package detect locates candidate field-label lines via fuzzy keyword matching.
package detect

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"finescan/internal/domain"
)

// Detector matches catalog keywords against normalized ticket lines using
// Levenshtein edit distance. A keyword matches a line when the edit distance
// is within MaxEditDistance or the normalized similarity reaches MinSimilarity.
type Detector struct {
	catalog         *domain.Catalog
	maxEditDistance int
	minSimilarity   float64
}

// NewDetector creates a Detector with the given tunable thresholds.
func NewDetector(catalog *domain.Catalog, maxEditDistance int, minSimilarity float64) *Detector {
	return &Detector{
		catalog:         catalog,
		maxEditDistance: maxEditDistance,
		minSimilarity:   minSimilarity,
	}
}

// Detect scans lines in order and returns at most one DetectedField per field
// name. When a field's keywords match multiple lines the last match wins;
// tickets repeat labels in summaries and the final occurrence carries the value.
func (d *Detector) Detect(lines []string) map[string]domain.DetectedField {
	detected := make(map[string]domain.DetectedField)

	for i, line := range lines {
		stripped := hebrewOnly(line)
		if stripped == "" {
			continue
		}
		for _, def := range d.catalog.Fields() {
			for _, kw := range def.Keywords {
				dist := levenshtein.ComputeDistance(stripped, kw)
				sim := similarity(dist, stripped, kw)
				if dist > d.maxEditDistance && sim < d.minSimilarity {
					continue
				}
				conf := sim + 0.1
				if conf > 0.95 {
					conf = 0.95
				}
				detected[def.Name] = domain.DetectedField{
					Field:          def.Name,
					LineIndex:      i,
					MatchedKeyword: kw,
					Similarity:     sim,
					Confidence:     conf,
				}
				break
			}
		}
	}
	return detected
}

// similarity is 1 - distance/max(len(a), len(b)), measured in runes.
func similarity(dist int, a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 0
	}
	return 1 - float64(dist)/float64(max)
}

// hebrewOnly strips a line down to its Hebrew letters and spaces so digit
// payloads do not inflate the distance against pure-Hebrew label keywords.
func hebrewOnly(line string) string {
	var b strings.Builder
	for _, r := range line {
		if unicode.Is(unicode.Hebrew, r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
