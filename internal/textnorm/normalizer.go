// Package textnorm cleans raw OCR output into canonical, line-oriented text.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ocrArtifacts maps single-character glyphs the OCR engine substitutes for
// Hebrew letters. The vertical bar family is consistently a misread vav.
var ocrArtifacts = strings.NewReplacer(
	"|", "ו",
	"¦", "ו",
	"׀", "ו",
)

// Normalizer performs canonical Unicode composition and OCR-artifact cleanup.
// Normalize is idempotent: normalizing already-normalized text is a no-op.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize returns the cleaned text: NFC-composed, control characters
// stripped (newlines preserved), whitespace runs collapsed, artifact glyphs
// repaired, and every line trimmed. Empty input yields empty output.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFC.String(ocrArtifacts.Replace(raw))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	lines := make([]string, 0, strings.Count(b.String(), "\n")+1)
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Lines normalizes raw text and returns its non-empty trimmed lines.
func (n *Normalizer) Lines(raw string) []string {
	s := n.Normalize(raw)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
