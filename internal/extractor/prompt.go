package extractor

import (
	"fmt"
	"sort"
	"strings"

	"finescan/internal/domain"
)

// BuildTicketPrompt returns the extraction prompt for a traffic-violation
// ticket. The normalized OCR text is embedded verbatim; detector hints ground
// the model on the lines the deterministic pass already located.
func BuildTicketPrompt(catalog *domain.Catalog, normalizedText string, hints map[string]domain.DetectedField, ocrConfidence float64) string {
	var schema strings.Builder
	for _, def := range catalog.Fields() {
		req := "optional"
		if def.Required {
			req = "required"
		}
		fmt.Fprintf(&schema, "  %q: null,  // %s (%s)\n", def.Name, def.Description, req)
	}

	var hintBlock strings.Builder
	if len(hints) > 0 {
		names := make([]string, 0, len(hints))
		for name := range hints {
			names = append(names, name)
		}
		sort.Strings(names)
		hintBlock.WriteString("\nKeyword detection already located these field labels (field: line number):\n")
		for _, name := range names {
			fmt.Fprintf(&hintBlock, "- %s: line %d\n", name, hints[name].LineIndex+1)
		}
	}

	return fmt.Sprintf(`You are a document data extraction assistant for Israeli traffic-violation tickets. The text below was produced by OCR from a scanned ticket and contains recognition noise (overall OCR confidence %.2f). The document mixes Hebrew and digits; Hebrew reads right-to-left, which OCR sometimes reorders.

IMPORTANT INSTRUCTIONS:
- Extract every field listed in the schema. Use null for any field not present in the document. NEVER fabricate a value.
- Repair obvious OCR character confusions (for example a vertical bar misread for the letter vav) and describe each correction in "processing_notes".
- Dates must keep the delimiter style printed on the ticket (DD/MM/YYYY, DD.MM.YYYY or DD-MM-YYYY). Times are HH:MM.
- Amounts are plain numbers without currency symbols.

Return ONLY valid JSON with no markdown formatting, no code fences and no explanation, just the raw JSON object.

Return three top-level keys: "extracted_fields", "confidence_scores" and "processing_notes".

The "extracted_fields" object must follow this schema:
{
%s}

The "confidence_scores" object mirrors "extracted_fields" with float values between 0.0 and 1.0 indicating your confidence for each field. Use 0.0 for fields you returned as null.

"processing_notes" is an array of short strings describing corrections you made.
%s
DOCUMENT TEXT:
%s`, ocrConfidence, schema.String(), hintBlock.String(), normalizedText)
}
