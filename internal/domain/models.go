package domain

// SymbolConfidence is the per-symbol recognition confidence reported by the OCR collaborator.
type SymbolConfidence struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// RecognizedDocument is the raw output of the OCR collaborator for one scanned ticket.
// It is immutable once received.
type RecognizedDocument struct {
	Text        string             `json:"text"`
	Symbols     []SymbolConfidence `json:"symbols"`
	ByteSize    int64              `json:"byte_size"`
	ContentType string             `json:"content_type"`
}

// OverallConfidence returns the mean per-symbol confidence, or 1.0 when the
// OCR collaborator reported no symbol scores.
func (d *RecognizedDocument) OverallConfidence() float64 {
	if len(d.Symbols) == 0 {
		return 1.0
	}
	var sum float64
	for _, s := range d.Symbols {
		sum += s.Confidence
	}
	return sum / float64(len(d.Symbols))
}

// DetectedField records a fuzzy keyword match for one field on one line.
type DetectedField struct {
	Field          string  `json:"field"`
	LineIndex      int     `json:"line_index"`
	MatchedKeyword string  `json:"matched_keyword"`
	Similarity     float64 `json:"similarity"`
	Confidence     float64 `json:"confidence"`
}

// ValidationSummary aggregates required-field coverage for an extraction result.
type ValidationSummary struct {
	Valid                 bool     `json:"valid"`
	MissingRequired       []string `json:"missing_required"`
	LowConfidenceRequired []string `json:"low_confidence_required"`
	Completeness          float64  `json:"completeness"`
}

// ModelUsage is the token accounting for one external model call.
type ModelUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// FieldExtractionResult is the pipeline's terminal artifact: extracted values
// keyed by field name, a parallel confidence map, free-text processing notes,
// and the required-field validation summary. A field absent from Fields was
// not extracted. Never mutated after the orchestrator returns it.
type FieldExtractionResult struct {
	Fields     map[string]string  `json:"fields"`
	Confidence map[string]float64 `json:"confidence"`
	Notes      []string           `json:"notes"`
	Summary    ValidationSummary  `json:"summary"`
	ModelUsed  string             `json:"model_used,omitempty"`
	Usage      ModelUsage         `json:"usage"`
}

// NewFieldExtractionResult returns an empty result with initialized maps.
func NewFieldExtractionResult() *FieldExtractionResult {
	return &FieldExtractionResult{
		Fields:     make(map[string]string),
		Confidence: make(map[string]float64),
	}
}

// Clone returns a deep copy. Correction re-runs amend a copy of the stored
// result, never the original.
func (r *FieldExtractionResult) Clone() *FieldExtractionResult {
	out := &FieldExtractionResult{
		Fields:     make(map[string]string, len(r.Fields)),
		Confidence: make(map[string]float64, len(r.Confidence)),
		Notes:      append([]string(nil), r.Notes...),
		Summary:    r.Summary,
		ModelUsed:  r.ModelUsed,
		Usage:      r.Usage,
	}
	out.Summary.MissingRequired = append([]string(nil), r.Summary.MissingRequired...)
	out.Summary.LowConfidenceRequired = append([]string(nil), r.Summary.LowConfidenceRequired...)
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	for k, v := range r.Confidence {
		out.Confidence[k] = v
	}
	return out
}
