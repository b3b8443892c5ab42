// Package csvexport renders extraction results as CSV for spreadsheet review.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"finescan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Row pairs a report identifier with its extraction result.
type Row struct {
	ReportID string
	Result   *domain.FieldExtractionResult
}

// Write renders one row per result with a value and a confidence column per
// catalog field, followed by the validation summary columns.
func Write(w io.Writer, catalog *domain.Catalog, rows []Row) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)

	header := []string{"Report ID"}
	for _, def := range catalog.Fields() {
		header = append(header, def.Name, def.Name+" confidence")
	}
	header = append(header, "Completeness", "Valid", "Missing Required", "Low Confidence Required")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.ReportID}
		for _, def := range catalog.Fields() {
			value := row.Result.Fields[def.Name]
			conf := ""
			if _, ok := row.Result.Fields[def.Name]; ok {
				conf = fmt.Sprintf("%.2f", row.Result.Confidence[def.Name])
			}
			record = append(record, value, conf)
		}
		record = append(record,
			fmt.Sprintf("%.0f%%", row.Result.Summary.Completeness),
			fmt.Sprintf("%t", row.Result.Summary.Valid),
			strings.Join(row.Result.Summary.MissingRequired, "; "),
			strings.Join(row.Result.Summary.LowConfidenceRequired, "; "),
		)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %s: %w", row.ReportID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
