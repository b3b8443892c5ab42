// Package export produces XLSX workbooks of extraction results.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"finescan/internal/csvexport"
	"finescan/internal/domain"
)

const sheetName = "Extractions"

// WriteXLSX returns an XLSX workbook (as bytes) with one row per extraction
// result, mirroring the CSV layout.
func WriteXLSX(catalog *domain.Catalog, rows []csvexport.Row) ([]byte, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)

	header := []interface{}{"Report ID"}
	for _, def := range catalog.Fields() {
		header = append(header, def.Name, def.Name+" confidence")
	}
	header = append(header, "Completeness", "Valid", "Missing Required", "Low Confidence Required")
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		record := []interface{}{row.ReportID}
		for _, def := range catalog.Fields() {
			record = append(record, row.Result.Fields[def.Name])
			if _, ok := row.Result.Fields[def.Name]; ok {
				record = append(record, row.Result.Confidence[def.Name])
			} else {
				record = append(record, "")
			}
		}
		record = append(record,
			row.Result.Summary.Completeness,
			row.Result.Summary.Valid,
			strings.Join(row.Result.Summary.MissingRequired, "; "),
			strings.Join(row.Result.Summary.LowConfidenceRequired, "; "),
		)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &record); err != nil {
			return nil, fmt.Errorf("writing row %s: %w", row.ReportID, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
