package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the batch as an Excel workbook with three sheets:
// Documents (one row per document), Consolidated (fused fields with
// provenance) and Summary (batch-level aggregates).
func WriteXLSX(w io.Writer, batch Batch) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeDocumentsSheet(f, batch); err != nil {
		return err
	}
	if err := writeConsolidatedSheet(f, batch); err != nil {
		return err
	}
	if err := writeSummarySheet(f, batch); err != nil {
		return err
	}

	// excelize starts workbooks with a default "Sheet1".
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex("Documents"); err == nil && index != -1 {
		f.SetActiveSheet(index)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeDocumentsSheet(f *excelize.File, batch Batch) error {
	const sheet = "Documents"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, h := range documentColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i := range batch.Results {
		filename := ""
		if i < len(batch.Filenames) {
			filename = batch.Filenames[i]
		}
		row := resultToRow(&batch.Results[i], filename)
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeConsolidatedSheet(f *excelize.File, batch Batch) error {
	const sheet = "Consolidated"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, h := range fusedColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	if batch.Fused == nil {
		return nil
	}

	row := 2
	for _, key := range batch.Fused.Fields.Keys() {
		values := []string{key, batch.Fused.Fields.Value(key), batch.Fused.Provenance[key]}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

func writeSummarySheet(f *excelize.File, batch Batch) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	succeeded := 0
	failed := 0
	tokens := 0
	for i := range batch.Results {
		if batch.Results[i].Succeeded() {
			succeeded++
		} else {
			failed++
		}
		tokens += batch.Results[i].TokensUsed
	}

	rows := [][2]string{
		{"Documents", strconv.Itoa(len(batch.Results))},
		{"Succeeded", strconv.Itoa(succeeded)},
		{"Failed", strconv.Itoa(failed)},
		{"Tokens Used", strconv.Itoa(tokens)},
		{"Exported At", time.Now().UTC().Format(time.RFC3339)},
	}
	if batch.Fused != nil {
		rows = append(rows,
			[2]string{"Primary Source", batch.Fused.PrimarySource},
			[2]string{"Average Confidence", strconv.Itoa(batch.Fused.AverageConfidence)},
		)
	}

	for i, r := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(sheet, keyCell, r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, valCell, r[1]); err != nil {
			return err
		}
	}
	return nil
}
