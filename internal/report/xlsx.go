package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/okian/pionscan/internal/domain/model"
)

// Sheet names of the workbook.
const (
	SheetResults  = "Results"
	SheetBatches  = "Batches"
	SheetFailures = "Failures"
	SheetANOVA    = "ANOVA"
)

//nolint:gochecknoglobals // fixed column layouts
var (
	resultsHeader = []any{
		"path", "events", "particles", "skipped", "truncated",
		"total_positive", "total_negative", "batches",
		"average_positive", "average_negative", "uncertainty_positive", "uncertainty_negative",
		"difference", "mean_difference", "combined_uncertainty", "significance",
		"threshold", "convention", "significant",
		"mean_p", "mean_pt", "mean_eta", "domain_errors",
	}
	batchesHeader  = []any{"path", "batch", "positive", "negative"}
	failuresHeader = []any{"path", "error"}
	anovaHeader    = []any{"metric", "groups", "df_between", "df_within", "f", "p_value"}
)

// WriteXLSX saves r as a workbook at path with one row per file on
// "Results", per-batch counts on "Batches" and failed inputs on "Failures".
// An "ANOVA" sheet is added when the report carries ANOVA results.
func WriteXLSX(path string, r *model.Report) (err error) {
	if r == nil {
		return ErrNilReport
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close: %w", ErrWriteXLSX, cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetResults); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteXLSX, err)
	}
	sheets := []string{SheetBatches, SheetFailures}
	if len(r.ANOVA) > 0 {
		sheets = append(sheets, SheetANOVA)
	}
	for _, name := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("%w: sheet %s: %w", ErrWriteXLSX, name, err)
		}
	}

	rows := map[string][][]any{
		SheetResults:  {resultsHeader},
		SheetBatches:  {batchesHeader},
		SheetFailures: {failuresHeader},
	}
	for i := range r.Results {
		fr := &r.Results[i]
		rows[SheetResults] = append(rows[SheetResults], resultRow(fr))
		for j, b := range fr.Summary.Batches {
			rows[SheetBatches] = append(rows[SheetBatches], []any{fr.Path, j, b.Positive, b.Negative})
		}
	}
	for _, fl := range r.Failures {
		msg := ""
		if fl.Err != nil {
			msg = fl.Err.Error()
		}
		rows[SheetFailures] = append(rows[SheetFailures], []any{fl.Path, msg})
	}
	if len(r.ANOVA) > 0 {
		rows[SheetANOVA] = [][]any{anovaHeader}
		for _, a := range r.ANOVA {
			rows[SheetANOVA] = append(rows[SheetANOVA],
				[]any{a.Metric, a.Groups, a.DFBetween, a.DFWithin, cell(a.F), cell(a.PValue)})
		}
	}

	for sheet, data := range rows {
		for i, row := range data {
			axis, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteXLSX, err)
			}
			if err := f.SetSheetRow(sheet, axis, &row); err != nil {
				return fmt.Errorf("%w: %s row %d: %w", ErrWriteXLSX, sheet, i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteXLSX, path, err)
	}
	return nil
}

func resultRow(fr *model.FileResult) []any {
	s, res := &fr.Summary, &fr.Result
	row := []any{
		fr.Path, s.Events, s.Processed, s.Skipped, s.Truncated,
		s.TotalPositive, s.TotalNegative, len(s.Batches),
		cell(res.AveragePositive), cell(res.AverageNegative),
		cell(res.UncertaintyPositive), cell(res.UncertaintyNegative),
		cell(res.Difference), cell(res.MeanDifference),
		cell(res.CombinedUncertainty), cell(res.Significance),
		cell(res.Threshold), string(res.Convention), res.Significant,
	}
	if k := fr.Kinematics; k != nil {
		row = append(row, cell(k.MeanP), cell(k.MeanPT), cell(k.MeanEta), k.DomainErrors)
	}
	return row
}

// cell keeps finite numbers numeric and spells out NaN and infinities,
// which spreadsheet numeric cells cannot hold.
func cell(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return v
	}
}
