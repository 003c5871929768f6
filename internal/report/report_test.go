package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/pionscan/internal/domain/model"
	"github.com/okian/pionscan/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleReport() *model.Report {
	return &model.Report{
		RunID: "run-1",
		Results: []model.FileResult{
			{
				Path: "a.txt",
				Summary: model.RunSummary{
					TotalPositive: 1, TotalNegative: 1, Processed: 3, Events: 1,
					Batches: []model.BatchCounts{{Positive: 1, Negative: 1}},
				},
				Result: model.SignificanceResult{
					AveragePositive: 1.0 / 3, AverageNegative: 1.0 / 3,
					UncertaintyPositive: 1.0 / 3, UncertaintyNegative: 1.0 / 3,
					CombinedUncertainty: math.Sqrt2 / 3,
					Threshold:           0.05, Convention: model.CountBased,
				},
				Kinematics: &model.MomentumAverages{MeanP: 3.5, MeanPT: 1.5, MeanEta: math.NaN()},
			},
			{
				Path:    "empty.txt",
				Summary: model.RunSummary{},
				Result: model.SignificanceResult{
					AveragePositive: math.NaN(), AverageNegative: math.NaN(),
					Significance: math.Inf(1), Threshold: 3, Convention: model.SigmaBased, Significant: true,
				},
			},
		},
		Failures:   []model.FileFailure{{Path: "missing.txt", Err: errors.New("open: no such file")}},
		Duplicates: []string{"a.txt"},
		ANOVA:      []model.ANOVAResult{{Metric: "pt", Groups: 2, DFBetween: 1, DFWithin: 4, F: 13.5, PValue: 0.0213}},
		Elapsed:    1500 * time.Microsecond,
	}
}

func TestWriteText(t *testing.T) {
	Convey("Given a report", t, func() {
		var buf bytes.Buffer
		err := report.WriteText(&buf, sampleReport())
		out := buf.String()

		Convey("Then every section is rendered", func() {
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "run run-1: 2 files, 1 failed, 1 duplicate")
			So(out, ShouldContainSubstring, "positive pions 1, negative pions 1")
			So(out, ShouldContainSubstring, "mean eta undefined")
			So(out, ShouldContainSubstring, "significance +Inf (sigma threshold 3): significant")
			So(out, ShouldContainSubstring, "missing.txt: open: no such file")
			So(out, ShouldContainSubstring, "F=13.5")
		})
	})

	Convey("Given a nil report", t, func() {
		So(errors.Is(report.WriteText(&bytes.Buffer{}, nil), report.ErrNilReport), ShouldBeTrue)
	})
}

func TestWriteJSON(t *testing.T) {
	Convey("Given a report with undefined values", t, func() {
		var buf bytes.Buffer
		err := report.WriteJSON(&buf, sampleReport())

		Convey("Then the document is valid and non-finite values are null", func() {
			So(err, ShouldBeNil)
			var doc map[string]any
			So(json.Unmarshal(buf.Bytes(), &doc), ShouldBeNil)
			So(doc["run_id"], ShouldEqual, "run-1")
			So(doc["elapsed_ms"], ShouldEqual, 1.5)

			results := doc["results"].([]any)
			So(len(results), ShouldEqual, 2)
			first := results[0].(map[string]any)
			So(first["total_positive"], ShouldEqual, 1.0)
			So(first["kinematics"].(map[string]any)["mean_eta"], ShouldBeNil)

			second := results[1].(map[string]any)["result"].(map[string]any)
			So(second["average_positive"], ShouldBeNil)
			So(second["significance"], ShouldBeNil)
			So(second["significant"], ShouldEqual, true)

			failures := doc["failures"].([]any)
			So(failures[0].(map[string]any)["error"], ShouldEqual, "open: no such file")
		})
	})
}

func TestWriteXLSX(t *testing.T) {
	Convey("Given a report", t, func() {
		path := filepath.Join(t.TempDir(), "report.xlsx")

		Convey("When saved as a workbook", func() {
			err := report.WriteXLSX(path, sampleReport())
			So(err, ShouldBeNil)

			f, err := excelize.OpenFile(path)
			So(err, ShouldBeNil)
			defer f.Close()

			Convey("Then each sheet holds its rows", func() {
				results, err := f.GetRows(report.SheetResults)
				So(err, ShouldBeNil)
				So(len(results), ShouldEqual, 3)
				So(results[0][0], ShouldEqual, "path")
				So(results[1][0], ShouldEqual, "a.txt")
				So(results[2][8], ShouldEqual, "NaN")

				batches, err := f.GetRows(report.SheetBatches)
				So(err, ShouldBeNil)
				So(batches[1], ShouldResemble, []string{"a.txt", "0", "1", "1"})

				failures, err := f.GetRows(report.SheetFailures)
				So(err, ShouldBeNil)
				So(failures[1][0], ShouldEqual, "missing.txt")

				anova, err := f.GetRows(report.SheetANOVA)
				So(err, ShouldBeNil)
				So(anova[1][0], ShouldEqual, "pt")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := report.WriteXLSX(filepath.Join(t.TempDir(), "no", "such", "r.xlsx"), sampleReport())
			So(errors.Is(err, report.ErrWriteXLSX), ShouldBeTrue)
		})
	})
}
