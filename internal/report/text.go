// Package report renders a run report as text, JSON or an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/okian/pionscan/internal/domain/model"
)

// errWriter keeps the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteText writes a human-readable summary of r.
func WriteText(w io.Writer, r *model.Report) error {
	if r == nil {
		return ErrNilReport
	}
	ew := &errWriter{w: w}
	ew.printf("run %s: %d files, %d failed, %d duplicate, elapsed %s\n",
		r.RunID, len(r.Results), len(r.Failures), len(r.Duplicates), r.Elapsed)

	for i := range r.Results {
		writeFileText(ew, &r.Results[i])
	}

	if len(r.Failures) > 0 {
		ew.printf("\nfailures\n")
		for _, f := range r.Failures {
			ew.printf("  %s: %v\n", f.Path, f.Err)
		}
	}
	if len(r.Duplicates) > 0 {
		ew.printf("\nduplicates\n")
		for _, d := range r.Duplicates {
			ew.printf("  %s\n", d)
		}
	}
	if len(r.ANOVA) > 0 {
		ew.printf("\nanova\n")
		for _, a := range r.ANOVA {
			ew.printf("  %-3s F=%s p=%s groups=%d df=%d/%d\n",
				a.Metric, num(a.F), num(a.PValue), a.Groups, a.DFBetween, a.DFWithin)
		}
	}
	return ew.err
}

func writeFileText(ew *errWriter, fr *model.FileResult) {
	s, res := &fr.Summary, &fr.Result
	ew.printf("\n%s\n", fr.Path)
	ew.printf("  events %d, particles %d, skipped %d, batches %d", s.Events, s.Processed, s.Skipped, len(s.Batches))
	if s.Truncated {
		ew.printf(", truncated")
	}
	ew.printf("\n")
	ew.printf("  positive pions %d, negative pions %d\n", s.TotalPositive, s.TotalNegative)
	ew.printf("  average positive %s ± %s, average negative %s ± %s\n",
		num(res.AveragePositive), num(res.UncertaintyPositive),
		num(res.AverageNegative), num(res.UncertaintyNegative))
	ew.printf("  difference %s, mean difference %s, combined uncertainty %s\n",
		num(res.Difference), num(res.MeanDifference), num(res.CombinedUncertainty))

	verdict := "not significant"
	if res.Significant {
		verdict = "significant"
	}
	ew.printf("  significance %s (%s threshold %s): %s\n",
		num(res.Significance), res.Convention, num(res.Threshold), verdict)

	if k := fr.Kinematics; k != nil {
		ew.printf("  mean p %s, mean pT %s, mean eta %s, domain errors %d\n",
			num(k.MeanP), num(k.MeanPT), num(k.MeanEta), k.DomainErrors)
	}
}

// num formats v with up to six significant digits; NaN prints as "undefined".
func num(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
