package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/okian/pionscan/internal/domain/model"
)

// Non-finite values are not valid JSON numbers; they are written as null.

type jsonReport struct {
	RunID      string        `json:"run_id"`
	ElapsedMS  float64       `json:"elapsed_ms"`
	Results    []jsonFile    `json:"results"`
	Failures   []jsonFailure `json:"failures"`
	Duplicates []string      `json:"duplicates"`
	ANOVA      []jsonANOVA   `json:"anova,omitempty"`
}

type jsonFile struct {
	Path          string              `json:"path"`
	Events        int                 `json:"events"`
	Particles     int                 `json:"particles"`
	Skipped       int                 `json:"skipped"`
	Truncated     bool                `json:"truncated"`
	TotalPositive int                 `json:"total_positive"`
	TotalNegative int                 `json:"total_negative"`
	Batches       []model.BatchCounts `json:"batches"`
	Result        jsonResult          `json:"result"`
	Kinematics    *jsonKinematics     `json:"kinematics,omitempty"`
}

type jsonResult struct {
	AveragePositive     *float64 `json:"average_positive"`
	AverageNegative     *float64 `json:"average_negative"`
	UncertaintyPositive *float64 `json:"uncertainty_positive"`
	UncertaintyNegative *float64 `json:"uncertainty_negative"`
	Difference          *float64 `json:"difference"`
	MeanDifference      *float64 `json:"mean_difference"`
	CombinedUncertainty *float64 `json:"combined_uncertainty"`
	Significance        *float64 `json:"significance"`
	Threshold           *float64 `json:"threshold"`
	Convention          string   `json:"convention"`
	Significant         bool     `json:"significant"`
}

type jsonKinematics struct {
	MeanP        *float64 `json:"mean_p"`
	MeanPT       *float64 `json:"mean_pt"`
	MeanEta      *float64 `json:"mean_eta"`
	DomainErrors int      `json:"domain_errors"`
}

type jsonFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type jsonANOVA struct {
	Metric    string   `json:"metric"`
	Groups    int      `json:"groups"`
	DFBetween int      `json:"df_between"`
	DFWithin  int      `json:"df_within"`
	F         *float64 `json:"f"`
	PValue    *float64 `json:"p_value"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// WriteJSON writes r as an indented JSON document.
func WriteJSON(w io.Writer, r *model.Report) error {
	if r == nil {
		return ErrNilReport
	}
	out := jsonReport{
		RunID:      r.RunID,
		ElapsedMS:  float64(r.Elapsed.Microseconds()) / 1000,
		Results:    make([]jsonFile, 0, len(r.Results)),
		Failures:   make([]jsonFailure, 0, len(r.Failures)),
		Duplicates: append([]string{}, r.Duplicates...),
	}
	for i := range r.Results {
		out.Results = append(out.Results, toJSONFile(&r.Results[i]))
	}
	for _, f := range r.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		out.Failures = append(out.Failures, jsonFailure{Path: f.Path, Error: msg})
	}
	for _, a := range r.ANOVA {
		out.ANOVA = append(out.ANOVA, jsonANOVA{
			Metric: a.Metric, Groups: a.Groups, DFBetween: a.DFBetween, DFWithin: a.DFWithin,
			F: finite(a.F), PValue: finite(a.PValue),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

func toJSONFile(fr *model.FileResult) jsonFile {
	s, res := &fr.Summary, &fr.Result
	jf := jsonFile{
		Path:          fr.Path,
		Events:        s.Events,
		Particles:     s.Processed,
		Skipped:       s.Skipped,
		Truncated:     s.Truncated,
		TotalPositive: s.TotalPositive,
		TotalNegative: s.TotalNegative,
		Batches:       append([]model.BatchCounts{}, s.Batches...),
		Result: jsonResult{
			AveragePositive:     finite(res.AveragePositive),
			AverageNegative:     finite(res.AverageNegative),
			UncertaintyPositive: finite(res.UncertaintyPositive),
			UncertaintyNegative: finite(res.UncertaintyNegative),
			Difference:          finite(res.Difference),
			MeanDifference:      finite(res.MeanDifference),
			CombinedUncertainty: finite(res.CombinedUncertainty),
			Significance:        finite(res.Significance),
			Threshold:           finite(res.Threshold),
			Convention:          string(res.Convention),
			Significant:         res.Significant,
		},
	}
	if k := fr.Kinematics; k != nil {
		jf.Kinematics = &jsonKinematics{
			MeanP:        finite(k.MeanP),
			MeanPT:       finite(k.MeanPT),
			MeanEta:      finite(k.MeanEta),
			DomainErrors: k.DomainErrors,
		}
	}
	return jf
}
