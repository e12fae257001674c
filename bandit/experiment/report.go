package experiment

import (
	"encoding/csv"
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/offersim/offersim/bandit"
)

// Report holds summary rows ready for rendering. Rows keep whatever
// order the producer gave them; Compare hands them over best-first.
type Report struct {
	Rows []bandit.SummaryRow
}

// NewReport wraps rows in a Report.
func NewReport(rows []bandit.SummaryRow) *Report {
	return &Report{Rows: rows}
}

// Summary aggregates a report's rows. StdDevConversion is the sample
// standard deviation and is NaN with fewer than two rows.
type Summary struct {
	Rows                int
	MeanConversion      float64
	StdDevConversion    float64
	MeanWidthSelections float64
	MeanBestSelections  float64
}

// Aggregate computes row-level statistics across summary rows. An empty
// slice yields a zero Summary.
func Aggregate(rows []bandit.SummaryRow) Summary {
	if len(rows) == 0 {
		return Summary{}
	}

	conv := make([]float64, len(rows))
	width := make([]float64, len(rows))
	best := make([]float64, len(rows))
	for i, row := range rows {
		conv[i] = row.AverageConversion
		width[i] = float64(row.WidthMinimizingSelections)
		best[i] = float64(row.BestPerformerSelections)
	}

	return Summary{
		Rows:                len(rows),
		MeanConversion:      stat.Mean(conv, nil),
		StdDevConversion:    stat.StdDev(conv, nil),
		MeanWidthSelections: stat.Mean(width, nil),
		MeanBestSelections:  stat.Mean(best, nil),
	}
}

// RenderTable writes the rows as an aligned text table followed by
// aggregate statistics.
func (r *Report) RenderTable(w io.Writer) {
	fmt.Fprintln(w, "=== Selection Results ===")
	fmt.Fprintf(w, "%-26s %20s %29s %27s\n",
		bandit.SummaryColumns[0], bandit.SummaryColumns[1],
		bandit.SummaryColumns[2], bandit.SummaryColumns[3])
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%-26s %20.6f %29d %27d\n",
			row.StrategyName, row.AverageConversion,
			row.WidthMinimizingSelections, row.BestPerformerSelections)
	}

	s := Aggregate(r.Rows)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "Rows                 : %d\n", s.Rows)
	fmt.Fprintf(w, "Mean Conversion      : %.6f\n", s.MeanConversion)
	fmt.Fprintf(w, "StdDev Conversion    : %.6f\n", s.StdDevConversion)
	fmt.Fprintf(w, "Mean Width Selections: %.2f\n", s.MeanWidthSelections)
	fmt.Fprintf(w, "Mean Best Selections : %.2f\n", s.MeanBestSelections)
}

// WriteCSV writes the rows as CSV with bandit.SummaryColumns as the
// header. Column names and order are a contract for downstream
// analysis.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bandit.SummaryColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
