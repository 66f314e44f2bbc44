// Package export writes analysis results as JSON, CSV or aligned text tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/kilianp07/rentalfriction/core/analysis"
	"github.com/kilianp07/rentalfriction/core/model"
)

// Formats lists the accepted output formats.
var Formats = []string{"table", "json", "csv"}

// WriteJSON writes any report to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSweepCSV writes the sweep points to w with a header row.
func WriteSweepCSV(w io.Writer, points []model.SimulationPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"threshold_minutes", "solved_count", "lost_count", "preserved_percent"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			formatFloat(p.ThresholdMinutes),
			strconv.Itoa(p.SolvedCount),
			strconv.Itoa(p.LostCount),
			formatFloat(p.PreservedPercent),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSimulationTable prints the exact result followed by the sweep.
func WriteSimulationTable(w io.Writer, rep analysis.SimulationReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	e := rep.Exact
	fmt.Fprintf(tw, "scope\t%s\t\n", rep.Scope)
	fmt.Fprintf(tw, "rentals in scope\t%d\t\n", rep.TotalRentals)
	fmt.Fprintf(tw, "threshold (min)\t%s\t\n", formatFloat(e.ThresholdMinutes))
	fmt.Fprintf(tw, "problems solved\t%d / %d (%.1f%%)\t\n", e.SolvedCount, e.TotalProblematic, e.PctSolvedOfTotalProblems)
	fmt.Fprintf(tw, "rentals lost\t%d (%.1f%%)\t\n", e.LostCount, e.LostPercent)
	fmt.Fprintf(tw, "volume preserved\t%.1f%%\t\n", e.PreservedPercent)
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "threshold\tsolved\tlost\tpreserved %\t")
	for _, p := range rep.Sweep {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t\n", formatFloat(p.ThresholdMinutes), p.SolvedCount, p.LostCount, p.PreservedPercent)
	}
	return tw.Flush()
}

// WriteOverviewTable prints the overview as key/value rows.
func WriteOverviewTable(w io.Writer, rep analysis.OverviewReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "scope\t%s\n", rep.Scope)
	fmt.Fprintf(tw, "rentals\t%d\n", rep.TotalRentals)
	fmt.Fprintf(tw, "chained rentals\t%d (%.2f%%)\n", rep.ChainedRentals, rep.ChainedPercent)
	fmt.Fprintf(tw, "problematic\t%d (%.2f%% of chained)\n", rep.ProblematicCount, rep.ProblematicPercent)
	fmt.Fprintf(tw, "problematic median delay\t%s\n", optional(rep.ProblematicMedianDelay))
	fmt.Fprintf(tw, "problematic cancellations\t%d\n", rep.ProblematicCancellations)
	fmt.Fprintf(tw, "late / on-time checkouts\t%d / %d\n", rep.LateCheckouts, rep.OnTimeCheckouts)
	fmt.Fprintf(tw, "mean checkout delay\t%s\n", optional(rep.MeanCheckoutDelay))
	for _, k := range sortedKeys(rep.CheckinTypes) {
		fmt.Fprintf(tw, "checkin %s\t%d\n", k, rep.CheckinTypes[model.CheckinType(k)])
	}
	for _, k := range sortedKeys(rep.States) {
		fmt.Fprintf(tw, "state %s\t%d\n", k, rep.States[model.RentalState(k)])
	}
	return tw.Flush()
}

// WriteSimulation dispatches on format.
func WriteSimulation(w io.Writer, format string, rep analysis.SimulationReport) error {
	switch format {
	case "", "table":
		return WriteSimulationTable(w, rep)
	case "json":
		return WriteJSON(w, rep)
	case "csv":
		return WriteSweepCSV(w, rep.Sweep)
	}
	return fmt.Errorf("unknown format %q (known: %v)", format, Formats)
}

// WriteOverview dispatches on format. CSV is not offered for overviews.
func WriteOverview(w io.Writer, format string, rep analysis.OverviewReport) error {
	switch format {
	case "", "table":
		return WriteOverviewTable(w, rep)
	case "json":
		return WriteJSON(w, rep)
	}
	return fmt.Errorf("unsupported overview format %q", format)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f min", *v)
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
