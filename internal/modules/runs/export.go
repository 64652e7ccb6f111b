package runs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ExportCSV writes a run as CSV. Delivery runs export the trajectory as
// step,x,y,z,velocity rows; reprogramming runs export the measurement
// histogram as state,count,probability rows.
func ExportCSV(w io.Writer, run *Run) error {
	switch run.Kind {
	case KindDelivery:
		return exportDeliveryCSV(w, run)
	case KindReprogramming:
		return exportReprogrammingCSV(w, run)
	default:
		return fmt.Errorf("unknown run kind: %s", run.Kind)
	}
}

func exportDeliveryCSV(w io.Writer, run *Run) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"step", "x", "y", "z", "velocity"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range run.Samples {
		record := []string{
			strconv.Itoa(s.Step),
			formatFloat(s.Position[0]),
			formatFloat(s.Position[1]),
			formatFloat(s.Position[2]),
			formatFloat(s.Velocity),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportReprogrammingCSV(w io.Writer, run *Run) error {
	var summary ReprogrammingSummary
	if err := json.Unmarshal(run.Summary, &summary); err != nil {
		return fmt.Errorf("failed to decode run summary: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"state", "count", "probability"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, sc := range summary.Histogram {
		record := []string{
			sc.Bitstring,
			strconv.Itoa(sc.Count),
			formatFloat(sc.Probability),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
