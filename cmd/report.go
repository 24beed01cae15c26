package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	sim "github.com/inference-sim/queue-eta/sim"
	"github.com/inference-sim/queue-eta/sim/trace"
)

var validOutputFormats = map[string]bool{"text": true, "json": true}

// ServerLine is one server as shown in a report.
type ServerLine struct {
	Name        string  `json:"name"`
	ServiceTime float64 `json:"service_time_min"`
}

// Report is the printable outcome of one estimation.
type Report struct {
	Servers  []ServerLine        `json:"servers"`
	Result   sim.Result          `json:"result"`
	ServedBy string              `json:"served_by"`
	Trace    *trace.TraceSummary `json:"trace,omitempty"` // nil unless tracing was enabled
}

// NewReport builds a report; st may be nil.
func NewReport(servers []sim.Server, res sim.Result, st *trace.AssignmentTrace) *Report {
	r := &Report{
		Servers: make([]ServerLine, len(servers)),
		Result:  res,
	}
	for i, s := range servers {
		r.Servers[i] = ServerLine{Name: s.Label(i), ServiceTime: s.ServiceTime}
	}
	if res.ServerIndex >= 0 && res.ServerIndex < len(r.Servers) {
		r.ServedBy = r.Servers[res.ServerIndex].Name
	}
	if st != nil && st.Config.Enabled() {
		r.Trace = trace.Summarize(st)
	}
	return r
}

// Write renders the report in the given format ("text" or "json").
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return nil
	case "text", "":
		return r.writeText(w)
	default:
		return fmt.Errorf("unknown output format %q; valid: text, json", format)
	}
}

func (r *Report) writeText(w io.Writer) error {
	lines := []string{
		"=== Wait Time Estimate ===",
		fmt.Sprintf("Servers              : %d", len(r.Servers)),
		fmt.Sprintf("Position             : %d", r.Result.Position),
		fmt.Sprintf("Estimated Wait       : %.2f minutes", r.Result.WaitTime),
		fmt.Sprintf("Served By            : %s", r.ServedBy),
	}
	if r.Trace != nil {
		lines = append(lines, "=== Customers Ahead ===")
		indices := make([]int, 0, len(r.Trace.PerServer))
		for idx := range r.Trace.PerServer {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			lines = append(lines, fmt.Sprintf("%-21s: %d served, busy %.2f minutes",
				r.Servers[idx].Name, r.Trace.PerServer[idx], r.Trace.BusyTime[idx]))
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
