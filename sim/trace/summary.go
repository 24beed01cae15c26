package trace

// TraceSummary aggregates statistics from an AssignmentTrace.
type TraceSummary struct {
	TotalAssignments int             `json:"total_assignments"`
	PerServer        map[int]int     `json:"per_server"` // server index → customers served ahead of the target
	BusyTime         map[int]float64 `json:"busy_time"`  // server index → minutes spent serving them
	LastStart        float64         `json:"last_start"` // latest start time among recorded assignments
}

// Summarize computes aggregate statistics from an AssignmentTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(at *AssignmentTrace) *TraceSummary {
	summary := &TraceSummary{
		PerServer: make(map[int]int),
		BusyTime:  make(map[int]float64),
	}
	if at == nil {
		return summary
	}

	summary.TotalAssignments = len(at.Assignments)
	for _, a := range at.Assignments {
		summary.PerServer[a.ServerIndex]++
		summary.BusyTime[a.ServerIndex] += a.FreeAt - a.StartTime
		if a.StartTime > summary.LastStart {
			summary.LastStart = a.StartTime
		}
	}

	return summary
}
