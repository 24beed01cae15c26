package trace

// TraceLevel controls the verbosity of assignment tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelAssignments captures every customer-to-server assignment ahead of the target.
	TraceLevelAssignments TraceLevel = "assignments"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelAssignments: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelAssignments
}

// AssignmentTrace collects assignment records during one estimation.
type AssignmentTrace struct {
	Config      TraceConfig
	Assignments []AssignmentRecord
}

// NewAssignmentTrace creates an AssignmentTrace ready for recording.
func NewAssignmentTrace(config TraceConfig) *AssignmentTrace {
	return &AssignmentTrace{
		Config:      config,
		Assignments: make([]AssignmentRecord, 0),
	}
}

// RecordAssignment appends an assignment record.
func (at *AssignmentTrace) RecordAssignment(record AssignmentRecord) {
	at.Assignments = append(at.Assignments, record)
}
