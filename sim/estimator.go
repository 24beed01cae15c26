package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-eta/sim/trace"
)

// Reasons carried by InvalidInputError.
const (
	ReasonEmptyServers       = "empty server set"
	ReasonPositionOutOfRange = "position out of range"
	ReasonInvalidServiceTime = "invalid service time"
)

// InvalidInputError is returned when a query cannot be estimated.
// Detected at call entry; no computation happens before validation.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// Result describes when and where the target customer starts service.
type Result struct {
	Position    int     `json:"position"`
	WaitTime    float64 `json:"wait_time_min"`
	ServerIndex int     `json:"server_index"` // server that takes the target; position-1 when it is among the first len(servers)
}

// Estimate returns the time, in the servers' unit, at which the customer at the
// 1-based position starts service. All servers are idle at t=0 and every
// customer ahead is routed to the earliest-free server (lowest index on ties).
//
// Runs in O(position · log len(servers)) time and O(len(servers)) space.
// servers is read, never written, so callers may share it across goroutines.
func Estimate(servers []Server, position int) (float64, error) {
	res, err := EstimateResult(servers, position, nil)
	if err != nil {
		return 0, err
	}
	return res.WaitTime, nil
}

// EstimateResult is Estimate plus the serving server. When st is non-nil and
// enabled, one AssignmentRecord is appended per customer ahead of the target.
func EstimateResult(servers []Server, position int, st *trace.AssignmentTrace) (Result, error) {
	if err := validateQuery(servers, position); err != nil {
		return Result{}, err
	}
	recording := st != nil && st.Config.Enabled()

	m := len(servers)
	if position <= m {
		// Everyone up to and including the target gets an idle server at t=0.
		if recording {
			for p := 1; p < position; p++ {
				st.RecordAssignment(trace.AssignmentRecord{
					Position:    p,
					ServerIndex: p - 1,
					FreeAt:      servers[p-1].ServiceTime,
				})
			}
		}
		logrus.Debugf("estimate: position %d within %d idle servers, wait 0", position, m)
		return Result{Position: position, WaitTime: 0.0, ServerIndex: position - 1}, nil
	}

	h := newServerHeap(m)
	for p := 1; p < position; p++ {
		free := h.Peek()
		slot := h.Occupy(servers[free.index].ServiceTime)
		if recording {
			st.RecordAssignment(trace.AssignmentRecord{
				Position:    p,
				ServerIndex: slot.index,
				StartTime:   free.nextFree,
				FreeAt:      slot.nextFree,
			})
		}
	}

	next := h.Peek()
	logrus.Debugf("estimate: position %d across %d servers, wait %.4f on server %d", position, m, next.nextFree, next.index)
	return Result{Position: position, WaitTime: next.nextFree, ServerIndex: next.index}, nil
}

func validateQuery(servers []Server, position int) error {
	if len(servers) == 0 {
		return &InvalidInputError{Reason: ReasonEmptyServers}
	}
	if position < 1 {
		return &InvalidInputError{Reason: ReasonPositionOutOfRange}
	}
	for _, s := range servers {
		if !validServiceTime(s.ServiceTime) {
			return &InvalidInputError{Reason: ReasonInvalidServiceTime}
		}
	}
	return nil
}
