package sim

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queue-eta/sim/internal/testutil"
	"github.com/inference-sim/queue-eta/sim/trace"
)

func TestEstimate_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			res, err := EstimateResult(NewServers(tc.ServiceTimes...), tc.Position, nil)
			require.NoError(t, err)
			testutil.AssertFloat64Equal(t, "wait_time", tc.WaitTime, res.WaitTime, 1e-9)
			assert.Equal(t, tc.ServerIndex, res.ServerIndex, "server_index")
			assert.Equal(t, tc.Position, res.Position)
		})
	}
}

func TestEstimate_PositionWithinServerCount_ReturnsExactlyZero(t *testing.T) {
	// GIVEN servers with assorted service times, including zero
	servers := NewServers(0, 3.5, 100, 7)

	// WHEN every position in [1, m] is estimated
	// THEN the wait is exactly 0.0, independent of service times
	for k := 1; k <= len(servers); k++ {
		got, err := Estimate(servers, k)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got, "position %d", k)
	}
}

func TestEstimate_SingleServer_WaitIsDurationTimesPredecessors(t *testing.T) {
	// GIVEN a single server with service time d
	d := 4.5
	servers := NewServers(d)

	// WHEN position k is estimated
	// THEN the wait is d*(k-1)
	for k := 1; k <= 20; k++ {
		got, err := Estimate(servers, k)
		require.NoError(t, err)
		assert.InDelta(t, d*float64(k-1), got, 1e-9, "position %d", k)
	}
}

func TestEstimate_TwoIdenticalServers_FifthStartsAtTen(t *testing.T) {
	got, err := Estimate(NewServers(5, 5), 5)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)
}

func TestEstimate_FastAndSlowServer_FourthStartsAtFour(t *testing.T) {
	// GIVEN A=2 and B=10
	// pos1→A (0→2), pos2→B (0→10), pos3→A (2→4); target starts at min(4, 10)
	got, err := Estimate(NewServers(2, 10), 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
}

func TestEstimate_Monotonic_NonDecreasingInPosition(t *testing.T) {
	servers := NewServers(3, 7, 0.5, 11, 2)
	prev := -1.0
	for k := 1; k <= 200; k++ {
		got, err := Estimate(servers, k)
		require.NoError(t, err)
		if got < prev {
			t.Fatalf("position %d: wait %f decreased from %f", k, got, prev)
		}
		prev = got
	}
}

func TestEstimate_ZeroDurationServer_AbsorbsEveryone(t *testing.T) {
	// GIVEN one server that is immediately free again after each customer
	servers := NewServers(10, 0)

	// WHEN a far-back position is estimated
	got, err := Estimate(servers, 10_000)

	// THEN nobody waits
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEstimate_LargePosition_MatchesClosedForm(t *testing.T) {
	// GIVEN m identical servers with duration d, position k
	// THEN wait = d * floor((k-1)/m)
	servers := NewServers(3, 3, 3, 3, 3, 3, 3)
	k := 1_000_003
	got, err := Estimate(servers, k)
	require.NoError(t, err)
	want := 3 * math.Floor(float64(k-1)/float64(len(servers)))
	assert.InDelta(t, want, got, 1e-6)
}

func TestEstimate_EmptyServers_ReturnsInvalidInputError(t *testing.T) {
	_, err := Estimate(nil, 1)

	var inputErr *InvalidInputError
	require.True(t, errors.As(err, &inputErr), "expected *InvalidInputError, got %v", err)
	assert.Equal(t, ReasonEmptyServers, inputErr.Reason)
	assert.Equal(t, "invalid input: empty server set", err.Error())
}

func TestEstimate_PositionBelowOne_ReturnsInvalidInputError(t *testing.T) {
	for _, k := range []int{0, -1, math.MinInt} {
		_, err := Estimate(NewServers(1), k)

		var inputErr *InvalidInputError
		require.True(t, errors.As(err, &inputErr), "position %d: expected *InvalidInputError, got %v", k, err)
		assert.Equal(t, ReasonPositionOutOfRange, inputErr.Reason)
	}
}

func TestEstimate_EmptyServersCheckedBeforePosition(t *testing.T) {
	_, err := Estimate([]Server{}, 0)

	var inputErr *InvalidInputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, ReasonEmptyServers, inputErr.Reason)
}

func TestEstimate_InvalidServiceTime_ReturnsInvalidInputError(t *testing.T) {
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		// Rejected even when the position would short-circuit.
		_, err := Estimate(NewServers(2, d), 1)

		var inputErr *InvalidInputError
		require.True(t, errors.As(err, &inputErr), "service time %v: expected *InvalidInputError, got %v", d, err)
		assert.Equal(t, ReasonInvalidServiceTime, inputErr.Reason)
	}
}

func TestEstimate_DoesNotMutateInput(t *testing.T) {
	servers := []Server{{Name: "a", ServiceTime: 2}, {Name: "b", ServiceTime: 10}}
	snapshot := append([]Server(nil), servers...)

	_, err := Estimate(servers, 25)

	require.NoError(t, err)
	assert.Equal(t, snapshot, servers)
}

func TestEstimate_ConcurrentCallers_ShareReadOnlyServers(t *testing.T) {
	servers := NewServers(2, 10, 3)
	want, err := Estimate(servers, 500)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Estimate(servers, 500)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "goroutine %d", i)
	}
}

func TestEstimateResult_Trace_RecordsEveryCustomerAhead(t *testing.T) {
	// GIVEN A=2, B=10 and an enabled trace
	st := trace.NewAssignmentTrace(trace.TraceConfig{Level: trace.TraceLevelAssignments})

	// WHEN position 4 is estimated
	res, err := EstimateResult(NewServers(2, 10), 4, st)
	require.NoError(t, err)

	// THEN the walk from the hand-worked example is recorded
	want := []trace.AssignmentRecord{
		{Position: 1, ServerIndex: 0, StartTime: 0, FreeAt: 2},
		{Position: 2, ServerIndex: 1, StartTime: 0, FreeAt: 10},
		{Position: 3, ServerIndex: 0, StartTime: 2, FreeAt: 4},
	}
	assert.Equal(t, want, st.Assignments)
	assert.Equal(t, Result{Position: 4, WaitTime: 4, ServerIndex: 0}, res)
}

func TestEstimateResult_Trace_StartTimesNonDecreasing(t *testing.T) {
	st := trace.NewAssignmentTrace(trace.TraceConfig{Level: trace.TraceLevelAssignments})
	k := 300

	_, err := EstimateResult(NewServers(3, 7, 0.5, 11), k, st)
	require.NoError(t, err)

	require.Len(t, st.Assignments, k-1)
	for i := 1; i < len(st.Assignments); i++ {
		if st.Assignments[i].StartTime < st.Assignments[i-1].StartTime {
			t.Fatalf("assignment %d starts at %f before previous %f",
				i, st.Assignments[i].StartTime, st.Assignments[i-1].StartTime)
		}
	}
}

func TestEstimateResult_Trace_WithinIdleServers(t *testing.T) {
	st := trace.NewAssignmentTrace(trace.TraceConfig{Level: trace.TraceLevelAssignments})

	res, err := EstimateResult(NewServers(12.5, 8, 20), 3, st)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.WaitTime)
	assert.Equal(t, 2, res.ServerIndex)
	require.Len(t, st.Assignments, 2)
	assert.Equal(t, trace.AssignmentRecord{Position: 2, ServerIndex: 1, StartTime: 0, FreeAt: 8}, st.Assignments[1])
}

func TestEstimateResult_DisabledTrace_RecordsNothing(t *testing.T) {
	st := trace.NewAssignmentTrace(trace.TraceConfig{Level: trace.TraceLevelNone})

	_, err := EstimateResult(NewServers(2, 10), 40, st)

	require.NoError(t, err)
	assert.Empty(t, st.Assignments)
}

func TestEstimateResult_TieBreak_LowestIndexWins(t *testing.T) {
	// GIVEN three identical servers, all free again at t=5 after the first round
	st := trace.NewAssignmentTrace(trace.TraceConfig{Level: trace.TraceLevelAssignments})

	res, err := EstimateResult(NewServers(5, 5, 5), 6, st)
	require.NoError(t, err)

	// THEN each round is dealt in index order
	gotIdx := make([]int, 0, len(st.Assignments))
	for _, a := range st.Assignments {
		gotIdx = append(gotIdx, a.ServerIndex)
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1}, gotIdx)
	assert.Equal(t, 2, res.ServerIndex)
	assert.Equal(t, 5.0, res.WaitTime)
}
