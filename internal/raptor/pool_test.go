package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitmesh/router/internal/timetable"
)

func TestPooledRunnerMatchesSweep(t *testing.T) {
	tt := twoRouteTransferFixture(t)
	runner := NewPooledRunner()

	state := runner.Run(tt, []AccessStop{{Stop: 0, Duration: 0}}, 2, nil)
	assert.Equal(t, timetable.Seconds(250), state.TauStar[3])
	runner.Release(tt, 2, state)
}

func TestPooledRunnerReusedStateStartsClean(t *testing.T) {
	tt := twoRouteTransferFixture(t)
	runner := NewPooledRunner()

	first := runner.Run(tt, []AccessStop{{Stop: 0, Duration: 0}}, 2, nil)
	require.Equal(t, timetable.Seconds(250), first.TauStar[3])
	runner.Release(tt, 2, first)

	// A query from a different origin must not see stop 3's previous result
	// leaking through the recycled backing arrays.
	second := runner.Run(tt, []AccessStop{{Stop: 2, Duration: 0}}, 2, nil)
	assert.Equal(t, timetable.Seconds(250), second.TauStar[3])
	assert.Equal(t, timetable.Unreachable, second.TauStar[0], "stop 0 was only reachable from the first query's origin")
	runner.Release(tt, 2, second)
}
