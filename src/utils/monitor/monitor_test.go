package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRateSamplingWithDefaults(t *testing.T) {
	// No WithMaxHistorySize override, sampling must still work
	m := NewMonitor()

	// No updates yet, the first zero is skipped
	require.NoError(t, m.monitorUpdates())

	m.Report.Registry.State.SidecarUpdatesApplied.Add(10)
	require.NoError(t, m.monitorUpdates())
	m.Report.Registry.State.SignerUpdatesApplied.Add(20)
	require.NoError(t, m.monitorUpdates())

	assert.Equal(t, 10.0, m.Report.Registry.State.AverageUpdatesPerMinute.Load())
	assert.NotZero(t, m.Report.Run.StartTimestamp.Load())
}

func TestUpdateRateHistoryTrimming(t *testing.T) {
	m := NewMonitor().WithMaxHistorySize(2)

	m.Report.Registry.State.SidecarUpdatesApplied.Add(1)
	for i := 0; i < 5; i++ {
		m.Report.Registry.State.SidecarUpdatesApplied.Add(2)
		require.NoError(t, m.monitorUpdates())
	}

	assert.LessOrEqual(t, m.updateCounts.Len(), 2)
}
