package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gather возвращает сумму значений каждого семейства метрик регистра
func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[f.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[f.GetName()] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[f.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestWorldMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorldMetrics(reg)

	m.AddGenerated(3)
	m.AddEvicted(1)
	m.AddRemeshed(2)
	m.Raycast(true)
	m.Raycast(false)
	m.Raycast(false)
	m.BlockEdit("break")
	m.BlockEdit("place")
	m.SetWorldState(10, 4, 1200)
	m.ObservePhase("mesh", 0.002)

	values := gather(t, reg)
	assert.Equal(t, 3.0, values["voxel_chunks_generated_total"])
	assert.Equal(t, 1.0, values["voxel_chunks_evicted_total"])
	assert.Equal(t, 2.0, values["voxel_chunks_remeshed_total"])
	assert.Equal(t, 1.0, values["voxel_raycast_hits_total"])
	assert.Equal(t, 2.0, values["voxel_raycast_misses_total"])
	assert.Equal(t, 2.0, values["voxel_block_edits_total"])
	assert.Equal(t, 10.0, values["voxel_chunks_loaded"])
	assert.Equal(t, 4.0, values["voxel_chunks_dirty"])
	assert.Equal(t, 1200.0, values["voxel_mesh_vertices"])
	assert.Equal(t, 1.0, values["voxel_frame_phase_duration_seconds"])
}

func TestWorldMetrics_SeparateRegistries(t *testing.T) {
	// повторная регистрация в разных регистрах не паникует
	assert.NotPanics(t, func() {
		NewWorldMetrics(prometheus.NewRegistry())
		NewWorldMetrics(prometheus.NewRegistry())
	})
}
