package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxel"

// WorldMetrics инкапсулирует Prometheus-метрики ядра мира.
// Обновляется драйвером кадра после фазы изменений.
type WorldMetrics struct {
	chunksLoaded  prometheus.Gauge
	chunksDirty   prometheus.Gauge
	meshVertices  prometheus.Gauge
	generated     prometheus.Counter
	evicted       prometheus.Counter
	remeshed      prometheus.Counter
	raycastHits   prometheus.Counter
	raycastMisses prometheus.Counter
	blockEdits    *prometheus.CounterVec
	frameDuration *prometheus.HistogramVec
}

// NewWorldMetrics создаёт метрики и регистрирует их в reg.
// nil - глобальный регистр Prometheus.
func NewWorldMetrics(reg prometheus.Registerer) *WorldMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &WorldMetrics{
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Количество загруженных чанков.",
		}),
		chunksDirty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_dirty",
			Help:      "Чанки, ожидающие перестроения сетки.",
		}),
		meshVertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mesh_vertices",
			Help:      "Суммарное число вершин в кэше сеток.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Сгенерированные чанки.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_evicted_total",
			Help:      "Выгруженные чанки.",
		}),
		remeshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_remeshed_total",
			Help:      "Перестроенные сетки чанков.",
		}),
		raycastHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raycast_hits_total",
			Help:      "Лучи, попавшие в блок.",
		}),
		raycastMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raycast_misses_total",
			Help:      "Лучи без пересечения.",
		}),
		blockEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_edits_total",
			Help:      "Изменения блоков игроками.",
		}, []string{"kind"}),
		frameDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_phase_duration_seconds",
			Help:      "Длительность фаз кадра.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"phase"}),
	}

	reg.MustRegister(
		m.chunksLoaded, m.chunksDirty, m.meshVertices,
		m.generated, m.evicted, m.remeshed,
		m.raycastHits, m.raycastMisses,
		m.blockEdits, m.frameDuration,
	)
	return m
}

// ObservePhase записывает длительность фазы кадра в секундах
func (m *WorldMetrics) ObservePhase(phase string, seconds float64) {
	m.frameDuration.WithLabelValues(phase).Observe(seconds)
}

// AddGenerated увеличивает счётчик сгенерированных чанков
func (m *WorldMetrics) AddGenerated(n int) { m.generated.Add(float64(n)) }

// AddEvicted увеличивает счётчик выгруженных чанков
func (m *WorldMetrics) AddEvicted(n int) { m.evicted.Add(float64(n)) }

// AddRemeshed увеличивает счётчик перестроенных сеток
func (m *WorldMetrics) AddRemeshed(n int) { m.remeshed.Add(float64(n)) }

// Raycast учитывает результат луча
func (m *WorldMetrics) Raycast(hit bool) {
	if hit {
		m.raycastHits.Inc()
		return
	}
	m.raycastMisses.Inc()
}

// BlockEdit учитывает правку блока ("break" или "place")
func (m *WorldMetrics) BlockEdit(kind string) {
	m.blockEdits.WithLabelValues(kind).Inc()
}

// SetWorldState обновляет датчики состояния мира
func (m *WorldMetrics) SetWorldState(loaded, dirty, vertices int) {
	m.chunksLoaded.Set(float64(loaded))
	m.chunksDirty.Set(float64(dirty))
	m.meshVertices.Set(float64(vertices))
}
