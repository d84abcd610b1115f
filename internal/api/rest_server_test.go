package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/annel0/voxel-core/internal/sim"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/mesh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snapshot sim.Snapshot
	meshes   map[vec.Vec3][]mesh.Vertex
}

func (f *fakeSource) Snapshot() sim.Snapshot { return f.snapshot }

func (f *fakeSource) Mesh(coords vec.Vec3) ([]mesh.Vertex, bool) {
	m, ok := f.meshes[coords]
	return m, ok
}

func newTestServer(t *testing.T) (*RestServer, *fakeSource) {
	t.Helper()
	source := &fakeSource{
		snapshot: sim.Snapshot{
			Frame:        12,
			LoadedChunks: 3,
			Chunks:       []vec.Vec3{vec.New(-1, 0, 0), vec.New(0, 0, 0), vec.New(1, 0, 0)},
		},
		meshes: map[vec.Vec3][]mesh.Vertex{
			vec.New(-1, 0, 2): {mesh.Pack(0, 0, 1, vec.North, 5), mesh.Pack(16, 16, 16, vec.Up, 9)},
		},
	}
	rs, err := NewRestServer(Config{Source: source, RunID: "run-1", Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	t.Cleanup(func() { rs.encoder.Close() })
	return rs, source
}

func get(t *testing.T, rs *RestServer, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	rs.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestNewRestServer_RequiresSource(t *testing.T) {
	_, err := NewRestServer(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	rs, _ := newTestServer(t)
	w := get(t, rs, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestWorldSnapshot(t *testing.T) {
	rs, _ := newTestServer(t)
	w := get(t, rs, "/api/world")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    sim.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint64(12), resp.Data.Frame)
	assert.Equal(t, 3, resp.Data.LoadedChunks)
	assert.Equal(t, vec.New(-1, 0, 0), resp.Data.Chunks[0])
}

func TestServerInfo(t *testing.T) {
	rs, _ := newTestServer(t)
	w := get(t, rs, "/api/server")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"run_id":"run-1"`)
	assert.Contains(t, w.Body.String(), `"frame":12`)
}

func TestChunkMesh(t *testing.T) {
	rs, source := newTestServer(t)

	w := get(t, rs, "/api/chunks/mesh?x=-1&y=0&z=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MeshContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "2", w.Header().Get(VertexCountHeader))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	vertices, err := DecodeMesh(body)
	require.NoError(t, err)
	assert.Equal(t, source.meshes[vec.New(-1, 0, 2)], vertices)
}

func TestChunkMesh_Errors(t *testing.T) {
	rs, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, rs, "/api/chunks/mesh?x=5&y=0&z=5").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, rs, "/api/chunks/mesh?x=a&y=0&z=5").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, rs, "/api/chunks/mesh?x=1").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rs, _ := newTestServer(t)
	get(t, rs, "/health")

	w := get(t, rs, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "debug_api_http_request_duration_seconds")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "42с", formatUptime(42*time.Second))
	assert.Equal(t, "3м 5с", formatUptime(3*time.Minute+5*time.Second))
	assert.Equal(t, "2ч 0м 1с", formatUptime(2*time.Hour+time.Second))
	assert.Equal(t, "1д 1ч 0м 0с", formatUptime(25*time.Hour))
	assert.Equal(t, strconv.Itoa(0)+"с", formatUptime(0))
}
