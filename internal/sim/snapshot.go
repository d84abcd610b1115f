package sim

import (
	"time"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/raycast"
)

// Snapshot - неизменяемая сводка мира после завершения кадра.
// Читатели (отладочный API) видят только снимки, а не живой мир.
type Snapshot struct {
	Frame         uint64                      `json:"frame"`
	LoadedChunks  int                         `json:"loaded_chunks"`
	DirtyChunks   int                         `json:"dirty_chunks"`
	CachedMeshes  int                         `json:"cached_meshes"`
	TotalVertices int                         `json:"total_vertices"`
	Chunks        []vec.Vec3                  `json:"chunks"`
	Players       map[string]vec.Vec3         `json:"players"`
	Targets       map[string]raycast.LookedAt `json:"targets"`
	TakenAt       time.Time                   `json:"taken_at"`
}

// Snapshot возвращает снимок последнего завершённого кадра
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

func (e *Engine) takeSnapshot(players []PlayerInput) Snapshot {
	snap := Snapshot{
		Frame:         e.frame,
		LoadedChunks:  e.world.Len(),
		DirtyChunks:   len(e.world.DirtyCoords()),
		CachedMeshes:  e.scheduler.Cache.Len(),
		TotalVertices: e.scheduler.Cache.TotalVertices(),
		Chunks:        e.world.Coords(),
		Players:       make(map[string]vec.Vec3, len(players)),
		Targets:       make(map[string]raycast.LookedAt, len(e.targets)),
		TakenAt:       time.Now(),
	}
	for _, p := range players {
		snap.Players[p.ID] = vec.ChunkOf(p.Position)
	}
	for id, t := range e.targets {
		snap.Targets[id] = t
	}
	return snap
}
