package main

import (
	"fmt"
	"math"

	"github.com/annel0/voxel-core/internal/sim"
	"github.com/annel0/voxel-core/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// walker ходит по кругу над миром и смотрит вперёд-вниз
type walker struct {
	id     string
	center mgl32.Vec3
	radius float32
	speed  float32 // рад/с
	angle  float32
}

// script - набор скриптовых игроков вместо реального ввода
type script struct {
	walkers []*walker
	frame   uint64
}

func newScript(n int) *script {
	s := &script{}
	for i := 0; i < n; i++ {
		s.walkers = append(s.walkers, &walker{
			id:     fmt.Sprintf("bot-%d", i),
			center: mgl32.Vec3{float32(i * 64), 18, 0},
			radius: 40,
			speed:  0.05 * float32(i+1),
			angle:  float32(i) * math.Pi / 2,
		})
	}
	return s
}

// Step продвигает игроков на dt секунд и возвращает ввод кадра.
// Каждый 30-й кадр игроки ломают блок, каждый 45-й ставят песок.
func (s *script) Step(dt float32) sim.Input {
	s.frame++
	in := sim.Input{DeltaTime: dt}
	for _, w := range s.walkers {
		w.angle += w.speed * dt
		sin, cos := math.Sincos(float64(w.angle))
		pos := w.center.Add(mgl32.Vec3{w.radius * float32(cos), 0, w.radius * float32(sin)})

		in.Players = append(in.Players, sim.PlayerInput{
			ID:         w.id,
			Position:   pos,
			Look:       sim.LookVector(-w.angle, -0.6),
			Break:      s.frame%30 == 0,
			Place:      s.frame%45 == 0,
			PlaceBlock: block.SandBlockID,
		})
	}
	return in
}
