// Package particles simulates the snow and rain weather layers: a fixed
// pool of particles with Euler integration, ground handling (splash for
// rain, settle for snow), respawn on expiry, and a coherent-noise wind field
// that drifts falling particles sideways.
package particles

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Type selects the weather mode for the whole pool.
type Type int

const (
	Snow Type = iota
	Rain
)

// Particle states.
const (
	stateFalling  = 0
	stateGrounded = 1
)

const (
	poolSize     = 10000
	splashTime   = 0.2
	windFreq     = 0.08
	windStrength = 1.6
)

// Particle is one pool entry. The whole struct is rewritten on respawn.
type Particle struct {
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3

	Color      mgl32.Vec4
	DeltaColor mgl32.Vec4

	Size      float32
	DeltaSize float32

	LifeSpan      float32
	LifeRemaining float32

	State int
}

// System owns the pool. Update advances every particle synchronously; there
// is no background stepping.
type System struct {
	typ   Type
	pool  [poolSize]Particle
	rng   *rand.Rand
	wind  *perlin.Perlin
	clock float64
}

// NewSystem builds a pool of the given type. The RNG seed fixes the respawn
// sequence, so a system is reproducible run to run.
func NewSystem(typ Type, seed int64) *System {
	s := &System{
		typ:  typ,
		rng:  rand.New(rand.NewSource(seed)),
		wind: perlin.NewPerlin(2, 2, 3, seed),
	}
	for i := range s.pool {
		s.respawn(&s.pool[i])
	}
	return s
}

// Type reports the active weather mode.
func (s *System) Type() Type {
	return s.typ
}

// Count returns the fixed pool size.
func (s *System) Count() int {
	return poolSize
}

// SetType switches weather mode and resets the whole pool.
func (s *System) SetType(typ Type) {
	s.typ = typ
	for i := range s.pool {
		s.respawn(&s.pool[i])
	}
}

func (s *System) respawn(p *Particle) {
	u := func() float32 { return s.rng.Float32() }

	p.State = stateFalling
	p.LifeSpan = 20 + 10*u()
	p.LifeRemaining = p.LifeSpan
	p.DeltaSize = 0

	switch s.typ {
	case Snow:
		p.Position = mgl32.Vec3{-30 + 60*u(), 25, -30 + 60*u()}
		p.Velocity = mgl32.Vec3{0, -1 - u(), 0}
		p.Acceleration = mgl32.Vec3{0.5*u() - 0.25, 0, 0.5*u() - 0.25}
		p.Color = mgl32.Vec4{1, 0.98, 0.98, 0.9}
		p.DeltaColor = mgl32.Vec4{0, 0, 0, -0.02}
		p.Size = 0.02 + 0.03*u()
	case Rain:
		p.Position = mgl32.Vec3{-20 + 40*u(), 10 + 10*u(), -20 + 40*u()}
		p.Velocity = mgl32.Vec3{0, -8 - 4*u(), 0}
		p.Acceleration = mgl32.Vec3{0, -5, 0}
		p.Color = mgl32.Vec4{0.8, 0.9, 1.0, 0.5}
		p.DeltaColor = mgl32.Vec4{}
		p.Size = 0.03
	}
}

// Update advances the pool by dt seconds: wind drift, Euler integration,
// ground handling, and respawn of expired particles.
func (s *System) Update(dt float32) {
	s.clock += float64(dt)

	for i := range s.pool {
		p := &s.pool[i]

		accel := p.Acceleration
		if p.State == stateFalling {
			// coherent wind: same field for every particle, sampled at its
			// own position so gusts sweep through the volume
			w := s.wind.Noise3D(
				float64(p.Position.X())*windFreq,
				float64(p.Position.Z())*windFreq,
				s.clock*windFreq,
			)
			accel = accel.Add(mgl32.Vec3{float32(w) * windStrength, 0, float32(w) * windStrength * 0.4})
		}

		p.Velocity = p.Velocity.Add(accel.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Color = p.Color.Add(p.DeltaColor.Mul(dt))
		p.Size += p.DeltaSize * dt
		p.LifeRemaining -= dt

		if p.State == stateFalling && p.Position.Y() < 0 {
			switch s.typ {
			case Rain:
				p.State = stateGrounded
				p.LifeRemaining = splashTime
				p.Position = mgl32.Vec3{p.Position.X(), 0, p.Position.Z()}
				p.Velocity = mgl32.Vec3{0, 1 + 2*s.rng.Float32(), 0}
				p.Acceleration = mgl32.Vec3{0, -9.8, 0}
			case Snow:
				p.State = stateGrounded
				p.Position = mgl32.Vec3{p.Position.X(), 0, p.Position.Z()}
				p.Velocity = mgl32.Vec3{}
				p.Acceleration = mgl32.Vec3{}
			}
		}

		if p.LifeRemaining <= 0 {
			s.respawn(p)
		}
	}
}

// Positions snapshots the pool into a flat xyz buffer for the renderer.
func (s *System) Positions() []float32 {
	out := make([]float32, 0, poolSize*3)
	for i := range s.pool {
		p := s.pool[i].Position
		out = append(out, p.X(), p.Y(), p.Z())
	}
	return out
}

// Colors snapshots the pool into a flat rgba buffer.
func (s *System) Colors() []float32 {
	out := make([]float32, 0, poolSize*4)
	for i := range s.pool {
		c := s.pool[i].Color
		out = append(out, c.X(), c.Y(), c.Z(), c.W())
	}
	return out
}

// Sizes snapshots the per-particle point sizes.
func (s *System) Sizes() []float32 {
	out := make([]float32, 0, poolSize)
	for i := range s.pool {
		out = append(out, s.pool[i].Size)
	}
	return out
}
