// Package terrain composes layered gradient noise into a heightfield with
// optional domain warping, terraced cliffs, ridged river carving and crater
// stamping, and emits the triangulated surface mesh derived from it.
package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/noise"
)

const defaultResolution = 256

// Generator evaluates the height pipeline over the normalized [0,1]^2 domain.
// Heights are a pure function of (x, y) and the captured Params; the gradient
// table is precomputed at construction and read-only afterwards.
type Generator struct {
	params     Params
	field      *noise.Field
	resolution int
}

// NewGenerator builds a Generator for the given parameters. The gradient
// table derives from Params.Seed.
func NewGenerator(params Params) *Generator {
	return &Generator{
		params:     params,
		field:      noise.New(params.Seed),
		resolution: defaultResolution,
	}
}

// SetParams replaces the captured parameter snapshot. The gradient table is
// rebuilt only when the seed changes.
func (g *Generator) SetParams(p Params) {
	if p.Seed != g.field.Seed() {
		g.field = noise.New(p.Seed)
	}
	g.params = p
}

// Params returns the current parameter snapshot.
func (g *Generator) Params() Params {
	return g.params
}

// Resolution reports the grid size used by GenerateTerrain.
func (g *Generator) Resolution() int {
	return g.resolution
}

// Field exposes the underlying noise source for callers that layer their own
// lookups on the same table.
func (g *Generator) Field() *noise.Field {
	return g.field
}

// terrace01 remaps a [0,1] height onto stepped plateaus joined by smooth
// risers of half-width smoothWidth. steps <= 1 is the identity.
func terrace01(h01 float64, steps int, smoothWidth float64) float64 {
	if steps <= 1 {
		return h01
	}
	x := h01 * float64(steps)
	i := math.Floor(x)
	f := x - i
	ramp := smoothstep(0.5-smoothWidth, 0.5+smoothWidth, f)
	return (i + ramp) / float64(steps)
}

// smoothstep is the GLSL form. Callers may pass edge0 > edge1 to invert the
// ramp; the t clamp handles both orders.
func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mix(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Height evaluates the full pipeline at (x, y) and returns the world-scaled
// height. The stage order is part of the contract: warp, base fBm, terrace,
// river carve, crater carve, ocean bias, height scale.
func (g *Generator) Height(x, y float64) float64 {
	p := mgl64.Vec2{x, y}

	// 1) domain warping
	if g.params.WarpStrength > 0 {
		w := mgl64.Vec2{
			g.field.FractalSum(p.Mul(2).Add(mgl64.Vec2{13.2, 7.1}), 3, 1.0, 2.0, 0.5),
			g.field.FractalSum(p.Mul(2).Add(mgl64.Vec2{-9.7, 5.4}), 3, 1.0, 2.0, 0.5),
		}
		p = p.Add(w.Mul(g.params.WarpStrength))
	}

	// 2) base fBm
	h := g.field.FractalSum(p, g.params.Octaves, g.params.BaseFreq, g.params.Lacunarity, g.params.Gain)

	// 3) cliff terraces
	if g.params.CliffSteps > 1 {
		h01 := 0.5 * (h + 1)
		h01 = terrace01(h01, g.params.CliffSteps, g.params.CliffSmooth)
		h = h01*2 - 1
	}

	// 4) rivers: carve valleys where the ridged signal crosses the threshold
	if g.params.EnableRivers {
		r := g.field.FractalSum(p.Mul(g.params.RiverFreq), 4, 1.0, 2.0, 0.5)
		ridged := math.Pow(1-math.Abs(r), g.params.RiverSharp)

		const width = 0.02
		mask := smoothstep(g.params.RiverThresh+width, g.params.RiverThresh, ridged)
		h -= g.params.RiverDepth * mask
	}

	// 5) craters: one candidate bowl per neighboring jitter cell, combined
	// with max so overlaps never stack additively
	if g.params.EnableCraters && g.params.CraterDensity > 0 {
		gx := p.X() * g.params.CraterDensity
		gy := p.Y() * g.params.CraterDensity
		cellX := int(math.Floor(gx))
		cellY := int(math.Floor(gy))
		crater := 0.0

		for dj := -1; dj <= 1; dj++ {
			for di := -1; di <= 1; di++ {
				cx := cellX + di
				cy := cellY + dj

				rnd := g.field.GradientAt(cx, cy)
				centerX := (float64(cx) + 0.5 + 0.5*rnd.X()) / g.params.CraterDensity
				centerY := (float64(cy) + 0.5 + 0.5*rnd.Y()) / g.params.CraterDensity

				jitter := g.field.GradientAt(cx+73, cy-41).X()
				radius := g.params.CraterRadius * (0.6 + 0.8*(0.5+0.5*jitter))

				dist := math.Hypot(p.X()-centerX, p.Y()-centerY)
				fall := smoothstep(radius, 0, dist)
				bowl := fall * (1 - dist/(radius+1e-6))
				if bowl > crater {
					crater = bowl
				}
			}
		}
		h -= g.params.CraterDepth * crater
	}

	// 6) bias everything down so low areas read as water
	h -= g.params.OceanBias

	// 7) rescale to world height
	return h * g.params.HeightScale
}

// SampleHeight01 returns the world-scaled height at (x, y), clamped up to sea
// level. Used by placement logic and previews.
func (g *Generator) SampleHeight01(x, y float64) float64 {
	z := g.Height(x, y)
	if sea := g.params.SeaHeight(); z < sea {
		z = sea
	}
	return z
}

// SampleSurfacePos returns the surface point above (x, y) in the generator's
// z-up local frame, with the height clamped to sea level.
func (g *Generator) SampleSurfacePos(x, y float64) mgl64.Vec3 {
	h := g.Height(x, y)
	if sea := g.params.SeaHeight(); h < sea {
		h = sea
	}
	return mgl64.Vec3{x, y, h}
}

// position returns the unclamped surface point for a grid vertex. Rows and
// columns outside [0, resolution] are valid; the height pipeline extends past
// the unit square.
func (g *Generator) position(row, col int) mgl64.Vec3 {
	x := float64(row) / float64(g.resolution)
	y := float64(col) / float64(g.resolution)
	return mgl64.Vec3{x, y, g.Height(x, y)}
}

// neighborRing walks the 8 surrounding grid offsets in winding order.
var neighborRing = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1}, {1, 0},
	{1, 1}, {0, 1}, {-1, 1}, {-1, 0},
}

// Normal estimates the surface normal at a grid vertex by summing cross
// products over the neighbor ring. Degenerate sums fall back to +Z, and the
// result is flipped so it never points below the surface.
func (g *Generator) Normal(row, col int) mgl64.Vec3 {
	var normal mgl64.Vec3
	v := g.position(row, col)

	for i := 0; i < 8; i++ {
		r1 := row + neighborRing[i][0]
		c1 := col + neighborRing[i][1]
		r2 := row + neighborRing[(i+1)%8][0]
		c2 := col + neighborRing[(i+1)%8][1]

		p1 := g.position(r1, c1)
		p2 := g.position(r2, c2)
		normal = normal.Add(p1.Sub(v).Cross(p2.Sub(v)))
	}

	if normal.Len() < 1e-12 {
		return mgl64.Vec3{0, 0, 1}
	}
	normal = normal.Normalize()
	if normal.Z() < 0 {
		normal = normal.Mul(-1)
	}
	return normal
}

// Color derives the surface tint for a position/normal pair: depth-shaded
// water at or below sea level, otherwise a grass ramp blended toward rock by
// height and slope.
func (g *Generator) Color(normal, position mgl64.Vec3) mgl64.Vec3 {
	sea := g.params.SeaHeight()

	if position.Z() <= sea+1e-4 {
		dx := math.Abs(position.X() - 0.5)
		t := clamp(dx/0.25, 0, 1)

		deepWater := mgl64.Vec3{0.02, 0.10, 0.25}
		shallowWater := mgl64.Vec3{0.10, 0.35, 0.55}
		return shallowWater.Mul(1 - t).Add(deepWater.Mul(t))
	}

	normal = normal.Normalize()
	h := position.Z()

	grassLow := mgl64.Vec3{0.23, 0.48, 0.24}
	grassHigh := mgl64.Vec3{0.33, 0.60, 0.30}
	rock := mgl64.Vec3{0.45, 0.45, 0.45}

	h01 := clamp((h-sea)/(g.params.HeightScale*2), 0, 1)
	slope := clamp(1-normal.Z(), 0, 1)

	col := mgl64.Vec3{
		mix(grassLow.X(), grassHigh.X(), h01),
		mix(grassLow.Y(), grassHigh.Y(), h01),
		mix(grassLow.Z(), grassHigh.Z(), h01),
	}

	rockMask := smoothstep(0.3, 0.8, math.Max(h01, slope))
	return mgl64.Vec3{
		mix(col.X(), rock.X(), rockMask),
		mix(col.Y(), rock.Y(), rockMask),
		mix(col.Z(), rock.Z(), rockMask),
	}
}
