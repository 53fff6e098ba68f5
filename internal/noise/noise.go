// Package noise provides the deterministic 2D gradient noise underlying the
// terrain pipeline: a fixed lookup table of unit gradients, smoothstep-blended
// value noise, and an unnormalized fractal sum.
package noise

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// tableSize fixes the number of precomputed gradients. Lattice cells map into
// the table through hashCell, so any integer coordinate resolves to an entry.
const tableSize = 1024

// Field is a repeatable gradient noise source. The table is filled once at
// construction and never mutated, so a Field is safe for concurrent readers.
type Field struct {
	seed  int64
	table [tableSize]mgl64.Vec2
}

// New builds a Field whose gradient table is derived from seed. Equal seeds
// produce identical tables.
func New(seed int64) *Field {
	f := &Field{seed: seed}
	rng := rand.New(rand.NewSource(seed))
	for i := range f.table {
		angle := 2 * math.Pi * rng.Float64()
		f.table[i] = mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
	}
	return f
}

// Seed reports the seed the gradient table was built from.
func (f *Field) Seed() int64 {
	return f.seed
}

// hashCell mixes a lattice cell into a table index. The formula is part of
// the determinism contract: callers may rely on identical (row, col) pairs
// resolving to the same gradient for the lifetime of a Field.
func hashCell(row, col int) uint32 {
	h := uint32(row*374761393 + col*668265263)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// GradientAt returns the unit gradient assigned to an integer lattice cell.
func (f *Field) GradientAt(row, col int) mgl64.Vec2 {
	return f.table[hashCell(row, col)%tableSize]
}

// ValueNoise samples gradient noise at (x, y). Values stay roughly within
// [-1, 1]; exact extrema depend on the gradient draw.
func (f *Field) ValueNoise(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	gTL := f.GradientAt(x0, y1)
	gTR := f.GradientAt(x1, y1)
	gBR := f.GradientAt(x1, y0)
	gBL := f.GradientAt(x0, y0)

	dx0 := x - float64(x0)
	dy0 := y - float64(y0)
	dx1 := x - float64(x1)
	dy1 := y - float64(y1)

	a := gTL.Dot(mgl64.Vec2{dx0, dy1})
	b := gTR.Dot(mgl64.Vec2{dx1, dy1})
	c := gBR.Dot(mgl64.Vec2{dx1, dy0})
	d := gBL.Dot(mgl64.Vec2{dx0, dy0})

	bottom := interp(d, c, dx0)
	top := interp(a, b, dx0)
	return interp(bottom, top, dy0)
}

// FractalSum layers octaves of ValueNoise starting at baseFreq with unit
// amplitude, scaling frequency by lacunarity and amplitude by gain each
// octave. The sum is not renormalized. Octaves <= 0 yields 0.
func (f *Field) FractalSum(p mgl64.Vec2, octaves int, baseFreq, lacunarity, gain float64) float64 {
	frequency := baseFreq
	amplitude := 1.0
	sum := 0.0
	for i := 0; i < octaves; i++ {
		sum += amplitude * f.ValueNoise(p.X()*frequency, p.Y()*frequency)
		frequency *= lacunarity
		amplitude *= gain
	}
	return sum
}

func smooth(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func interp(a, b, t float64) float64 {
	return a + smooth(t)*(b-a)
}
