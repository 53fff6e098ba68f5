// Package voxel builds a block-terrain chunk from ridged fractal noise and
// meshes it with hidden-face culling. An optional 3D-noise pass carves cave
// systems out of the solid volume before meshing.
package voxel

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Block types stored per cell.
const (
	Air uint8 = iota
	Dirt
	Grass
)

// Params sizes and seeds one chunk.
type Params struct {
	SX, SY, SZ int
	OriginX    int
	OriginY    int
	OriginZ    int

	Seed       int64
	Octaves    int
	BaseFreq   float64
	Lacunarity float64
	Gain       float64
	RidgeExp   float64
	BaseHeight float64
	HeightAmp  float64

	EnableCaves   bool
	CaveFreq      float64
	CaveThreshold float64
}

// DefaultParams returns the 64^3 reference chunk.
func DefaultParams() Params {
	return Params{
		SX: 64, SY: 64, SZ: 64,
		Seed:       1230,
		Octaves:    6,
		BaseFreq:   0.08,
		Lacunarity: 2.0,
		Gain:       0.5,
		RidgeExp:   2.0,
		BaseHeight: 16,
		HeightAmp:  24,

		CaveFreq:      0.09,
		CaveThreshold: 0.55,
	}
}

// Chunk holds the filled block grid. Build replaces the grid wholesale;
// nothing reads it mid-rebuild.
type Chunk struct {
	params Params
	blocks []uint8
	caves  opensimplex.Noise
}

// NewChunk allocates a chunk for the given parameters.
func NewChunk(params Params) *Chunk {
	return &Chunk{
		params: params,
		blocks: make([]uint8, params.SX*params.SY*params.SZ),
		caves:  opensimplex.New(params.Seed),
	}
}

// Params returns the chunk's parameter snapshot.
func (c *Chunk) Params() Params {
	return c.params
}

func (c *Chunk) index(x, y, z int) int {
	return (z*c.params.SY+y)*c.params.SX + x
}

// Block returns the cell type at local coordinates; out-of-bounds reads as
// air so meshing can treat the chunk border uniformly.
func (c *Chunk) Block(x, y, z int) uint8 {
	if x < 0 || y < 0 || z < 0 || x >= c.params.SX || y >= c.params.SY || z >= c.params.SZ {
		return Air
	}
	return c.blocks[c.index(x, y, z)]
}

// gradient returns a deterministic unit direction for a 2D lattice cell,
// via a 1024-entry angle wheel addressed by an integer mix of the cell and
// the chunk seed.
func (c *Chunk) gradient(gx, gz int) (float64, float64) {
	h := uint32(gx*41+gz*43) + uint32(c.params.Seed)
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	angle := 2 * math.Pi * float64(h&1023) / 1024
	return math.Cos(angle), math.Sin(angle)
}

// perlin2 is smoothstep-blended gradient noise over the chunk's own angle
// wheel, roughly within [-1, 1].
func (c *Chunk) perlin2(x, z float64) float64 {
	x0 := int(math.Floor(x))
	z0 := int(math.Floor(z))

	dot := func(gx, gz int) float64 {
		dx, dz := c.gradient(gx, gz)
		return dx*(x-float64(gx)) + dz*(z-float64(gz))
	}

	smooth := func(t float64) float64 {
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		return t * t * (3 - 2*t)
	}

	tx := smooth(x - float64(x0))
	tz := smooth(z - float64(z0))

	bottom := dot(x0, z0) + tx*(dot(x0+1, z0)-dot(x0, z0))
	top := dot(x0, z0+1) + tx*(dot(x0+1, z0+1)-dot(x0, z0+1))
	return bottom + tz*(top-bottom)
}

// heightRidged stacks ridged octaves: each layer folds the noise around its
// zero crossings and sharpens the fold with RidgeExp, so crests form
// connected ridge lines instead of round hills.
func (c *Chunk) heightRidged(wx, wz float64) float64 {
	freq := c.params.BaseFreq
	amp := 1.0
	sum := 0.0
	for i := 0; i < c.params.Octaves; i++ {
		n := c.perlin2(wx*freq, wz*freq)
		ridge := 1 - math.Abs(n)
		if ridge < 0 {
			ridge = 0
		} else if ridge > 1 {
			ridge = 1
		}
		sum += amp * math.Pow(ridge, c.params.RidgeExp)
		freq *= c.params.Lacunarity
		amp *= c.params.Gain
	}
	return c.params.BaseHeight + c.params.HeightAmp*sum
}

// Build fills the grid column by column: dirt up to the ridged surface
// height with grass on top, then the optional cave carve, then a grass
// retype pass for columns the carve opened up.
func (c *Chunk) Build() {
	p := c.params
	for i := range c.blocks {
		c.blocks[i] = Air
	}

	for z := 0; z < p.SZ; z++ {
		for x := 0; x < p.SX; x++ {
			wx := float64(p.OriginX + x)
			wz := float64(p.OriginZ + z)

			h := int(math.Floor(c.heightRidged(wx, wz)))
			if h < 0 {
				h = 0
			}
			if h > p.SY-1 {
				h = p.SY - 1
			}

			for y := 0; y <= h; y++ {
				c.blocks[c.index(x, y, z)] = Dirt
			}
			c.blocks[c.index(x, h, z)] = Grass
		}
	}

	if p.EnableCaves {
		c.carveCaves()
		c.retypeSurface()
	}
}

func (c *Chunk) carveCaves() {
	p := c.params
	for z := 0; z < p.SZ; z++ {
		for y := 0; y < p.SY; y++ {
			for x := 0; x < p.SX; x++ {
				if c.blocks[c.index(x, y, z)] == Air {
					continue
				}
				wx := float64(p.OriginX+x) * p.CaveFreq
				wy := float64(p.OriginY+y) * p.CaveFreq
				wz := float64(p.OriginZ+z) * p.CaveFreq
				if c.caves.Eval3(wx, wy, wz) > p.CaveThreshold {
					c.blocks[c.index(x, y, z)] = Air
				}
			}
		}
	}
}

// retypeSurface restores grass on whatever is the topmost solid cell of each
// column after carving.
func (c *Chunk) retypeSurface() {
	p := c.params
	for z := 0; z < p.SZ; z++ {
		for x := 0; x < p.SX; x++ {
			for y := p.SY - 1; y >= 0; y-- {
				if c.blocks[c.index(x, y, z)] != Air {
					c.blocks[c.index(x, y, z)] = Grass
					break
				}
			}
		}
	}
}

var faceDirs = [6]struct {
	dx, dy, dz int
	normal     [3]float32
}{
	{1, 0, 0, [3]float32{1, 0, 0}},
	{-1, 0, 0, [3]float32{-1, 0, 0}},
	{0, 1, 0, [3]float32{0, 1, 0}},
	{0, -1, 0, [3]float32{0, -1, 0}},
	{0, 0, 1, [3]float32{0, 0, 1}},
	{0, 0, -1, [3]float32{0, 0, -1}},
}

// faceCorners lists, per direction, the four face corners relative to the
// cell center in fan order (quad = corners 0,1,2 and 0,2,3).
var faceCorners = [6][4][3]float32{
	{{0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}, {0.5, -0.5, 0.5}},     // +X
	{{-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}, {-0.5, -0.5, -0.5}}, // -X
	{{-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}},     // +Y
	{{-0.5, -0.5, 0.5}, {-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}}, // -Y
	{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},     // +Z
	{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, // -Z
}

var (
	grassColor = [3]float32{0.21, 0.85, 0.21}
	dirtColor  = [3]float32{0.55, 0.36, 0.16}
)

// Mesh emits the visible faces of the chunk as 9 floats per vertex
// (position, normal, color), two triangles per face. Only faces whose
// neighbor cell is air make it into the buffer; chunk borders count as air.
func (c *Chunk) Mesh() []float32 {
	p := c.params
	verts := make([]float32, 0, 1<<16)

	for z := 0; z < p.SZ; z++ {
		for y := 0; y < p.SY; y++ {
			for x := 0; x < p.SX; x++ {
				block := c.blocks[c.index(x, y, z)]
				if block == Air {
					continue
				}

				cx := float32(p.OriginX+x) + 0.5
				cy := float32(p.OriginY+y) + 0.5
				cz := float32(p.OriginZ+z) + 0.5

				for f, dir := range faceDirs {
					if c.Block(x+dir.dx, y+dir.dy, z+dir.dz) != Air {
						continue
					}

					color := dirtColor
					if block == Grass && dir.dy == 1 {
						color = grassColor
					}

					corners := faceCorners[f]
					order := [6]int{0, 1, 2, 0, 2, 3}
					for _, ci := range order {
						corner := corners[ci]
						verts = append(verts,
							cx+corner[0], cy+corner[1], cz+corner[2],
							dir.normal[0], dir.normal[1], dir.normal[2],
							color[0], color[1], color[2],
						)
					}
				}
			}
		}
	}
	return verts
}
