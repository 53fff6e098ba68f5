package placement

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/terrain"
)

// RockParams drives one rock scatter pass.
type RockParams struct {
	Count int // slider value; candidates are Count*10

	// Model maps the generator's z-up unit square into y-up world space.
	Model mgl32.Mat4
}

// BuildRocks scatters rock transforms over the heightfield. It uses its own
// fixed seed, distinct from the forest's, so rock and forest layouts do not
// correlate. Beaches and moderate slopes accept every candidate; flat ground
// only keeps a sparse 10%.
func BuildRocks(gen *terrain.Generator, p RockParams) []mgl32.Mat4 {
	rng := rand.New(rand.NewSource(rockSeed))
	params := gen.Params()

	rocks := make([]mgl32.Mat4, 0, p.Count)

	for i := 0; i < p.Count*10; i++ {
		u := rng.Float64()
		v := rng.Float64()

		h0 := worldHeight(gen, p.Model, u, v)
		if h0 <= params.SeaLevel-0.05 {
			continue
		}

		slope := sampleSlope(gen, p.Model, u, v, h0)
		isBeach := h0 < params.SeaLevel+0.1*params.HeightScale
		isSlope := slope > 0.3 && slope < 0.8
		if !isBeach && !isSlope && rng.Float64() > 0.1 {
			continue
		}

		scaleBase := 0.5 + 1.5*rng.Float64()
		scale := mgl32.Vec3{
			float32(scaleBase * (0.8 + 0.4*rng.Float64())),
			float32(scaleBase * (0.6 + 0.4*rng.Float64())), // flatter than wide
			float32(scaleBase * (0.8 + 0.4*rng.Float64())),
		}

		yaw := float32(2 * math.Pi * rng.Float64())
		pitch := float32(2 * math.Pi * rng.Float64())
		roll := float32(2 * math.Pi * rng.Float64())

		local := gen.SampleSurfacePos(u, v)
		world := p.Model.Mul4x1(mgl32.Vec4{float32(local.X()), float32(local.Y()), float32(local.Z()), 1}).Vec3()

		// sink the rock slightly so it reads as embedded, not resting
		world = world.Add(mgl32.Vec3{0, -0.2 * scale.Y(), 0})

		rocks = append(rocks, mgl32.Translate3D(world.X(), world.Y(), world.Z()).
			Mul4(mgl32.HomogRotate3DY(yaw)).
			Mul4(mgl32.HomogRotate3DX(pitch)).
			Mul4(mgl32.HomogRotate3DZ(roll)).
			Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())))
	}

	logger.Printf("rocks: %d placed from %d candidates", len(rocks), p.Count*10)
	return rocks
}
