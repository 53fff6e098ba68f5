// Package placement scatters vegetation and rocks over a generated
// heightfield. Candidate sites are sampled in the terrain's normalized UV
// domain, pushed through the host's terrain model matrix, and gated on the
// resulting world-frame height, slope and biome weight before being emitted
// as world-space instance transforms.
package placement

import (
	"log"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/terrain"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/vegetation"
)

// Hard output bounds. Once either cap is reached the pass stops appending
// and returns what it has; partial trees are kept, never rolled back.
const (
	MaxBranches = 800000
	MaxLeaves   = 1600000
)

// Hand-tuned acceptance constants, kept as-is rather than re-derived.
const (
	clusterRetries   = 32
	maxSlope         = 0.96
	minGrassWeight   = 0.18
	slopeSampleEps   = 1.0 / 512.0
	forestSeed       = 1337
	rockSeed         = 5678
	globalTreeScale  = 20.0
	waterMarginScale = 0.02
)

var logger = log.New(log.Writer(), "placement ", log.LstdFlags|log.Lmicroseconds)

// worldHeight pushes the sea-clamped surface sample at (u, v) through the
// terrain model and returns its world up component. Every water, slope and
// biome gate acts on this value; the acceptance constants are tuned against
// the world frame, not the generator's unit square.
func worldHeight(gen *terrain.Generator, model mgl32.Mat4, u, v float64) float64 {
	local := gen.SampleSurfacePos(u, v)
	w := model.Mul4x1(mgl32.Vec4{float32(local.X()), float32(local.Y()), float32(local.Z()), 1})
	return float64(w.Y())
}

// ForestParams captures the host sliders driving one forest pass.
type ForestParams struct {
	Coverage    int // 1..100
	TreeSize    int // 1..40
	LeafDensity int // 1..40

	// Model maps the generator's z-up unit square into y-up world space.
	Model mgl32.Mat4
}

// BuildForest regenerates the full forest: cluster centers are retried until
// they land above water, candidates inside each cluster are gated by slope
// and grass weight, and one jittered L-system tree is grown per accepted
// site. The RNG is seeded fresh every call, so identical inputs reproduce
// the identical forest.
func BuildForest(gen *terrain.Generator, p ForestParams) ([]vegetation.BranchInstance, []mgl32.Mat4) {
	rng := rand.New(rand.NewSource(forestSeed))

	cov01 := clamp(float64(p.Coverage-1)/99, 0, 1)
	size01 := clamp(float64(p.TreeSize-1)/39, 0, 1)
	leaf01 := clamp(float64(p.LeafDensity-1)/39, 0, 1)

	clusterCount := 12 + int(mix(40, 160, cov01))
	treesPerClusterMin := 4 + int(mix(3, 10, size01))
	treesPerClusterMax := treesPerClusterMin + 4
	clusterRadiusBase := mix(0.10, 0.03, cov01)

	template := vegetation.Params{
		Iterations:     4,
		StepLength:     0.055,
		BaseAngleDeg:   30,
		AngleJitterDeg: 15,
		BaseRadius:     0.018,
		RadiusDecay:    0.75,
		LeafDensity:    1,
	}

	params := gen.Params()
	waterMargin := params.SeaLevel + waterMarginScale*params.HeightScale

	branches := make([]vegetation.BranchInstance, 0, 4096)
	leaves := make([]mgl32.Mat4, 0, 8192)
	capped := false
	clustersPlaced := 0

clusters:
	for c := 0; c < clusterCount; c++ {
		var cx, cy float64
		found := false
		for try := 0; try < clusterRetries; try++ {
			cx = rng.Float64()
			cy = rng.Float64()
			if worldHeight(gen, p.Model, cx, cy) > waterMargin {
				found = true
				break
			}
		}
		if !found {
			continue // underwater region, skip the whole cluster
		}
		clustersPlaced++

		clusterRadius := clusterRadiusBase * (0.7 + 0.6*rng.Float64())
		bushes := treesPerClusterMin + rng.Intn(treesPerClusterMax-treesPerClusterMin+1)

		for b := 0; b < bushes; b++ {
			ang := 2 * math.Pi * rng.Float64()
			r := clusterRadius * math.Sqrt(rng.Float64())
			u := clamp(cx+r*math.Cos(ang), 0, 1)
			v := clamp(cy+r*math.Sin(ang), 0, 1)

			h0 := worldHeight(gen, p.Model, u, v)
			if h0 <= waterMargin {
				continue
			}

			slope := sampleSlope(gen, p.Model, u, v, h0)
			weight := grassWeight(params, h0, slope)
			if slope > maxSlope || weight < minGrassWeight {
				continue
			}

			treeParams := jitterTreeParams(template, rng, size01, leaf01)
			rules := map[byte]string{
				'F': "FF",
				'X': branchingRules[rng.Intn(len(branchingRules))],
			}
			tree := vegetation.NewTree(treeParams, rng)
			tree.Generate("X", rules)
			if len(tree.Branches()) == 0 {
				continue
			}

			base := treeBaseTransform(gen, p.Model, u, v, size01, rng)
			bushScale := float32(0.20 * (0.7 + 0.6*rng.Float64()))

			for _, branch := range tree.Branches() {
				if len(branches) >= MaxBranches {
					capped = true
					break clusters
				}
				branches = append(branches, vegetation.BranchInstance{
					Model:  base.Mul4(branch.Model),
					Radius: branch.Radius * bushScale,
				})
			}
			for _, leaf := range tree.Leaves() {
				if len(leaves) >= MaxLeaves {
					capped = true
					break clusters
				}
				leaves = append(leaves, base.Mul4(leaf))
			}
		}
	}

	if capped {
		logger.Printf("forest: instance cap reached, stopping early (%d branches, %d leaves, %d clusters)",
			len(branches), len(leaves), clustersPlaced)
	} else {
		logger.Printf("forest: %d branches, %d leaves across %d clusters",
			len(branches), len(leaves), clustersPlaced)
	}
	return branches, leaves
}

// branchingRules are the three species variants a tree draws its X rule
// from; F always doubles.
var branchingRules = []string{
	"F[+FX][-FX][&FX][^FX]FX",
	"F[+F&X][-F^X][+FX][&FX]X",
	"F[+FX[&X]][-FX[^X]][&FX[+X]][^FX[-X]]X",
}

// jitterTreeParams clones the species template and perturbs it per tree.
func jitterTreeParams(template vegetation.Params, rng *rand.Rand, size01, leaf01 float64) vegetation.Params {
	p := template
	p.StepLength *= float32((0.85 + 0.5*rng.Float64()) * mix(0.7, 1.4, size01))
	p.BaseRadius *= float32(mix(0.7, 1.3, size01))
	if size01 > 0.5 && rng.Float64() < 0.5 {
		p.Iterations = 3
	} else {
		p.Iterations = 2
	}
	p.BaseAngleDeg += float32((rng.Float64() - 0.5) * 12)
	p.AngleJitterDeg *= float32(0.7 + 0.6*rng.Float64())
	p.RadiusDecay = float32(clamp(float64(template.RadiusDecay)+(rng.Float64()-0.5)*0.2, 0.6, 0.95))
	p.LeafDensity = float32(mix(0.5, 2.0, leaf01))
	return p
}

// treeBaseTransform plants a tree at the sampled surface point: translate to
// world, random yaw, slight random tilt on two axes, uniform scale from the
// size slider.
func treeBaseTransform(gen *terrain.Generator, model mgl32.Mat4, u, v, size01 float64, rng *rand.Rand) mgl32.Mat4 {
	local := gen.SampleSurfacePos(u, v)
	world := model.Mul4x1(mgl32.Vec4{float32(local.X()), float32(local.Y()), float32(local.Z()), 1}).Vec3()

	treeScale := float32(mix(0.12, 0.28, size01) * (0.8 + 0.4*rng.Float64()) * globalTreeScale)
	yaw := float32(2 * math.Pi * rng.Float64())
	tiltX := mgl32.DegToRad(float32((rng.Float64() - 0.5) * 8))
	tiltZ := mgl32.DegToRad(float32((rng.Float64() - 0.5) * 8))

	return mgl32.Translate3D(world.X(), world.Y(), world.Z()).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.HomogRotate3DZ(tiltZ)).
		Mul4(mgl32.HomogRotate3DX(tiltX)).
		Mul4(mgl32.Scale3D(treeScale, treeScale, treeScale))
}

// sampleSlope estimates slope at (u, v) from finite differences of the
// world-frame height over a UV step: 0 on flat ground, approaching 1 on
// near-vertical walls. h0 is the caller's worldHeight sample at (u, v).
func sampleSlope(gen *terrain.Generator, model mgl32.Mat4, u, v, h0 float64) float64 {
	hx := worldHeight(gen, model, u+slopeSampleEps, v)
	hz := worldHeight(gen, model, u, v+slopeSampleEps)

	dx := [3]float64{slopeSampleEps, hx - h0, 0}
	dz := [3]float64{0, hz - h0, slopeSampleEps}

	// n = dz x dx, then deviation of the y-up normal from vertical
	nx := dz[1]*dx[2] - dz[2]*dx[1]
	ny := dz[2]*dx[0] - dz[0]*dx[2]
	nz := dz[0]*dx[1] - dz[1]*dx[0]
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length < 1e-12 {
		return 0
	}
	return clamp(1-ny/length, 0, 1)
}

// grassWeight blends beach, grass band and rocky-slope weights into a [0,1]
// grass share used as the tree acceptance score. h0 is a world-frame height.
func grassWeight(params terrain.Params, h0, slope float64) float64 {
	hNorm := clamp((h0-params.SeaLevel)/math.Max(params.HeightScale, 1e-6), 0, 1)

	rockBeach := 1 - smoothstep(0.02, 0.12, hNorm)
	grassBand := smoothstep(0.05, 0.80, hNorm)
	rockSlope := smoothstep(0.75, 0.90, slope)

	wRock := math.Max(rockBeach, rockSlope) * 0.7
	wGrass := grassBand * (1 - 0.7*rockSlope) * 1.4
	return wGrass / (wGrass + wRock + 1e-6)
}

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
