package terrain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func positionAt(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, z}
}

func scenarioParams() Params {
	return Params{
		Octaves:     4,
		BaseFreq:    0.25,
		Lacunarity:  2,
		Gain:        0.5,
		HeightScale: 1,

		CliffSteps:  1,
		CliffSmooth: 0.15,

		RiverFreq:   0.8,
		RiverSharp:  1.5,
		RiverThresh: 0.85,
		RiverDepth:  0.20,

		CraterDensity: 6,
		CraterRadius:  0.06,
		CraterDepth:   0.25,

		SeaLevel: -0.15,

		Seed: 1230,
	}
}

func TestGeneratorHeightMatchesAcrossInstances(t *testing.T) {
	params := scenarioParams()

	genA := NewGenerator(params)
	genB := NewGenerator(params)

	if hA, hB := genA.Height(0.5, 0.5), genB.Height(0.5, 0.5); hA != hB {
		t.Fatalf("center height mismatch: %f vs %f", hA, hB)
	}

	randSource := rand.New(rand.NewSource(1337))
	for i := 0; i < 1000; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		if hA, hB := genA.Height(x, y), genB.Height(x, y); hA != hB {
			t.Fatalf("sample %d (%f,%f): height mismatch %f vs %f", i, x, y, hA, hB)
		}
	}
}

func TestGeneratorHeightDeterministicWithAllStages(t *testing.T) {
	params := scenarioParams()
	params.WarpStrength = 0.3
	params.CliffSteps = 5
	params.EnableRivers = true
	params.EnableCraters = true
	params.OceanBias = 0.05

	genA := NewGenerator(params)
	genB := NewGenerator(params)

	randSource := rand.New(rand.NewSource(1337))
	for i := 0; i < 500; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		if hA, hB := genA.Height(x, y), genB.Height(x, y); hA != hB {
			t.Fatalf("sample %d (%f,%f): height mismatch %f vs %f", i, x, y, hA, hB)
		}
	}
}

func TestGeneratorSeedChangesHeights(t *testing.T) {
	paramsA := scenarioParams()
	paramsB := scenarioParams()
	paramsB.Seed = 77

	genA := NewGenerator(paramsA)
	genB := NewGenerator(paramsB)

	randSource := rand.New(rand.NewSource(1337))
	differs := false
	for i := 0; i < 100; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		if genA.Height(x, y) != genB.Height(x, y) {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatal("expected different seeds to produce different heights")
	}
}

func TestSetParamsRebuildsTableOnlyOnSeedChange(t *testing.T) {
	gen := NewGenerator(scenarioParams())
	before := gen.Height(0.3, 0.7)

	// Untouched seed keeps the table, so the same params give the same height.
	p := gen.Params()
	p.HeightScale = 2
	gen.SetParams(p)
	if got := gen.Height(0.3, 0.7); got != before*2 {
		t.Fatalf("height after scale change: got %f, want %f", got, before*2)
	}

	p.Seed = 9999
	gen.SetParams(p)
	if gen.Field().Seed() != 9999 {
		t.Fatalf("field seed after SetParams: got %d, want 9999", gen.Field().Seed())
	}
}

func TestTerraceSingleStepIsIdentity(t *testing.T) {
	for _, h := range []float64{0, 0.1, 0.25, 0.5, 0.77, 1} {
		if got := terrace01(h, 1, 0.15); got != h {
			t.Fatalf("terrace01(%f, 1): got %f, want identity", h, got)
		}
	}
}

func TestTerraceFlattensInteriorOfSteps(t *testing.T) {
	// Away from the risers the fractional part maps to 0 or 1, so the output
	// sits exactly on a plateau boundary grid of 1/steps.
	steps := 4
	got := terrace01(0.30, steps, 0.1)
	want := math.Floor(0.30*float64(steps)) / float64(steps)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("terrace01(0.30, 4): got %f, want %f", got, want)
	}
}

func TestSmoothstepHandlesInvertedEdges(t *testing.T) {
	if got := smoothstep(0, 1, 0.5); got != 0.5 {
		t.Fatalf("smoothstep(0,1,0.5): got %f, want 0.5", got)
	}
	if got := smoothstep(1, 0, 0.25); math.Abs(got-(1-smoothstep(0, 1, 0.25))) > 1e-12 {
		t.Fatalf("inverted smoothstep mismatch: got %f", got)
	}
	// Below the lower edge and above the upper edge saturate.
	if got := smoothstep(0.85+0.02, 0.85, 0.9); got != 0 {
		t.Fatalf("ridge above band should mask to 0, got %f", got)
	}
	if got := smoothstep(0.85+0.02, 0.85, 0.5); got != 1 {
		t.Fatalf("ridge below threshold should mask to 1, got %f", got)
	}
}

func TestRiversOnlyCarveWithinDepth(t *testing.T) {
	params := scenarioParams()
	off := NewGenerator(params)

	params.EnableRivers = true
	on := NewGenerator(params)

	bound := params.RiverDepth*params.HeightScale + 1e-9
	randSource := rand.New(rand.NewSource(1337))
	carved := false
	for i := 0; i < 1000; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		hOff := off.Height(x, y)
		hOn := on.Height(x, y)
		if hOn > hOff+1e-9 {
			t.Fatalf("sample (%f,%f): rivers raised height %f -> %f", x, y, hOff, hOn)
		}
		if hOff-hOn > bound {
			t.Fatalf("sample (%f,%f): river carve %f exceeds depth bound %f", x, y, hOff-hOn, bound)
		}
		if hOff-hOn > 1e-6 {
			carved = true
		}
	}
	if !carved {
		t.Fatal("rivers carved nothing across the sample set")
	}
}

func TestCraterOverlapNeverStacksPastDepth(t *testing.T) {
	params := scenarioParams()
	off := NewGenerator(params)

	// radii wider than a jitter cell force neighboring bowls to overlap, so
	// this also pins the max combination: additive stacking would blow the
	// CraterDepth bound
	params.EnableCraters = true
	params.CraterDensity = 6
	params.CraterRadius = 0.3
	params.CraterDepth = 0.5
	on := NewGenerator(params)

	bound := params.CraterDepth*params.HeightScale + 1e-9
	randSource := rand.New(rand.NewSource(1337))
	lowered := false
	for i := 0; i < 1000; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		hOff := off.Height(x, y)
		hOn := on.Height(x, y)
		if hOn > hOff+1e-9 {
			t.Fatalf("sample (%f,%f): craters raised height %f -> %f", x, y, hOff, hOn)
		}
		if hOff-hOn > bound {
			t.Fatalf("sample (%f,%f): crater depth %f exceeds bound %f", x, y, hOff-hOn, bound)
		}
		if hOff-hOn > 1e-6 {
			lowered = true
		}
	}
	if !lowered {
		t.Fatal("craters lowered nothing across the sample set")
	}
}

func TestSampleSurfacePosClampsToSea(t *testing.T) {
	params := scenarioParams()
	params.OceanBias = 0.6 // push most of the terrain underwater
	gen := NewGenerator(params)

	sea := params.SeaHeight()
	randSource := rand.New(rand.NewSource(1337))
	for i := 0; i < 500; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		pos := gen.SampleSurfacePos(x, y)
		if pos.Z() < sea-1e-9 {
			t.Fatalf("sample (%f,%f): surface %f below sea %f", x, y, pos.Z(), sea)
		}
		if h01 := gen.SampleHeight01(x, y); h01 != pos.Z() {
			t.Fatalf("sample (%f,%f): SampleHeight01 %f != surface z %f", x, y, h01, pos.Z())
		}
	}
}

func TestHeightIsUnclampedBelowSea(t *testing.T) {
	params := scenarioParams()
	params.OceanBias = 0.6
	gen := NewGenerator(params)

	sea := params.SeaHeight()
	randSource := rand.New(rand.NewSource(1337))
	for i := 0; i < 500; i++ {
		x := randSource.Float64()
		y := randSource.Float64()
		if gen.Height(x, y) < sea {
			return
		}
	}
	t.Fatal("expected at least one raw height below sea level")
}

func TestNormalIsUnitAndUpward(t *testing.T) {
	gen := NewGenerator(scenarioParams())

	randSource := rand.New(rand.NewSource(1337))
	for i := 0; i < 200; i++ {
		row := randSource.Intn(257)
		col := randSource.Intn(257)
		n := gen.Normal(row, col)
		if math.Abs(n.Len()-1) > 1e-9 {
			t.Fatalf("vertex (%d,%d): normal length %f", row, col, n.Len())
		}
		if n.Z() < 0 {
			t.Fatalf("vertex (%d,%d): normal points downward: %v", row, col, n)
		}
	}
}

func TestNormalFallsBackOnFlatField(t *testing.T) {
	params := scenarioParams()
	params.HeightScale = 0
	gen := NewGenerator(params)

	n := gen.Normal(10, 10)
	if n.X() != 0 || n.Y() != 0 || n.Z() != 1 {
		t.Fatalf("flat field normal: got %v, want (0,0,1)", n)
	}
}

func TestColorPicksWaterBelowSea(t *testing.T) {
	gen := NewGenerator(scenarioParams())
	sea := gen.Params().SeaHeight()

	up := gen.Normal(1, 1)
	water := gen.Color(up, positionAt(0.5, 0.5, sea))
	if water.Z() <= water.X() {
		t.Fatalf("water color should be blue-dominant, got %v", water)
	}

	land := gen.Color(up, positionAt(0.5, 0.5, sea+0.5))
	if land.Y() <= land.Z() {
		t.Fatalf("land color should be green-dominant, got %v", land)
	}
}
