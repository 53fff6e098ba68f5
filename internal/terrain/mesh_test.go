package terrain

import (
	"math"
	"testing"
)

func smallMeshGenerator(t *testing.T) *Generator {
	t.Helper()
	gen := NewGenerator(scenarioParams())
	gen.resolution = 8
	return gen
}

func TestGenerateTerrainVertexCount(t *testing.T) {
	gen := smallMeshGenerator(t)

	verts := gen.GenerateTerrain()
	want := 8 * 8 * 6 * floatsPerVertex
	if len(verts) != want {
		t.Fatalf("terrain mesh float count: got %d, want %d", len(verts), want)
	}
}

func TestGenerateTerrainVertexLayout(t *testing.T) {
	gen := smallMeshGenerator(t)

	verts := gen.GenerateTerrain()
	for v := 0; v < len(verts); v += floatsPerVertex {
		nx := float64(verts[v+3])
		ny := float64(verts[v+4])
		nz := float64(verts[v+5])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if math.Abs(length-1) > 1e-5 {
			t.Fatalf("vertex %d: normal length %f", v/floatsPerVertex, length)
		}
		if verts[v+8] != 0 {
			t.Fatalf("vertex %d: third uv component %f, want 0", v/floatsPerVertex, verts[v+8])
		}
	}
}

func TestGenerateTerrainDeterministic(t *testing.T) {
	genA := smallMeshGenerator(t)
	genB := smallMeshGenerator(t)

	vertsA := genA.GenerateTerrain()
	vertsB := genB.GenerateTerrain()
	if len(vertsA) != len(vertsB) {
		t.Fatalf("mesh sizes differ: %d vs %d", len(vertsA), len(vertsB))
	}
	for i := range vertsA {
		if vertsA[i] != vertsB[i] {
			t.Fatalf("float %d differs: %f vs %f", i, vertsA[i], vertsB[i])
		}
	}
}

func TestWaterMeshQuad(t *testing.T) {
	gen := NewGenerator(scenarioParams())

	verts := gen.WaterMesh()
	if len(verts) != 6*floatsPerVertex {
		t.Fatalf("water mesh float count: got %d, want %d", len(verts), 6*floatsPerVertex)
	}

	wantZ := float32(gen.Params().SeaHeight() + 0.02*gen.Params().HeightScale)
	for v := 0; v < len(verts); v += floatsPerVertex {
		if verts[v+2] != wantZ {
			t.Fatalf("vertex %d: water height %f, want %f", v/floatsPerVertex, verts[v+2], wantZ)
		}
		if verts[v+3] != 0 || verts[v+4] != 0 || verts[v+5] != 1 {
			t.Fatalf("vertex %d: water normal (%f,%f,%f), want +Z",
				v/floatsPerVertex, verts[v+3], verts[v+4], verts[v+5])
		}
	}
}
