package voxel

import "testing"

func TestBuildIsDeterministicForEqualSeeds(t *testing.T) {
	params := DefaultParams()
	params.SX, params.SY, params.SZ = 16, 32, 16

	chunkA := NewChunk(params)
	chunkA.Build()
	chunkB := NewChunk(params)
	chunkB.Build()

	for i := range chunkA.blocks {
		if chunkA.blocks[i] != chunkB.blocks[i] {
			t.Fatalf("block %d differs between identically seeded chunks", i)
		}
	}
}

func TestBuildSeedChangesLayout(t *testing.T) {
	params := DefaultParams()
	params.SX, params.SY, params.SZ = 16, 32, 16

	chunkA := NewChunk(params)
	chunkA.Build()

	params.Seed = 999
	chunkB := NewChunk(params)
	chunkB.Build()

	same := true
	for i := range chunkA.blocks {
		if chunkA.blocks[i] != chunkB.blocks[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical chunks")
	}
}

func TestBuildColumnsAreSolidWithGrassOnTop(t *testing.T) {
	params := DefaultParams()
	params.SX, params.SY, params.SZ = 16, 48, 16

	chunk := NewChunk(params)
	chunk.Build()

	for z := 0; z < params.SZ; z++ {
		for x := 0; x < params.SX; x++ {
			top := -1
			for y := params.SY - 1; y >= 0; y-- {
				if chunk.Block(x, y, z) != Air {
					top = y
					break
				}
			}
			if top < 0 {
				t.Fatalf("column (%d,%d) is empty", x, z)
			}
			if chunk.Block(x, top, z) != Grass {
				t.Fatalf("column (%d,%d) top block is %d, want grass", x, z, chunk.Block(x, top, z))
			}
			for y := 0; y < top; y++ {
				if chunk.Block(x, y, z) == Air {
					t.Fatalf("column (%d,%d) has a hole at %d without caves enabled", x, z, y)
				}
			}
		}
	}
}

func TestCaveCarvingRemovesCellsAndRetypesSurface(t *testing.T) {
	params := DefaultParams()
	params.SX, params.SY, params.SZ = 24, 48, 24

	solid := NewChunk(params)
	solid.Build()
	solidCount := countSolid(solid)

	params.EnableCaves = true
	params.CaveThreshold = 0.3
	carved := NewChunk(params)
	carved.Build()
	carvedCount := countSolid(carved)

	if carvedCount >= solidCount {
		t.Fatalf("carving removed nothing: %d solid before, %d after", solidCount, carvedCount)
	}

	for z := 0; z < params.SZ; z++ {
		for x := 0; x < params.SX; x++ {
			for y := params.SY - 1; y >= 0; y-- {
				if carved.Block(x, y, z) != Air {
					if carved.Block(x, y, z) != Grass {
						t.Fatalf("column (%d,%d) top block not retyped to grass after carve", x, z)
					}
					break
				}
			}
		}
	}
}

func TestMeshCullsHiddenFaces(t *testing.T) {
	params := DefaultParams()
	params.SX, params.SY, params.SZ = 8, 16, 8

	chunk := NewChunk(params)
	chunk.Build()

	verts := chunk.Mesh()
	if len(verts) == 0 {
		t.Fatal("mesh is empty")
	}
	if len(verts)%(9*3) != 0 {
		t.Fatalf("mesh length %d is not a whole number of 9-float triangles", len(verts))
	}

	solid := countSolid(chunk)
	faces := len(verts) / (9 * 6)
	if faces >= solid*6 {
		t.Fatalf("no culling happened: %d faces for %d solid blocks", faces, solid)
	}
}

func TestBlockOutOfBoundsReadsAir(t *testing.T) {
	chunk := NewChunk(DefaultParams())
	chunk.Build()

	probes := [][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}, {64, 0, 0}, {0, 64, 0}, {0, 0, 64}}
	for _, p := range probes {
		if got := chunk.Block(p[0], p[1], p[2]); got != Air {
			t.Fatalf("out-of-bounds read at %v returned %d, want air", p, got)
		}
	}
}

func countSolid(c *Chunk) int {
	n := 0
	for _, b := range c.blocks {
		if b != Air {
			n++
		}
	}
	return n
}
