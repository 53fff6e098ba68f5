package terrain

import "github.com/go-gl/mathgl/mgl64"

// Vertex layout shared by the terrain and water meshes: position, normal,
// then uv packed into the third attribute with a zero placeholder.
const floatsPerVertex = 9

// uvScale tiles the surface texture across the unit square.
const uvScale = 30.0

func appendVertex(verts []float32, pos, nor mgl64.Vec3, u, v float64) []float32 {
	return append(verts,
		float32(pos.X()), float32(pos.Y()), float32(pos.Z()),
		float32(nor.X()), float32(nor.Y()), float32(nor.Z()),
		float32(u), float32(v), 0,
	)
}

// GenerateTerrain triangulates the heightfield over the generator's grid: two
// triangles per cell, row-major, resolution^2*6 vertices of 9 floats each.
// Heights are unclamped; the water quad covers anything below sea level.
func (g *Generator) GenerateTerrain() []float32 {
	res := g.resolution
	verts := make([]float32, 0, res*res*6*floatsPerVertex)

	for x := 0; x < res; x++ {
		for y := 0; y < res; y++ {
			x1, y1 := x, y
			x2, y2 := x+1, y+1

			p1 := g.position(x1, y1)
			p2 := g.position(x2, y1)
			p3 := g.position(x2, y2)
			p4 := g.position(x1, y2)

			n1 := g.Normal(x1, y1)
			n2 := g.Normal(x2, y1)
			n3 := g.Normal(x2, y2)
			n4 := g.Normal(x1, y2)

			u1, v1 := float64(x1)/float64(res)*uvScale, float64(y1)/float64(res)*uvScale
			u2, v2 := float64(x2)/float64(res)*uvScale, float64(y1)/float64(res)*uvScale
			u3, v3 := float64(x2)/float64(res)*uvScale, float64(y2)/float64(res)*uvScale
			u4, v4 := float64(x1)/float64(res)*uvScale, float64(y2)/float64(res)*uvScale

			// tri 1: p1 p2 p3
			verts = appendVertex(verts, p1, n1, u1, v1)
			verts = appendVertex(verts, p2, n2, u2, v2)
			verts = appendVertex(verts, p3, n3, u3, v3)

			// tri 2: p1 p3 p4
			verts = appendVertex(verts, p1, n1, u1, v1)
			verts = appendVertex(verts, p3, n3, u3, v3)
			verts = appendVertex(verts, p4, n4, u4, v4)
		}
	}
	return verts
}

// WaterMesh builds the clipped water quad: a single [0,1]^2 plane slightly
// above sea level in the local z-up frame, 6 vertices of 9 floats.
func (g *Generator) WaterMesh() []float32 {
	waterLocal := g.params.SeaHeight() + 0.02*g.params.HeightScale

	verts := make([]float32, 0, 6*floatsPerVertex)
	normal := mgl64.Vec3{0, 0, 1}

	add := func(x, y, u, v float64) {
		verts = appendVertex(verts, mgl64.Vec3{x, y, waterLocal}, normal, u, v)
	}

	add(0, 0, 0, 0)
	add(1, 0, 1, 0)
	add(1, 1, 1, 1)

	add(0, 0, 0, 0)
	add(1, 1, 1, 1)
	add(0, 1, 0, 1)

	return verts
}
