// Package primitives tessellates the unit parametric solids used by the
// rendering host for leaves, rocks and debug geometry. Each builder emits an
// interleaved position+normal vertex stream for a solid centered at the
// origin with extent +-0.5.
package primitives

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind selects the solid to tessellate.
type Kind int

const (
	Cube Kind = iota
	Sphere
	Cylinder
	Cone
)

// BuildMesh dispatches on kind. param1/param2 are the tessellation
// parameters (subdivisions, bands, wedges); out-of-range values are clamped,
// never rejected.
func BuildMesh(kind Kind, param1, param2 int) []float32 {
	switch kind {
	case Cube:
		return buildCube(param1)
	case Sphere:
		return buildSphere(param1, param2)
	case Cylinder:
		return buildCylinder(param1, param2)
	case Cone:
		return buildCone(param1, param2)
	default:
		return nil
	}
}

func appendVertex(verts []float32, pos, nor mgl32.Vec3) []float32 {
	return append(verts,
		pos.X(), pos.Y(), pos.Z(),
		nor.X(), nor.Y(), nor.Z(),
	)
}

// appendTile emits the two triangles of a quad patch with one shared normal:
// (TL, BL, TR) and (TR, BL, BR).
func appendTile(verts []float32, tl, bl, tr, br, normal mgl32.Vec3) []float32 {
	verts = appendVertex(verts, tl, normal)
	verts = appendVertex(verts, bl, normal)
	verts = appendVertex(verts, tr, normal)
	verts = appendVertex(verts, tr, normal)
	verts = appendVertex(verts, bl, normal)
	verts = appendVertex(verts, br, normal)
	return verts
}

// buildCube subdivides each of the 6 faces into sub x sub flat-shaded tiles.
func buildCube(sub int) []float32 {
	if sub < 1 {
		sub = 1
	}

	// topLeft corner plus the right/down edge directions of each face,
	// chosen so down x right is the outward normal
	faces := []struct {
		topLeft, right, down mgl32.Vec3
	}{
		{mgl32.Vec3{-0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},  // +Z
		{mgl32.Vec3{0.5, 0.5, -0.5}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}}, // -Z
		{mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},  // +X
		{mgl32.Vec3{-0.5, 0.5, -0.5}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}}, // -X
		{mgl32.Vec3{-0.5, 0.5, -0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},  // +Y
		{mgl32.Vec3{-0.5, -0.5, 0.5}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}}, // -Y
	}

	verts := make([]float32, 0, 6*sub*sub*6*6)
	step := 1.0 / float32(sub)

	for _, face := range faces {
		for i := 0; i < sub; i++ {
			for j := 0; j < sub; j++ {
				tl := face.topLeft.
					Add(face.right.Mul(float32(i) * step)).
					Add(face.down.Mul(float32(j) * step))
				tr := tl.Add(face.right.Mul(step))
				bl := tl.Add(face.down.Mul(step))
				br := tr.Add(face.down.Mul(step))

				normal := bl.Sub(tl).Cross(tr.Sub(tl)).Normalize()
				verts = appendTile(verts, tl, bl, tr, br, normal)
			}
		}
	}
	return verts
}

func spherePoint(phi, theta float64) mgl32.Vec3 {
	const r = 0.5
	return mgl32.Vec3{
		float32(r * math.Sin(phi) * math.Cos(theta)),
		float32(r * math.Cos(phi)),
		float32(-r * math.Sin(phi) * math.Sin(theta)),
	}
}

// buildSphere emits a UV sphere with lat latitude bands and lon longitude
// wedges. Vertex normals are the normalized positions; winding is fixed per
// tile against the outward average so the degenerate pole tiles cannot flip.
func buildSphere(lat, lon int) []float32 {
	if lat < 2 {
		lat = 2
	}
	if lon < 3 {
		lon = 3
	}

	verts := make([]float32, 0, lat*lon*6*6)
	for i := 0; i < lat; i++ {
		phi0 := math.Pi * float64(i) / float64(lat)
		phi1 := math.Pi * float64(i+1) / float64(lat)
		for j := 0; j < lon; j++ {
			theta0 := 2 * math.Pi * float64(j) / float64(lon)
			theta1 := 2 * math.Pi * float64(j+1) / float64(lon)

			tl := spherePoint(phi0, theta0)
			tr := spherePoint(phi0, theta1)
			bl := spherePoint(phi1, theta0)
			br := spherePoint(phi1, theta1)

			outward := tl.Add(tr).Add(bl).Add(br)
			if faceNormal(tl, bl, tr).Dot(outward) < 0 {
				tr, bl = bl, tr
			}

			verts = appendVertex(verts, tl, safeUnit(tl))
			verts = appendVertex(verts, bl, safeUnit(bl))
			verts = appendVertex(verts, tr, safeUnit(tr))
			verts = appendVertex(verts, tr, safeUnit(tr))
			verts = appendVertex(verts, bl, safeUnit(bl))
			verts = appendVertex(verts, br, safeUnit(br))
		}
	}
	return verts
}

// buildCylinder emits the side wall plus both caps. bands counts vertical
// subdivisions and concentric cap rings; wedges counts the angular slices.
func buildCylinder(bands, wedges int) []float32 {
	if bands < 1 {
		bands = 1
	}
	if wedges < 3 {
		wedges = 3
	}

	verts := make([]float32, 0, (bands*wedges*6+2*capVertexCount(bands, wedges))*6)

	// side wall with radial per-boundary normals
	for i := 0; i < bands; i++ {
		y0 := 0.5 - float32(i)/float32(bands)
		y1 := 0.5 - float32(i+1)/float32(bands)
		for j := 0; j < wedges; j++ {
			theta0 := 2 * math.Pi * float64(j) / float64(wedges)
			theta1 := 2 * math.Pi * float64(j+1) / float64(wedges)

			n0 := mgl32.Vec3{float32(math.Cos(theta0)), 0, float32(-math.Sin(theta0))}
			n1 := mgl32.Vec3{float32(math.Cos(theta1)), 0, float32(-math.Sin(theta1))}

			tl := mgl32.Vec3{0.5 * n0.X(), y0, 0.5 * n0.Z()}
			tr := mgl32.Vec3{0.5 * n1.X(), y0, 0.5 * n1.Z()}
			bl := mgl32.Vec3{0.5 * n0.X(), y1, 0.5 * n0.Z()}
			br := mgl32.Vec3{0.5 * n1.X(), y1, 0.5 * n1.Z()}

			verts = appendVertex(verts, tl, n0)
			verts = appendVertex(verts, bl, n0)
			verts = appendVertex(verts, tr, n1)
			verts = appendVertex(verts, tr, n1)
			verts = appendVertex(verts, bl, n0)
			verts = appendVertex(verts, br, n1)
		}
	}

	verts = appendCap(verts, 0.5, mgl32.Vec3{0, 1, 0}, bands, wedges, flatRadius)
	verts = appendCap(verts, -0.5, mgl32.Vec3{0, -1, 0}, bands, wedges, flatRadius)
	return verts
}

func flatRadius(t float32) float32 {
	return 0.5 * t
}

// capVertexCount is the vertex total of one cap: a center fan for the
// innermost ring plus quads for the rest.
func capVertexCount(rings, wedges int) int {
	return wedges*3 + (rings-1)*wedges*6
}

// appendCap builds a disk at height y as concentric ring sectors with a
// center fan for the innermost ring. The radius function lets the cone share
// this builder.
func appendCap(verts []float32, y float32, normal mgl32.Vec3, rings, wedges int, radius func(float32) float32) []float32 {
	center := mgl32.Vec3{0, y, 0}

	ringPoint := func(ring int, theta float64) mgl32.Vec3 {
		r := radius(float32(ring) / float32(rings))
		return mgl32.Vec3{r * float32(math.Cos(theta)), y, -r * float32(math.Sin(theta))}
	}

	for ring := 1; ring <= rings; ring++ {
		for j := 0; j < wedges; j++ {
			theta0 := 2 * math.Pi * float64(j) / float64(wedges)
			theta1 := 2 * math.Pi * float64(j+1) / float64(wedges)

			outer0 := ringPoint(ring, theta0)
			outer1 := ringPoint(ring, theta1)

			if ring == 1 {
				a, b := outer0, outer1
				if faceNormal(center, a, b).Dot(normal) < 0 {
					a, b = b, a
				}
				verts = appendVertex(verts, center, normal)
				verts = appendVertex(verts, a, normal)
				verts = appendVertex(verts, b, normal)
				continue
			}

			inner0 := ringPoint(ring-1, theta0)
			inner1 := ringPoint(ring-1, theta1)

			tl, bl, tr, br := inner0, outer0, inner1, outer1
			if faceNormal(tl, bl, tr).Dot(normal) < 0 {
				tr, bl = bl, tr
			}
			verts = appendVertex(verts, tl, normal)
			verts = appendVertex(verts, bl, normal)
			verts = appendVertex(verts, tr, normal)
			verts = appendVertex(verts, tr, normal)
			verts = appendVertex(verts, bl, normal)
			verts = appendVertex(verts, br, normal)
		}
	}
	return verts
}

// buildCone emits the slanted wall plus the base cap. The top band collapses
// to tip triangles whose apex normal averages the two base normals, since
// the implicit-surface gradient vanishes at the tip.
func buildCone(bands, wedges int) []float32 {
	if bands < 1 {
		bands = 1
	}
	if wedges < 3 {
		wedges = 3
	}

	radiusOfY := func(y float32) float32 {
		return 0.5 * (0.5 - y)
	}
	slopeNormal := func(p mgl32.Vec3) mgl32.Vec3 {
		return safeUnit(mgl32.Vec3{2 * p.X(), -0.25 * (2*p.Y() - 1), 2 * p.Z()})
	}
	wallPoint := func(band int, theta float64) mgl32.Vec3 {
		y := -0.5 + float32(band)/float32(bands)
		r := radiusOfY(y)
		return mgl32.Vec3{r * float32(math.Cos(theta)), y, -r * float32(math.Sin(theta))}
	}

	verts := make([]float32, 0, ((bands-1)*wedges*6+wedges*3+capVertexCount(bands, wedges))*6)
	tip := mgl32.Vec3{0, 0.5, 0}

	for band := 0; band < bands; band++ {
		for j := 0; j < wedges; j++ {
			theta0 := 2 * math.Pi * float64(j) / float64(wedges)
			theta1 := 2 * math.Pi * float64(j+1) / float64(wedges)

			bl := wallPoint(band, theta0)
			br := wallPoint(band, theta1)
			n0 := slopeNormal(bl)
			n1 := slopeNormal(br)

			if band == bands-1 {
				apexNormal := safeUnit(n0.Add(n1).Mul(0.5))
				verts = appendVertex(verts, tip, apexNormal)
				verts = appendVertex(verts, bl, n0)
				verts = appendVertex(verts, br, n1)
				continue
			}

			tl := wallPoint(band+1, theta0)
			tr := wallPoint(band+1, theta1)

			verts = appendVertex(verts, tl, slopeNormal(tl))
			verts = appendVertex(verts, bl, n0)
			verts = appendVertex(verts, tr, slopeNormal(tr))
			verts = appendVertex(verts, tr, slopeNormal(tr))
			verts = appendVertex(verts, bl, n0)
			verts = appendVertex(verts, br, n1)
		}
	}

	verts = appendCap(verts, -0.5, mgl32.Vec3{0, -1, 0}, bands, wedges, flatRadius)
	return verts
}

func faceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

func safeUnit(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}
