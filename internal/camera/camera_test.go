package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testCamera() *Camera {
	return New(
		mgl32.Vec3{2, 1, 5},
		mgl32.Vec3{-0.4, -0.1, -1},
		mgl32.Vec3{0, 1, 0},
		mgl32.DegToRad(60), 16.0/9.0, 0.1, 100,
	)
}

func TestViewRotationBlockIsOrthonormal(t *testing.T) {
	view := testCamera().View()

	rows := [3]mgl32.Vec3{
		{view.At(0, 0), view.At(0, 1), view.At(0, 2)},
		{view.At(1, 0), view.At(1, 1), view.At(1, 2)},
		{view.At(2, 0), view.At(2, 1), view.At(2, 2)},
	}

	for i := 0; i < 3; i++ {
		if math.Abs(float64(rows[i].Len()-1)) > 1e-5 {
			t.Fatalf("basis row %d has length %f, want 1", i, rows[i].Len())
		}
		for j := i + 1; j < 3; j++ {
			if dot := math.Abs(float64(rows[i].Dot(rows[j]))); dot > 1e-5 {
				t.Fatalf("basis rows %d and %d not orthogonal (dot %f)", i, j, dot)
			}
		}
	}
}

func TestViewMapsEyeToOrigin(t *testing.T) {
	cam := testCamera()
	origin := cam.View().Mul4x1(cam.Eye.Vec4(1)).Vec3()
	if origin.Len() > 1e-5 {
		t.Fatalf("eye maps to %v, want origin", origin)
	}
}

func TestViewLooksDownNegativeZ(t *testing.T) {
	cam := testCamera()
	ahead := cam.Eye.Add(cam.Look.Normalize())
	mapped := cam.View().Mul4x1(ahead.Vec4(1)).Vec3()
	if mapped.Z() >= 0 {
		t.Fatalf("point ahead maps to z=%f, want negative", mapped.Z())
	}
}

func TestProjMapsNearAndFarPlanes(t *testing.T) {
	cam := testCamera()
	proj := cam.Proj()

	nearClip := proj.Mul4x1(mgl32.Vec4{0, 0, -cam.Near, 1})
	if z := nearClip.Z() / nearClip.W(); math.Abs(float64(z+1)) > 1e-4 {
		t.Fatalf("near plane maps to NDC z=%f, want -1", z)
	}

	farClip := proj.Mul4x1(mgl32.Vec4{0, 0, -cam.Far, 1})
	if z := farClip.Z() / farClip.W(); math.Abs(float64(z-1)) > 1e-4 {
		t.Fatalf("far plane maps to NDC z=%f, want 1", z)
	}
}

func TestProjClampsDegenerateDepthRange(t *testing.T) {
	cam := testCamera()
	cam.Near = -5
	cam.Far = -10

	proj := cam.Proj()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.IsNaN(float64(proj.At(i, j))) || math.IsInf(float64(proj.At(i, j)), 0) {
				t.Fatalf("projection entry (%d,%d) is not finite", i, j)
			}
		}
	}
}

func TestYawPreservesLookLengthAndUp(t *testing.T) {
	cam := testCamera()
	lookLen := cam.Look.Len()

	cam.Yaw(mgl32.DegToRad(35))
	if math.Abs(float64(cam.Look.Len()-lookLen)) > 1e-5 {
		t.Fatalf("yaw changed look length: %f vs %f", cam.Look.Len(), lookLen)
	}

	// a full revolution returns to the start
	cam2 := testCamera()
	for i := 0; i < 8; i++ {
		cam2.Yaw(mgl32.DegToRad(45))
	}
	if cam2.Look.Sub(testCamera().Look).Len() > 1e-4 {
		t.Fatalf("eight 45-degree yaws drifted: %v vs %v", cam2.Look, testCamera().Look)
	}
}

func TestPitchKeepsFrameOrthogonal(t *testing.T) {
	cam := testCamera()
	cam.Pitch(mgl32.DegToRad(-25))

	if dot := math.Abs(float64(cam.Look.Normalize().Dot(cam.Up))); dot > 1e-5 {
		t.Fatalf("look and up not orthogonal after pitch (dot %f)", dot)
	}
	if math.Abs(float64(cam.Up.Len()-1)) > 1e-5 {
		t.Fatalf("up length %f after pitch, want 1", cam.Up.Len())
	}
}

func TestTranslateWorldMovesEyeOnly(t *testing.T) {
	cam := testCamera()
	look := cam.Look
	cam.TranslateWorld(mgl32.Vec3{1, -2, 3})

	if cam.Eye != (mgl32.Vec3{3, -1, 8}) {
		t.Fatalf("eye %v after translate, want (3,-1,8)", cam.Eye)
	}
	if cam.Look != look {
		t.Fatal("translate changed the look direction")
	}
}
