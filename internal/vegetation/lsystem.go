// Package vegetation grows individual trees: a context-free L-system
// rewriter expands an axiom string, and a turtle-graphics interpreter turns
// the expansion into oriented cylinder transforms for branches plus leaf
// cluster transforms.
package vegetation

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Params shapes one tree. A value is cloned from a species template and
// jittered per tree by the placer; the interpreter never mutates it.
type Params struct {
	Iterations     int
	StepLength     float32
	BaseAngleDeg   float32
	AngleJitterDeg float32
	BaseRadius     float32
	RadiusDecay    float32
	LeafDensity    float32
}

// DefaultParams returns the standalone-tree template.
func DefaultParams() Params {
	return Params{
		Iterations:     3,
		StepLength:     0.06,
		BaseAngleDeg:   35,
		AngleJitterDeg: 8,
		BaseRadius:     0.03,
		RadiusDecay:    0.8,
		LeafDensity:    1.0,
	}
}

// BranchInstance maps a unit cylinder (axis +Y, height 1, radius 1) onto one
// branch segment.
type BranchInstance struct {
	Model  mgl32.Mat4
	Radius float32
}

// turtle is the full interpreter state. Pushes copy the whole value, so a
// pop restores position as well as orientation.
type turtle struct {
	pos     mgl32.Vec3
	forward mgl32.Vec3
	up      mgl32.Vec3
	right   mgl32.Vec3
	radius  float32
}

// Tree runs one generate pass and keeps the resulting instance lists until
// the next call.
type Tree struct {
	params   Params
	rng      *rand.Rand
	branches []BranchInstance
	leaves   []mgl32.Mat4
}

// NewTree builds a tree generator. A nil rng falls back to a fixed-seed
// source so standalone trees stay reproducible; the forest placer passes its
// own stream so a whole forest is one deterministic sequence.
func NewTree(params Params, rng *rand.Rand) *Tree {
	if rng == nil {
		rng = rand.New(rand.NewSource(1337))
	}
	return &Tree{params: params, rng: rng}
}

// Branches returns the segments produced by the last Generate call.
func (t *Tree) Branches() []BranchInstance {
	return t.branches
}

// Leaves returns the leaf transforms produced by the last Generate call.
func (t *Tree) Leaves() []mgl32.Mat4 {
	return t.leaves
}

// Rewrite expands axiom for the given number of passes, replacing every
// symbol that appears as a rule key with its replacement and copying
// everything else through unchanged.
func Rewrite(axiom string, rules map[byte]string, iterations int) string {
	current := axiom
	for i := 0; i < iterations; i++ {
		var next []byte
		for j := 0; j < len(current); j++ {
			if replacement, ok := rules[current[j]]; ok {
				next = append(next, replacement...)
			} else {
				next = append(next, current[j])
			}
		}
		current = string(next)
	}
	return current
}

// Generate rewrites the axiom and interprets the expansion, replacing any
// previous result.
func (t *Tree) Generate(axiom string, rules map[byte]string) {
	t.branches = t.branches[:0]
	t.leaves = t.leaves[:0]
	t.interpret(Rewrite(axiom, rules, t.params.Iterations))
}

func (t *Tree) interpret(symbols string) {
	state := turtle{
		pos:     mgl32.Vec3{0, 0, 0},
		forward: mgl32.Vec3{0, 1, 0},
		up:      mgl32.Vec3{0, 0, 1},
		radius:  t.params.BaseRadius,
	}
	state.right = state.forward.Cross(state.up)

	var stack []turtle

	for i := 0; i < len(symbols); i++ {
		switch symbols[i] {
		case 'F':
			t.advance(&state)
		case 'X':
			t.emitLeafCluster(state.pos, state.radius, state)
		case '+':
			t.turn(&state, state.up, 1)
		case '-':
			t.turn(&state, state.up, -1)
		case '&':
			t.turn(&state, state.right, 1)
		case '^':
			t.turn(&state, state.right, -1)
		case '[':
			stack = append(stack, state)
			state.radius *= t.params.RadiusDecay
			roll := mgl32.DegToRad(t.params.AngleJitterDeg) * 0.7 * t.unit()
			state.up = rotateAbout(state.up, state.forward, roll)
			state.right = safeNormalize(state.forward.Cross(state.up), state.right)
			state.up = safeNormalize(state.right.Cross(state.forward), state.up)
		case ']':
			if len(stack) > 0 {
				state = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// advance handles the F symbol: optional upward tropism for thin branches,
// one segment, and a probable leaf cluster once the branch is thin enough.
func (t *Tree) advance(state *turtle) {
	if state.radius < 0.7*t.params.BaseRadius {
		rNorm := clamp32(state.radius/t.params.BaseRadius, 0.2, 1)
		k := 0.05 * (1 - rNorm)
		state.forward = safeNormalize(state.forward.Add(mgl32.Vec3{0, 1, 0}.Mul(k)), state.forward)
		state.right = safeNormalize(state.forward.Cross(state.up), state.right)
		state.up = safeNormalize(state.right.Cross(state.forward), state.up)
	}

	next := state.pos.Add(state.forward.Mul(t.params.StepLength))
	t.branches = append(t.branches, BranchInstance{
		Model:  SegmentMatrix(state.pos, next, state.radius),
		Radius: state.radius,
	})
	state.pos = next

	if state.radius < 0.8*t.params.BaseRadius && t.rng.Float32() < 0.9 {
		t.emitLeafCluster(state.pos, state.radius, *state)
	}
}

// turn rotates forward about axis by sign*(base angle + jitter) and rebuilds
// the orthonormal frame.
func (t *Tree) turn(state *turtle, axis mgl32.Vec3, sign float32) {
	angle := sign * mgl32.DegToRad(t.params.BaseAngleDeg+t.params.AngleJitterDeg*t.unit())
	state.forward = safeNormalize(rotateAbout(state.forward, axis, angle), state.forward)
	state.right = safeNormalize(state.forward.Cross(state.up), state.right)
	state.up = safeNormalize(state.right.Cross(state.forward), state.up)
}

// emitLeafCluster grows a short half-radius twig off the branch tip and
// scatters flattened-ellipsoid leaves around the twig tip, biased outward
// and toward the tip. Thinner branches carry more, larger leaves.
func (t *Tree) emitLeafCluster(center mgl32.Vec3, branchRadius float32, state turtle) {
	rNorm := clamp32(branchRadius/t.params.BaseRadius, 0.2, 1)
	count := int((26 + float32(int((1-rNorm)*32))) * t.params.LeafDensity)
	if count <= 0 {
		return
	}

	jitter := mgl32.Vec3{t.unit(), t.unit(), t.unit()}
	twigDir := safeNormalize(
		safeNormalize(state.forward.Mul(0.4).Add(state.up.Mul(0.8)), state.up).Add(jitter.Mul(0.4)),
		state.up)
	twigLen := 0.25 * t.params.StepLength * (0.7 + 0.6*t.rng.Float32())
	tip := center.Add(twigDir.Mul(twigLen))
	t.branches = append(t.branches, BranchInstance{
		Model:  SegmentMatrix(center, tip, 0.5*branchRadius),
		Radius: 0.5 * branchRadius,
	})

	radiusScale := mix32(0.6, 1.1, 1-rNorm)
	for i := 0; i < count; i++ {
		u := t.rng.Float32()
		v := t.rng.Float32()

		ang := 2 * math.Pi * float64(u)
		rr := (0.01 + 0.02*v) * radiusScale
		along := 0.01 + 0.03*v
		upBias := 0.2 + 0.8*v

		offset := state.forward.Mul(along).
			Add(state.right.Mul(float32(math.Cos(ang)) * rr * 1.1)).
			Add(state.up.Mul(float32(math.Sin(ang)) * rr * upBias))

		s := 0.010 * (0.7 + 0.8*v) * (0.85 + 0.3*t.rng.Float32())
		model := mgl32.Translate3D(tip.X()+offset.X(), tip.Y()+offset.Y(), tip.Z()+offset.Z()).
			Mul4(mgl32.HomogRotate3D(2*math.Pi*t.rng.Float32(), safeNormalize(state.up, mgl32.Vec3{0, 1, 0}))).
			Mul4(mgl32.Scale3D(s, 0.55*s, s))
		t.leaves = append(t.leaves, model)
	}
}

// SegmentMatrix maps the unit cylinder (axis +Y, poles at y = +-0.5) onto
// the segment p0..p1 with the given radius. The axial scale carries a 1.05
// overlap so consecutive segments hide their seams. Zero-length segments
// collapse to identity, and a forward anti-parallel to the cylinder axis
// takes an explicit 180 degree branch instead of normalizing a zero cross
// product.
func SegmentMatrix(p0, p1 mgl32.Vec3, radius float32) mgl32.Mat4 {
	d := p1.Sub(p0)
	length := d.Len()
	if length < 1e-4 {
		return mgl32.Ident4()
	}

	w := d.Mul(1 / length)
	axisY := mgl32.Vec3{0, 1, 0}
	axis := axisY.Cross(w)
	dot := axisY.Dot(w)

	var rot mgl32.Mat4
	switch {
	case axis.Len() < 1e-4 && dot < 0:
		rot = mgl32.HomogRotate3D(math.Pi, mgl32.Vec3{1, 0, 0})
	case axis.Len() < 1e-4:
		rot = mgl32.Ident4()
	default:
		angle := float32(math.Acos(float64(clamp32(dot, -1, 1))))
		rot = mgl32.HomogRotate3D(angle, axis.Normalize())
	}

	mid := p0.Add(p1).Mul(0.5)
	return mgl32.Translate3D(mid.X(), mid.Y(), mid.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(radius, length*1.05, radius))
}

// unit draws uniformly from [-1, 1].
func (t *Tree) unit() float32 {
	return 2*t.rng.Float32() - 1
}

func rotateAbout(v, axis mgl32.Vec3, angle float32) mgl32.Vec3 {
	if axis.Len() < 1e-6 {
		return v
	}
	return mgl32.QuatRotate(angle, axis.Normalize()).Rotate(v)
}

// safeNormalize falls back when the input has collapsed to near zero.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-6 {
		return fallback
	}
	return v.Normalize()
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mix32(a, b, t float32) float32 {
	return a + t*(b-a)
}
