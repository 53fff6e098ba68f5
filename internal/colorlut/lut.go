// Package colorlut generates the 3D color-grading lookup tables the host
// uploads as volume textures: an identity cube plus a few styled presets.
package colorlut

import "math"

// Preset names a styled grading curve.
type Preset int

const (
	PresetIdentity Preset = iota
	PresetWarm
	PresetCool
	PresetCinematic
	PresetVintage
)

// Identity returns a size^3 RGB table where every entry maps to itself.
// r varies fastest, then g, then b.
func Identity(size int) []float32 {
	if size < 2 {
		size = 2
	}
	out := make([]float32, 0, size*size*size*3)
	div := float32(size - 1)
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				out = append(out, float32(r)/div, float32(g)/div, float32(b)/div)
			}
		}
	}
	return out
}

// Styled returns the identity grid pushed through a preset transform.
// Unknown presets fall back to identity.
func Styled(size int, preset Preset) []float32 {
	out := Identity(size)
	for i := 0; i < len(out); i += 3 {
		r, g, b := out[i], out[i+1], out[i+2]
		r, g, b = apply(preset, r, g, b)
		out[i] = clamp01(r)
		out[i+1] = clamp01(g)
		out[i+2] = clamp01(b)
	}
	return out
}

func apply(preset Preset, r, g, b float32) (float32, float32, float32) {
	switch preset {
	case PresetWarm:
		return pow32(r, 0.9) * 1.1, pow32(g, 0.95) * 1.05, pow32(b, 1.1)
	case PresetCool:
		return pow32(r, 1.1), pow32(g, 1.05), pow32(b, 0.9) * 1.15
	case PresetCinematic:
		return pow32(0.05+r*0.90, 1.2), pow32(0.05+g*0.90, 1.2), pow32(0.05+b*0.90, 1.2)
	case PresetVintage:
		luma := 0.299*r + 0.587*g + 0.114*b
		r = r*0.7 + luma*0.3 + 0.05
		g = g*0.7 + luma*0.3 + 0.03
		b = b*0.7 + luma*0.3
		return r, g, b
	default:
		return r, g, b
	}
}

func pow32(v, e float32) float32 {
	return float32(math.Pow(float64(v), float64(e)))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
