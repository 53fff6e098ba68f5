package terrain

// Params drives one generation pass. A value is captured wholesale by
// SetParams; the pipeline never reads ambient settings.
type Params struct {
	Octaves     int
	BaseFreq    float64
	Lacunarity  float64
	Gain        float64
	HeightScale float64

	WarpStrength float64

	CliffSteps  int
	CliffSmooth float64

	EnableRivers bool
	RiverFreq    float64
	RiverSharp   float64
	RiverThresh  float64
	RiverDepth   float64

	EnableCraters bool
	CraterDensity float64
	CraterRadius  float64
	CraterDepth   float64

	SeaLevel  float64
	OceanBias float64

	Seed int64
}

// DefaultParams returns the baseline parameter set: rolling fBm hills with
// every optional stage disabled.
func DefaultParams() Params {
	return Params{
		Octaves:     4,
		BaseFreq:    1.0,
		Lacunarity:  2.0,
		Gain:        0.5,
		HeightScale: 1.0,

		WarpStrength: 0,

		CliffSteps:  1,
		CliffSmooth: 0.15,

		EnableRivers: false,
		RiverFreq:    0.8,
		RiverSharp:   1.5,
		RiverThresh:  0.85,
		RiverDepth:   0.20,

		EnableCraters: false,
		CraterDensity: 6,
		CraterRadius:  0.06,
		CraterDepth:   0.25,

		SeaLevel:  -0.15,
		OceanBias: 0,

		Seed: 1230,
	}
}

// SeaHeight is the clamp floor applied by the sampling helpers, in world
// units.
func (p Params) SeaHeight() float64 {
	return p.SeaLevel * p.HeightScale
}
