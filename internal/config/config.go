// Package config holds the host-side settings snapshot: the raw slider and
// toggle values the UI layer exposes, plus the mapping from those values to
// the generation parameters the library consumes. Files load from JSON or,
// by extension, YAML.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/terrain"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/voxel"
)

// Config captures everything one world build needs. It is a value snapshot:
// the generators never read it after the pass starts.
type Config struct {
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	Sliders SliderConfig  `json:"sliders" yaml:"sliders"`
	Toggles ToggleConfig  `json:"toggles" yaml:"toggles"`
	Voxel   VoxelConfig   `json:"voxel" yaml:"voxel"`
	Weather WeatherConfig `json:"weather" yaml:"weather"`
}

// TerrainConfig holds the parameters the sliders do not drive directly.
type TerrainConfig struct {
	Seed        int64   `json:"seed" yaml:"seed"`
	Octaves     int     `json:"octaves" yaml:"octaves"`
	Lacunarity  float64 `json:"lacunarity" yaml:"lacunarity"`
	Gain        float64 `json:"gain" yaml:"gain"`
	CliffSmooth float64 `json:"cliffSmooth" yaml:"cliffSmooth"`
}

// SliderConfig mirrors the UI's numeric sliders.
type SliderConfig struct {
	Roughness   int `json:"roughness" yaml:"roughness"`     // 1..10, noise frequency
	Height      int `json:"height" yaml:"height"`           // 1..20, world height scale
	Distortion  int `json:"distortion" yaml:"distortion"`   // 1..5, warp/river intensity
	Coverage    int `json:"coverage" yaml:"coverage"`       // 1..100, forest coverage
	TreeSize    int `json:"treeSize" yaml:"treeSize"`       // 1..40
	LeafDensity int `json:"leafDensity" yaml:"leafDensity"` // 1..40
	RockCount   int `json:"rockCount" yaml:"rockCount"`
}

// ToggleConfig mirrors the UI's feature checkboxes.
type ToggleConfig struct {
	Cliffs  bool `json:"cliffs" yaml:"cliffs"`
	Craters bool `json:"craters" yaml:"craters"`
	Rivers  bool `json:"rivers" yaml:"rivers"`
	Forest  bool `json:"forest" yaml:"forest"`
}

// VoxelConfig drives the optional voxel chunk stage.
type VoxelConfig struct {
	Enabled       bool    `json:"enabled" yaml:"enabled"`
	Size          int     `json:"size" yaml:"size"`
	Seed          int64   `json:"seed" yaml:"seed"`
	EnableCaves   bool    `json:"enableCaves" yaml:"enableCaves"`
	CaveFreq      float64 `json:"caveFreq" yaml:"caveFreq"`
	CaveThreshold float64 `json:"caveThreshold" yaml:"caveThreshold"`
}

// WeatherConfig drives the optional weather particle stage.
type WeatherConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Mode    string  `json:"mode" yaml:"mode"` // "snow" or "rain"
	Seed    int64   `json:"seed" yaml:"seed"`
	Steps   int     `json:"steps" yaml:"steps"`
	StepDt  float64 `json:"stepDt" yaml:"stepDt"`
}

// Load reads configuration from a JSON or YAML file (by extension). An empty
// path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns the reference settings: mid sliders, forest on, every
// optional terrain stage off.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Seed:        1230,
			Octaves:     4,
			Lacunarity:  2.0,
			Gain:        0.5,
			CliffSmooth: 0.15,
		},
		Sliders: SliderConfig{
			Roughness:   5,
			Height:      8,
			Distortion:  2,
			Coverage:    30,
			TreeSize:    14,
			LeafDensity: 16,
			RockCount:   40,
		},
		Toggles: ToggleConfig{
			Forest: true,
		},
		Voxel: VoxelConfig{
			Enabled:       false,
			Size:          64,
			Seed:          1230,
			CaveFreq:      0.09,
			CaveThreshold: 0.55,
		},
		Weather: WeatherConfig{
			Enabled: false,
			Mode:    "snow",
			Seed:    1337,
			Steps:   120,
			StepDt:  1.0 / 60.0,
		},
	}
}

// Validate checks the ranges the generators themselves do not re-check.
func (c *Config) Validate() error {
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if c.Terrain.Lacunarity <= 0 || c.Terrain.Gain <= 0 {
		return errors.New("terrain.lacunarity and terrain.gain must be positive")
	}
	if c.Terrain.CliffSmooth < 0 || c.Terrain.CliffSmooth > 0.5 {
		return errors.New("terrain.cliffSmooth must be within [0, 0.5]")
	}
	if c.Sliders.Roughness < 1 || c.Sliders.Roughness > 10 {
		return errors.New("sliders.roughness must be within [1, 10]")
	}
	if c.Sliders.Height < 1 || c.Sliders.Height > 20 {
		return errors.New("sliders.height must be within [1, 20]")
	}
	if c.Sliders.Distortion < 1 || c.Sliders.Distortion > 5 {
		return errors.New("sliders.distortion must be within [1, 5]")
	}
	if c.Sliders.Coverage < 1 || c.Sliders.Coverage > 100 {
		return errors.New("sliders.coverage must be within [1, 100]")
	}
	if c.Sliders.TreeSize < 1 || c.Sliders.TreeSize > 40 {
		return errors.New("sliders.treeSize must be within [1, 40]")
	}
	if c.Sliders.LeafDensity < 1 || c.Sliders.LeafDensity > 40 {
		return errors.New("sliders.leafDensity must be within [1, 40]")
	}
	if c.Sliders.RockCount < 0 {
		return errors.New("sliders.rockCount cannot be negative")
	}
	if c.Voxel.Size <= 0 {
		return errors.New("voxel.size must be positive")
	}
	if c.Weather.Mode != "snow" && c.Weather.Mode != "rain" {
		return errors.New(`weather.mode must be "snow" or "rain"`)
	}
	if c.Weather.Steps < 0 || c.Weather.StepDt < 0 {
		return errors.New("weather.steps and weather.stepDt cannot be negative")
	}
	return nil
}

// TerrainParams maps the slider/toggle snapshot to the generator's
// parameter struct. Roughness is an exponential frequency ladder, distortion
// drives both warp strength and the river shape.
func (c *Config) TerrainParams() terrain.Params {
	p := terrain.DefaultParams()
	p.Seed = c.Terrain.Seed
	p.Octaves = c.Terrain.Octaves
	p.Lacunarity = c.Terrain.Lacunarity
	p.Gain = c.Terrain.Gain
	p.CliffSmooth = c.Terrain.CliffSmooth

	p.BaseFreq = 0.25 * math.Pow(2, float64(c.Sliders.Roughness-5)/3)
	p.HeightScale = 0.12 * float64(c.Sliders.Height)

	t3 := (clampf(float64(c.Sliders.Distortion), 1, 5) - 1) / 4
	p.WarpStrength = mixf(0.10, 0.45, t3)

	if c.Toggles.Cliffs {
		p.CliffSteps = 5
	} else {
		p.CliffSteps = 1
	}

	p.EnableCraters = c.Toggles.Craters
	if c.Toggles.Craters {
		p.CraterDensity = 4
		p.CraterRadius = 0.05
		p.CraterDepth = 0.32
	}

	p.EnableRivers = c.Toggles.Rivers
	if c.Toggles.Rivers {
		p.RiverFreq = mixf(0.5, 1.4, t3)
		p.RiverSharp = mixf(1.0, 2.5, t3)
		p.RiverThresh = mixf(0.92, 0.75, t3)
		p.RiverDepth = mixf(0.04, 0.18, t3)
	} else {
		p.RiverDepth = 0
	}

	p.SeaLevel = -0.1
	p.OceanBias = 0
	return p
}

// VoxelParams maps the voxel block onto chunk parameters.
func (c *Config) VoxelParams() voxel.Params {
	p := voxel.DefaultParams()
	p.SX, p.SY, p.SZ = c.Voxel.Size, c.Voxel.Size, c.Voxel.Size
	p.Seed = c.Voxel.Seed
	p.EnableCaves = c.Voxel.EnableCaves
	if c.Voxel.CaveFreq > 0 {
		p.CaveFreq = c.Voxel.CaveFreq
	}
	if c.Voxel.CaveThreshold > 0 {
		p.CaveThreshold = c.Voxel.CaveThreshold
	}
	return p
}

// TerrainModel maps the generator's z-up unit square into y-up world space:
// center the square, scale to world extent, tip it flat.
func TerrainModel() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(-math.Pi / 2).
		Mul4(mgl32.Scale3D(120, 120, 10)).
		Mul4(mgl32.Translate3D(-0.5, -0.5, 0))
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mixf(a, b, t float64) float64 {
	return a + t*(b-a)
}
