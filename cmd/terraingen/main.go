package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/colorlut"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/config"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/particles"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/placement"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/primitives"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/terrain"
	"github.com/yubowang1-ctrl/Amazing-Terrain/internal/voxel"
)

func main() {
	var (
		cfgPath    string
		outDir     string
		cliffs     bool
		craters    bool
		rivers     bool
		noForest   bool
		withVoxel  bool
		withWx     bool
		withLUT    bool
		withShapes bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to a JSON or YAML world configuration")
	flag.StringVar(&outDir, "out", "", "directory for PNG previews (skipped when empty)")
	flag.BoolVar(&cliffs, "cliffs", false, "force the cliff terracing stage on")
	flag.BoolVar(&craters, "craters", false, "force the crater stage on")
	flag.BoolVar(&rivers, "rivers", false, "force the river carving stage on")
	flag.BoolVar(&noForest, "no-forest", false, "skip the forest pass")
	flag.BoolVar(&withVoxel, "voxel", false, "also build the voxel chunk")
	flag.BoolVar(&withWx, "weather", false, "also run the weather simulation")
	flag.BoolVar(&withLUT, "lut", false, "also generate the color grading tables")
	flag.BoolVar(&withShapes, "primitives", false, "also tessellate the demo solids")
	flag.Parse()

	logger := log.New(log.Writer(), "terraingen ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cliffs {
		cfg.Toggles.Cliffs = true
	}
	if craters {
		cfg.Toggles.Craters = true
	}
	if rivers {
		cfg.Toggles.Rivers = true
	}
	if noForest {
		cfg.Toggles.Forest = false
	}
	if withVoxel {
		cfg.Voxel.Enabled = true
	}
	if withWx {
		cfg.Weather.Enabled = true
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, cfg, outDir, withLUT, withShapes, logger); err != nil {
		log.Fatalf("world build failed: %v", err)
	}
}

// run executes the build stages in order, checking for cancellation between
// stages. Generation itself is synchronous and not cancellable mid-call.
func run(ctx context.Context, cfg *config.Config, outDir string, withLUT, withShapes bool, logger *log.Logger) error {
	gen := terrain.NewGenerator(cfg.TerrainParams())
	model := config.TerrainModel()

	start := time.Now()
	mesh := gen.GenerateTerrain()
	water := gen.WaterMesh()
	logger.Printf("terrain: %d vertices, water %d vertices in %v",
		len(mesh)/9, len(water)/9, time.Since(start).Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted after terrain: %w", err)
	}

	if cfg.Toggles.Forest {
		start = time.Now()
		branches, leaves := placement.BuildForest(gen, placement.ForestParams{
			Coverage:    cfg.Sliders.Coverage,
			TreeSize:    cfg.Sliders.TreeSize,
			LeafDensity: cfg.Sliders.LeafDensity,
			Model:       model,
		})
		logger.Printf("forest: %d branches, %d leaves in %v",
			len(branches), len(leaves), time.Since(start).Round(time.Millisecond))

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted after forest: %w", err)
		}
	}

	start = time.Now()
	rocks := placement.BuildRocks(gen, placement.RockParams{
		Count: cfg.Sliders.RockCount,
		Model: model,
	})
	logger.Printf("rocks: %d instances in %v", len(rocks), time.Since(start).Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted after rocks: %w", err)
	}

	if cfg.Voxel.Enabled {
		start = time.Now()
		chunk := voxel.NewChunk(cfg.VoxelParams())
		chunk.Build()
		voxelMesh := chunk.Mesh()
		logger.Printf("voxel: %d vertices in %v", len(voxelMesh)/9, time.Since(start).Round(time.Millisecond))

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted after voxel chunk: %w", err)
		}
	}

	if cfg.Weather.Enabled {
		start = time.Now()
		mode := particles.Snow
		if cfg.Weather.Mode == "rain" {
			mode = particles.Rain
		}
		wx := particles.NewSystem(mode, cfg.Weather.Seed)
		for i := 0; i < cfg.Weather.Steps; i++ {
			wx.Update(float32(cfg.Weather.StepDt))
		}
		logger.Printf("weather: %s, %d particles, %d steps in %v",
			cfg.Weather.Mode, wx.Count(), cfg.Weather.Steps, time.Since(start).Round(time.Millisecond))
	}

	if withLUT {
		for _, preset := range []colorlut.Preset{
			colorlut.PresetIdentity, colorlut.PresetWarm, colorlut.PresetCool,
			colorlut.PresetCinematic, colorlut.PresetVintage,
		} {
			lut := colorlut.Styled(32, preset)
			logger.Printf("lut: preset %d, %d floats", preset, len(lut))
		}
	}

	if withShapes {
		for _, kind := range []primitives.Kind{primitives.Cube, primitives.Sphere, primitives.Cylinder, primitives.Cone} {
			shape := primitives.BuildMesh(kind, 8, 16)
			logger.Printf("primitive %d: %d vertices", kind, len(shape)/6)
		}
	}

	if outDir != "" {
		if err := writePreviews(gen, outDir); err != nil {
			return fmt.Errorf("write previews: %w", err)
		}
		logger.Printf("previews written to %s", outDir)
	}
	return nil
}

// writePreviews renders a grayscale heightmap and a biome color map of the
// current heightfield.
func writePreviews(gen *terrain.Generator, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	const size = 256
	params := gen.Params()

	height := image.NewGray(image.Rect(0, 0, size, size))
	biome := image.NewRGBA(image.Rect(0, 0, size, size))

	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			x := float64(px) / float64(size)
			y := float64(py) / float64(size)

			h := gen.SampleHeight01(x, y)
			h01 := (h/params.HeightScale + 1) / 2
			if h01 < 0 {
				h01 = 0
			} else if h01 > 1 {
				h01 = 1
			}
			height.SetGray(px, py, color.Gray{Y: uint8(h01 * 255)})

			row := px * gen.Resolution() / size
			col := py * gen.Resolution() / size
			normal := gen.Normal(row, col)
			c := gen.Color(normal, gen.SampleSurfacePos(x, y))
			biome.SetRGBA(px, py, color.RGBA{
				R: uint8(clamp01(c.X()) * 255),
				G: uint8(clamp01(c.Y()) * 255),
				B: uint8(clamp01(c.Z()) * 255),
				A: 255,
			})
		}
	}

	if err := writePNG(filepath.Join(dir, "heightmap.png"), height); err != nil {
		return err
	}
	return writePNG(filepath.Join(dir, "biome.png"), biome)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
