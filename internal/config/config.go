package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"barycentric-renderer/internal/mathutil"
	"barycentric-renderer/internal/raster"
)

// ErrInvalid marks a configuration that cannot be rendered.
var ErrInvalid = errors.New("config: invalid")

// Defaults for the reference render.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
	DefaultOutput = "barycentric.ppm"
)

// DefaultTriangle is the reference triangle.
var DefaultTriangle = raster.Triangle{
	A: mathutil.Vec3{0.3, 0.3, 0},
	B: mathutil.Vec3{0.6, 0.4, 0},
	C: mathutil.Vec3{0.5, 0.7, 0},
}

// Config holds render settings. Top-level values are the single render and
// also the defaults inherited by every entry of Jobs.
type Config struct {
	Triangle    *raster.Triangle `json:"triangle"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Samples     int              `json:"samples"`
	Seed        uint64           `json:"seed"`
	NoJitter    bool             `json:"no_jitter"`
	Supersample int              `json:"supersample"`
	Output      string           `json:"output"`
	Format      string           `json:"format"`

	// Batch settings
	OutputDir string `json:"output_dir"`
	Workers   int    `json:"workers"`
	Jobs      []Job  `json:"jobs"`
}

// Job is one render. Zero fields inherit from the enclosing Config.
type Job struct {
	Name        string           `json:"name"`
	Triangle    *raster.Triangle `json:"triangle"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Samples     int              `json:"samples"`
	Seed        *uint64          `json:"seed"`
	NoJitter    bool             `json:"no_jitter"`
	Supersample int              `json:"supersample"`
	Output      string           `json:"output"`
	Format      string           `json:"format"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the config untouched.
type Flags struct {
	Width       int
	Height      int
	Samples     int
	Seed        uint64
	SeedSet     bool
	NoJitter    bool
	Supersample int
	Output      string
	Format      string
	OutputDir   string
	Workers     int
}

// Resolve applies flag overrides, then fills in defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Samples > 0 {
		c.Samples = flags.Samples
	}
	if flags.SeedSet {
		c.Seed = flags.Seed
	}
	if flags.NoJitter {
		c.NoJitter = true
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.Triangle == nil {
		tri := DefaultTriangle
		c.Triangle = &tri
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Samples <= 0 {
		c.Samples = 1
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Single returns the top-level render as a Job.
func (c *Config) Single() Job {
	seed := c.Seed
	return Job{
		Name:        filepath.Base(c.Output),
		Triangle:    c.Triangle,
		Width:       c.Width,
		Height:      c.Height,
		Samples:     c.Samples,
		Seed:        &seed,
		NoJitter:    c.NoJitter,
		Supersample: c.Supersample,
		Output:      c.Output,
		Format:      c.Format,
	}
}

// ResolvedJobs returns Jobs with every zero field inherited from c.
// Relative outputs are placed under OutputDir; a job without an output is
// written to "<name>.ppm" (or "job<i>.ppm").
func (c *Config) ResolvedJobs() []Job {
	jobs := make([]Job, len(c.Jobs))
	for i, j := range c.Jobs {
		if j.Name == "" {
			j.Name = fmt.Sprintf("job%d", i)
		}
		if j.Triangle == nil {
			j.Triangle = c.Triangle
		}
		if j.Width <= 0 {
			j.Width = c.Width
		}
		if j.Height <= 0 {
			j.Height = c.Height
		}
		if j.Samples <= 0 {
			j.Samples = c.Samples
		}
		if j.Seed == nil {
			seed := c.Seed
			j.Seed = &seed
		}
		j.NoJitter = j.NoJitter || c.NoJitter
		if j.Supersample <= 0 {
			j.Supersample = c.Supersample
		}
		if j.Format == "" {
			j.Format = c.Format
		}
		if j.Output == "" {
			j.Output = j.Name + ".ppm"
		}
		if !filepath.IsAbs(j.Output) {
			j.Output = filepath.Join(c.OutputDir, j.Output)
		}
		jobs[i] = j
	}
	return jobs
}

// Validate reports whether j can be rendered. Degenerate triangles are
// caught here, before any sampling.
func (j Job) Validate() error {
	if j.Triangle == nil {
		return fmt.Errorf("%w: %s: no triangle", ErrInvalid, j.Name)
	}
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("%w: %s: size %dx%d", ErrInvalid, j.Name, j.Width, j.Height)
	}
	if j.Samples <= 0 {
		return fmt.Errorf("%w: %s: samples %d", ErrInvalid, j.Name, j.Samples)
	}
	if j.Supersample <= 0 {
		return fmt.Errorf("%w: %s: supersample %d", ErrInvalid, j.Name, j.Supersample)
	}
	for _, v := range []mathutil.Vec3{j.Triangle.A, j.Triangle.B, j.Triangle.C} {
		if v[2] != 0 {
			return fmt.Errorf("%w: %s: vertex %v is off the z=0 plane", ErrInvalid, j.Name, v)
		}
	}
	if _, err := raster.NewSampler(*j.Triangle); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, j.Name, err)
	}
	return nil
}

// ParseSamples reads the optional positional sample count. A missing,
// non-numeric or non-positive argument yields 0, meaning "not set".
func ParseSamples(args []string) int {
	if len(args) != 1 {
		return 0
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
