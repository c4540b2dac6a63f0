package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"barycentric-renderer/internal/batch"
	"barycentric-renderer/internal/config"
	"barycentric-renderer/internal/raster"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [samples]\n", os.Args[0])
		flag.PrintDefaults()
	}

	configFile := flag.String("config", "", "Path to config.json file")
	output := flag.String("o", "", "Output file (default: barycentric.ppm)")
	format := flag.String("format", "", "Output format: ppm, png, webp, tga (default: from extension)")
	width := flag.Int("width", 0, "Image width (default: 1024)")
	height := flag.Int("height", 0, "Image height (default: 768)")
	seed := flag.Uint64("seed", 0, "Jitter seed")
	noJitter := flag.Bool("no-jitter", false, "Sample pixel corners instead of random offsets")
	supersample := flag.Int("supersample", 0, "Render at N times the size and downscale (default: 1)")
	verbose := flag.Bool("v", false, "Debug logging to stderr")

	flag.Parse()

	if *verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg.Resolve(config.Flags{
		Width:       *width,
		Height:      *height,
		Samples:     config.ParseSamples(flag.Args()),
		Seed:        *seed,
		SeedSet:     seedSet,
		NoJitter:    *noJitter,
		Supersample: *supersample,
		Output:      *output,
		Format:      *format,
	})

	job := cfg.Single()
	start := time.Now()
	res := batch.Execute(job)
	if !res.Success {
		fmt.Fprintf(os.Stderr, "Error: %s\n", res.Error)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%dx%d %s, %d samples/pixel, %d pixels covered) in %.2fs\n",
		res.Output, job.Width, job.Height, res.Format, job.Samples, res.Covered, time.Since(start).Seconds())
}
