package batch

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"barycentric-renderer/internal/config"
	"barycentric-renderer/internal/imageio"
	"barycentric-renderer/internal/postprocess"
	"barycentric-renderer/internal/raster"
)

// Config holds the shared settings of a batch run.
type Config struct {
	Workers  int
	Progress io.Writer     // periodic progress lines; nil for none
	Interval time.Duration // progress period, default 2s
}

// Result holds the outcome of rendering one job.
type Result struct {
	Name     string
	Output   string
	Format   string
	Covered  int // non-black pixels in the final image
	Success  bool
	Error    string
	Duration time.Duration
}

// Run renders all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []config.Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	if cfg.Progress != nil {
		reporter.Add(1)
		go func() {
			defer reporter.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f renders/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = Execute(jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)
	reporter.Wait()

	return results
}

// Execute renders one job and writes its output file.
func Execute(job config.Job) Result {
	start := time.Now()
	res := Result{Name: job.Name, Output: job.Output}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		raster.Logger().Warn("batch: job failed", "name", job.Name, "err", err)
		return res
	}

	if err := job.Validate(); err != nil {
		return fail(err)
	}
	format, err := imageio.FormatFor(job.Output, job.Format)
	if err != nil {
		return fail(err)
	}
	res.Format = format

	ss := postprocess.Factor(job.Supersample)
	var seed uint64
	if job.Seed != nil {
		seed = *job.Seed
	}
	jitter := raster.SeededJitter(seed)
	if job.NoJitter {
		jitter = raster.ZeroJitter()
	}

	fb, err := raster.Render(*job.Triangle, raster.Options{
		Width:   job.Width * ss,
		Height:  job.Height * ss,
		Samples: job.Samples,
		Jitter:  jitter,
	})
	if err != nil {
		return fail(err)
	}

	img := fb.ToNRGBA()
	if ss > 1 {
		img = postprocess.Downsample(img, job.Width, job.Height)
	}

	if err := imageio.Save(job.Output, img, format); err != nil {
		return fail(err)
	}

	res.Covered = imageio.ComputeStats(img).Covered
	res.Success = true
	res.Duration = time.Since(start)
	raster.Logger().Debug("batch: job done", "name", job.Name, "output", job.Output, "elapsed", res.Duration)
	return res
}
