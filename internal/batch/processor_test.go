package batch

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barycentric-renderer/internal/config"
	"barycentric-renderer/internal/imageio"
	"barycentric-renderer/internal/mathutil"
	"barycentric-renderer/internal/raster"
)

func testJobs(t *testing.T, dir string) []config.Job {
	t.Helper()
	collinear := raster.Triangle{A: mathutil.Vec3{0, 0}, B: mathutil.Vec3{0.5, 0.5}, C: mathutil.Vec3{1, 1}}
	cfg := config.Config{
		Width:     32,
		Height:    24,
		OutputDir: dir,
		Jobs: []config.Job{
			{Name: "plain"},
			{Name: "smooth", Samples: 16, Supersample: 2, Output: "smooth.png"},
			{Name: "broken", Triangle: &collinear},
		},
	}
	cfg.Resolve(config.Flags{})
	return cfg.ResolvedJobs()
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	jobs := testJobs(t, dir)

	results := Run(Config{Workers: 2}, jobs)
	if len(results) != len(jobs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(jobs))
	}

	for _, r := range results[:2] {
		if !r.Success {
			t.Errorf("%s failed: %s", r.Name, r.Error)
			continue
		}
		img, _, err := imageio.Load(r.Output)
		if err != nil {
			t.Errorf("%s: load output: %v", r.Name, err)
			continue
		}
		if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
			t.Errorf("%s: size %v, want 32x24", r.Name, b.Size())
		}
		if r.Covered == 0 {
			t.Errorf("%s: no covered pixels", r.Name)
		}
	}
	if results[1].Format != imageio.FormatPNG {
		t.Errorf("smooth format = %q, want png", results[1].Format)
	}

	broken := results[2]
	if broken.Success || !strings.Contains(broken.Error, "degenerate") {
		t.Errorf("broken result = %+v, want degenerate failure", broken)
	}
	if _, err := os.Stat(broken.Output); !os.IsNotExist(err) {
		t.Errorf("broken job wrote %s", broken.Output)
	}
}

func TestExecuteNoJitterMatchesRender(t *testing.T) {
	dir := t.TempDir()
	tri := config.DefaultTriangle
	job := config.Job{
		Name: "ref", Triangle: &tri, Width: 10, Height: 10, Samples: 1,
		Supersample: 1, NoJitter: true, Output: filepath.Join(dir, "ref.ppm"),
	}
	if r := Execute(job); !r.Success {
		t.Fatalf("Execute: %s", r.Error)
	}

	data, err := os.ReadFile(job.Output)
	if err != nil {
		t.Fatal(err)
	}
	header := "P6\n10 10\n255\n"
	if !bytes.HasPrefix(data, []byte(header)) {
		t.Fatalf("header = %q, want %q", data[:len(header)], header)
	}
	pix := data[len(header):]
	if len(pix) != 10*10*3 {
		t.Fatalf("raster is %d bytes, want 300", len(pix))
	}
	i := (3*10 + 3) * 3
	if pix[i] != 255 || pix[i+1] != 0 || pix[i+2] != 0 {
		t.Errorf("pixel (3,3) = %v, want [255 0 0]", pix[i:i+3])
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	jobs := testJobs(t, dir)
	results := Run(Config{Workers: 1}, jobs)

	path := filepath.Join(dir, "manifest.json")
	if err := WriteManifest(path, jobs, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Name != "plain" || !entries[0].Success || entries[0].Samples != 1 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[2].Success || entries[2].Error == "" {
		t.Errorf("entry 2 = %+v, want failure", entries[2])
	}

	if err := WriteManifest(path, jobs, results[:1]); err == nil {
		t.Error("WriteManifest with mismatched results succeeded")
	}
}
