package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"barycentric-renderer/internal/config"
	"barycentric-renderer/internal/raster"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Format   string          `json:"format,omitempty"`
	Triangle raster.Triangle `json:"triangle"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Samples  int             `json:"samples"`
	Seed     uint64          `json:"seed"`
	Covered  int             `json:"covered"`
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
}

// WriteManifest writes the manifest for jobs and their results (same order).
func WriteManifest(path string, jobs []config.Job, results []Result) error {
	if len(jobs) != len(results) {
		return fmt.Errorf("batch: manifest: %d jobs but %d results", len(jobs), len(results))
	}

	entries := make([]ManifestEntry, len(jobs))
	for i, j := range jobs {
		r := results[i]
		e := ManifestEntry{
			Name:    j.Name,
			Image:   j.Output,
			Format:  r.Format,
			Width:   j.Width,
			Height:  j.Height,
			Samples: j.Samples,
			Covered: r.Covered,
			Success: r.Success,
			Error:   r.Error,
		}
		if j.Triangle != nil {
			e.Triangle = *j.Triangle
		}
		if j.Seed != nil {
			e.Seed = *j.Seed
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
