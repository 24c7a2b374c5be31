package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one converted file in the output manifest.
type ManifestEntry struct {
	File    string `json:"file"`
	Output  string `json:"output,omitempty"`
	Meshes  int    `json:"meshes"`
	Models  int    `json:"models"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json to the output directory.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			File:    r.File,
			Output:  r.Output,
			Meshes:  r.Meshes,
			Models:  r.Models,
			Success: r.Success,
			Error:   r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
