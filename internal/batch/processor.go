package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fbx-scene-decoder/internal/fbx"
	"fbx-scene-decoder/internal/gltfexport"
	"fbx-scene-decoder/internal/imaging"
)

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir        string
	OutputDir       string
	Format          string // "gltf" or "glb"
	ExtractTextures bool
	Workers         int
}

// Result holds the outcome of converting one file.
type Result struct {
	File    string
	Output  string
	Meshes  int
	Models  int
	Success bool
	Error   string
}

// FindFiles returns the .fbx files below dir, as paths relative to dir.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".fbx") {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	return files, nil
}

// Run converts all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
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
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, rel string) Result {
	res := Result{File: rel}

	scene, err := fbx.LoadFile(filepath.Join(cfg.InputDir, rel), imaging.Decoder{})
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Meshes = len(scene.Objects.Meshes)
	res.Models = len(scene.Objects.Models)

	doc, err := gltfexport.Export(scene)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	outPath := filepath.Join(cfg.OutputDir, stem+"."+cfg.Format)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := gltfexport.Save(doc, outPath); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Output = outPath

	if cfg.ExtractTextures {
		if err := extractTextures(scene, filepath.Join(cfg.OutputDir, stem+"_textures")); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	res.Success = true
	return res
}

// extractTextures writes every embedded video payload that converted to an
// image out as WebP, named by the video's original file name stem.
func extractTextures(scene *fbx.Scene[imaging.Result], dir string) error {
	for _, video := range scene.Objects.Videos {
		if video.Content == nil {
			continue
		}
		if video.Content.Err != nil {
			fmt.Fprintf(os.Stderr, "  skip texture %s: %v\n", video.Name, video.Content.Err)
			continue
		}
		base := filepath.Base(strings.ReplaceAll(video.Filename, "\\", "/"))
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if stem == "" {
			stem = video.Name
		}
		if err := imaging.SaveWebP(filepath.Join(dir, stem+".webp"), video.Content.Image); err != nil {
			return err
		}
	}
	return nil
}
