package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fbx-scene-decoder/internal/fbx"
	"fbx-scene-decoder/internal/imaging"
)

// texdump pulls the embedded texture payloads out of FBX files and writes
// them as WebP, without converting the geometry.
func main() {
	outDir := flag.String("out", ".", "Output directory")
	flag.Parse()

	fbx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: texdump [-out dir] file.fbx...")
		os.Exit(2)
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		scene, err := fbx.LoadFile(arg, imaging.Decoder{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load error %s: %v\n", arg, err)
			exitCode = 1
			continue
		}
		dumped := 0
		for id, video := range scene.Objects.Videos {
			if video.Content == nil {
				continue
			}
			if video.Content.Err != nil {
				fmt.Fprintf(os.Stderr, "  %s: video %q: %v\n", arg, video.Name, video.Content.Err)
				continue
			}
			base := filepath.Base(strings.ReplaceAll(video.Filename, "\\", "/"))
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			if stem == "" {
				stem = fmt.Sprintf("video_%d", id)
			}
			dst := filepath.Join(*outDir, stem+".webp")
			if err := imaging.SaveWebP(dst, video.Content.Image); err != nil {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", arg, err)
				exitCode = 1
				continue
			}
			b := video.Content.Image.Bounds()
			fmt.Printf("  %s: %q %dx%d -> %s\n", arg, video.Name, b.Dx(), b.Dy(), dst)
			dumped++
		}
		if dumped == 0 {
			fmt.Printf("  %s: no embedded textures\n", arg)
		}
	}
	os.Exit(exitCode)
}
