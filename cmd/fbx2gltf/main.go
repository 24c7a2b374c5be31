package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fbx-scene-decoder/internal/fbx"
	"fbx-scene-decoder/internal/gltfexport"
	"fbx-scene-decoder/internal/imaging"
)

func main() {
	output := flag.String("o", "", "Output path (default: input with .gltf extension)")
	binary := flag.Bool("glb", false, "Write binary glTF")
	textures := flag.String("textures", "", "Also extract embedded textures as WebP into this directory")
	verbose := flag.Bool("v", false, "Log recoverable decode diagnostics")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fbx2gltf [-o output] [-glb] [-textures dir] file.fbx")
		os.Exit(2)
	}
	input := flag.Arg(0)

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	fbx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	scene, err := fbx.LoadFile(input, imaging.Decoder{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load error: %v\n", err)
		os.Exit(1)
	}

	doc, err := gltfexport.Export(scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export error: %v\n", err)
		os.Exit(1)
	}

	out := *output
	if out == "" {
		ext := ".gltf"
		if *binary {
			ext = ".glb"
		}
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}
	if err := gltfexport.Save(doc, out); err != nil {
		fmt.Fprintf(os.Stderr, "Save error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d meshes, %d nodes, %d materials -> %s\n",
		input, len(doc.Meshes), len(doc.Nodes), len(doc.Materials), out)

	if *textures != "" {
		n := 0
		for _, video := range scene.Objects.Videos {
			if video.Content == nil || video.Content.Err != nil {
				continue
			}
			base := filepath.Base(strings.ReplaceAll(video.Filename, "\\", "/"))
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			if stem == "" {
				stem = video.Name
			}
			dst := filepath.Join(*textures, stem+".webp")
			if err := imaging.SaveWebP(dst, video.Content.Image); err != nil {
				fmt.Fprintf(os.Stderr, "Texture write error: %v\n", err)
				os.Exit(1)
			}
			n++
		}
		fmt.Printf("Extracted %d textures to %s\n", n, *textures)
	}
}
