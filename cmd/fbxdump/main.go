package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fbx-scene-decoder/internal/fbx"
	"fbx-scene-decoder/internal/imaging"
)

func main() {
	verbose := flag.Bool("v", false, "Log recoverable decode diagnostics")
	triangulate := flag.Bool("triangulate", false, "Triangulate meshes before printing")
	templates := flag.Bool("templates", false, "List property templates")
	flag.Parse()

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	fbx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: fbxdump [-v] [-triangulate] [-templates] file.fbx...")
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
		if *triangulate {
			if err := scene.Triangulate(nil); err != nil {
				fmt.Fprintf(os.Stderr, "Triangulate error %s: %v\n", arg, err)
				exitCode = 1
				continue
			}
		}
		printScene(arg, scene, *templates)
	}
	os.Exit(exitCode)
}

func printScene(path string, scene *fbx.Scene[imaging.Result], templates bool) {
	fmt.Printf("\n=== %s ===\n", path)
	fmt.Printf("Header: version=%d fbx=%d creator=%q\n",
		scene.Header.Version, scene.Header.FBXVersion, scene.Header.Creator)
	fmt.Printf("Objects: %d, Connections: %d, Templates: %d\n",
		scene.Objects.Len(), len(scene.Connections), scene.Templates.Len())

	o := &scene.Objects
	for id, m := range o.Meshes {
		line := fmt.Sprintf("  Mesh[%d] %q: verts=%d pvi=%d normals=%d uvs=%d materials=%d layers=%d",
			id, m.Name, len(m.Vertices), len(m.PolygonVertexIndex.Raw),
			len(m.Normals), len(m.UVs), len(m.Materials), len(m.Layers))
		if m.PolygonVertexIndex.Triangulated() {
			line += fmt.Sprintf(" tris=%d", len(m.PolygonVertexIndex.Triangles)/3)
		}
		fmt.Println(line)
	}
	for id, s := range o.Shapes {
		fmt.Printf("  Shape[%d] %q: indexes=%d verts=%d normals=%d\n",
			id, s.Name, len(s.Indexes), len(s.Vertices), len(s.Normals))
	}
	for id, m := range o.Models {
		fmt.Printf("  Model[%d] %q (%s): show=%v culling=%d\n",
			id, m.Name, m.Subclass, m.Show, m.Culling)
	}
	for id, m := range o.Materials {
		fmt.Printf("  Material[%d] %q: multiLayer=%v shading=%T\n",
			id, m.Name, m.MultiLayer, m.Shading)
	}
	for id, t := range o.Textures {
		fmt.Printf("  Texture[%d] %q: media=%q uvSet=%q file=%q\n",
			id, t.Name, t.Media, t.UVSet, t.RelativeFilename)
	}
	for id, v := range o.Videos {
		content := "none"
		if v.Content != nil {
			if v.Content.Err != nil {
				content = fmt.Sprintf("error: %v", v.Content.Err)
			} else {
				b := v.Content.Image.Bounds()
				content = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
			}
		}
		fmt.Printf("  Video[%d] %q: file=%q content=%s\n", id, v.Name, v.RelativeFilename, content)
	}
	for id, s := range o.Skins {
		fmt.Printf("  Skin[%d] %q: accuracy=%.1f type=%d\n", id, s.Name, s.DeformAccuracy, s.SkinningType)
	}
	for id, c := range o.Clusters {
		fmt.Printf("  Cluster[%d] %q: weights=%d\n", id, c.Name, len(c.Weights))
	}
	for id, b := range o.BlendShapes {
		fmt.Printf("  BlendShape[%d] %q\n", id, b.Name)
	}
	for id, c := range o.BlendShapeChannels {
		fmt.Printf("  BlendShapeChannel[%d] %q: percent=%.1f weights=%d\n",
			id, c.Name, c.DeformPercent, len(c.FullWeights))
	}
	for id, p := range o.Poses {
		fmt.Printf("  Pose[%d] %q: nodes=%d\n", id, p.Name, len(p.Nodes))
	}
	for id, a := range o.LimbNodeAttributes {
		fmt.Printf("  LimbNodeAttribute[%d] %q: flags=%q size=%.1f\n", id, a.Name, a.TypeFlags, a.Size)
	}
	for id, a := range o.NullNodeAttributes {
		fmt.Printf("  NullNodeAttribute[%d] %q: look=%d size=%.1f\n", id, a.Name, a.Look, a.Size)
	}
	for id, d := range o.DisplayLayers {
		fmt.Printf("  DisplayLayer[%d] %q: show=%v freeze=%v\n", id, d.Name, d.Show, d.Freeze)
	}
	for id, u := range o.Unknown {
		fmt.Printf("  Unknown[%d] %q: class=%q subclass=%q\n", id, u.Name, u.Class, u.Subclass)
	}

	if templates {
		fmt.Println("  --- templates ---")
		fmt.Printf("  %d template entries\n", scene.Templates.Len())
	}
}
