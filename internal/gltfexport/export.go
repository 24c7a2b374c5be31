// Package gltfexport converts a decoded scene into a glTF 2.0 document.
package gltfexport

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"fbx-scene-decoder/internal/fbx"
	"fbx-scene-decoder/internal/mathutil"
)

// Export builds a glTF document from scene: one mesh primitive per
// geometry, one node per model with its local transform, materials mapped
// from the shading parameters. Meshes are triangulated first when they are
// not already.
func Export[I any](scene *fbx.Scene[I]) (*gltf.Document, error) {
	if err := scene.Triangulate(nil); err != nil {
		return nil, err
	}

	doc := gltf.NewDocument()
	b := builder[I]{scene: scene, doc: doc}
	b.indexConnections()
	b.addMaterials()
	if err := b.addMeshes(); err != nil {
		return nil, err
	}
	b.addNodes()
	return doc, nil
}

// Save writes doc to path, as binary glTF when the extension is .glb.
func Save(doc *gltf.Document, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

type builder[I any] struct {
	scene *fbx.Scene[I]
	doc   *gltf.Document

	parentOf   map[int64]int64 // child object -> parent object (OO edges)
	childrenOf map[int64][]int64

	materialIndex map[int64]int // material object id -> doc.Materials index
	meshIndex     map[int64]int // geometry object id -> doc.Meshes index
}

func (b *builder[I]) indexConnections() {
	b.parentOf = make(map[int64]int64)
	b.childrenOf = make(map[int64][]int64)
	for _, c := range b.scene.Connections {
		if c.ChildIsProperty || c.ParentIsProperty {
			continue
		}
		b.parentOf[c.Child] = c.Parent
		b.childrenOf[c.Parent] = append(b.childrenOf[c.Parent], c.Child)
	}
}

func sortedIDs[T any](m map[int64]*T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (b *builder[I]) addMaterials() {
	b.materialIndex = make(map[int64]int)
	for _, id := range sortedIDs(b.scene.Objects.Materials) {
		mat := b.scene.Objects.Materials[id]
		out := &gltf.Material{
			Name: mat.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				MetallicFactor: gltf.Float(0),
			},
		}
		switch s := mat.Shading.(type) {
		case fbx.LambertShading:
			applyDiffuse(out, s.DiffuseColor, s.DiffuseFactor)
		case fbx.PhongShading:
			applyDiffuse(out, s.DiffuseColor, s.DiffuseFactor)
			if s.Shininess != nil {
				// Blinn-Phong exponent to roughness.
				r := math32.Sqrt(2 / (float32(*s.Shininess) + 2))
				out.PBRMetallicRoughness.RoughnessFactor = gltf.Float(float64(r))
			}
		}
		b.materialIndex[id] = len(b.doc.Materials)
		b.doc.Materials = append(b.doc.Materials, out)
	}
}

func applyDiffuse(out *gltf.Material, color *[3]float64, factor *float64) {
	if color == nil {
		return
	}
	f := 1.0
	if factor != nil {
		f = *factor
	}
	out.PBRMetallicRoughness.BaseColorFactor = &[4]float64{
		color[0] * f,
		color[1] * f,
		color[2] * f,
		1,
	}
}

// meshMaterial picks the material connected to the model that owns a mesh;
// meshes without a material connection stay unassigned.
func (b *builder[I]) meshMaterial(meshID int64) *int {
	modelID, ok := b.parentOf[meshID]
	if !ok {
		return nil
	}
	for _, child := range b.childrenOf[modelID] {
		if idx, ok := b.materialIndex[child]; ok {
			return gltf.Index(idx)
		}
	}
	return nil
}

func (b *builder[I]) addMeshes() error {
	b.meshIndex = make(map[int64]int)
	for _, id := range sortedIDs(b.scene.Objects.Meshes) {
		mesh := b.scene.Objects.Meshes[id]
		prim, err := b.buildPrimitive(mesh)
		if err != nil {
			return err
		}
		prim.Material = b.meshMaterial(id)
		b.meshIndex[id] = len(b.doc.Meshes)
		b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{
			Name:       mesh.Name,
			Primitives: []*gltf.Primitive{prim},
		})
	}
	return nil
}

// buildPrimitive expands a triangulated mesh into per-corner vertex soup:
// layer data mapped per polygon vertex cannot be expressed against shared
// control points, so every triangle corner becomes its own glTF vertex.
func (b *builder[I]) buildPrimitive(mesh *fbx.Mesh) (*gltf.Primitive, error) {
	tris := mesh.PolygonVertexIndex.Triangles
	positions := make([][3]float32, len(tris))
	for i, cp := range tris {
		if int(cp) >= len(mesh.Vertices) {
			return nil, fmt.Errorf("gltfexport: mesh %q: control point %d out of range", mesh.Name, cp)
		}
		positions[i] = mesh.Vertices[cp]
	}
	indices := make([]uint32, len(tris))
	for i := range indices {
		indices[i] = uint32(i)
	}

	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(b.doc, positions),
	}
	if len(mesh.Normals) > 0 {
		if normals, ok := cornerVec3(&mesh.Normals[0], tris); ok {
			for i := range normals {
				normals[i] = [3]float32(mathutil.Vec3(normals[i]).Normalize())
			}
			attrs[gltf.NORMAL] = modeler.WriteNormal(b.doc, normals)
		}
	}
	if len(mesh.UVs) > 0 {
		if uvs, ok := cornerVec2(&mesh.UVs[0], tris); ok {
			for i := range uvs {
				uvs[i][1] = 1 - uvs[i][1]
			}
			attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(b.doc, uvs)
		}
	}

	return &gltf.Primitive{
		Indices:    gltf.Index(modeler.WriteIndices(b.doc, indices)),
		Attributes: attrs,
	}, nil
}

// cornerValue resolves one layer-element value for corner i of a
// triangulated mesh.
func cornerValue[T any](e *fbx.LayerElement[T], corner int, controlPoint uint32) (T, bool) {
	var zero T
	idx := 0
	switch e.Mapping {
	case fbx.MappingByControlPoint:
		idx = int(controlPoint)
	case fbx.MappingByPolygonVertex:
		idx = corner
	case fbx.MappingByPolygon:
		idx = corner / 3
	case fbx.MappingAllSame:
		idx = 0
	default:
		return zero, false
	}
	if e.Reference == fbx.ReferenceIndexToDirect {
		if idx >= len(e.Indices) {
			return zero, false
		}
		idx = int(e.Indices[idx])
	}
	if idx < 0 || idx >= len(e.Data) {
		return zero, false
	}
	return e.Data[idx], true
}

func cornerVec3(e *fbx.LayerElement[[3]float32], tris []uint32) ([][3]float32, bool) {
	out := make([][3]float32, len(tris))
	for i, cp := range tris {
		v, ok := cornerValue(e, i, cp)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func cornerVec2(e *fbx.LayerElement[[2]float32], tris []uint32) ([][2]float32, bool) {
	out := make([][2]float32, len(tris))
	for i, cp := range tris {
		v, ok := cornerValue(e, i, cp)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (b *builder[I]) addNodes() {
	models := b.scene.Objects.Models
	nodeIndex := make(map[int64]int, len(models))
	for _, id := range sortedIDs(models) {
		model := models[id]
		node := &gltf.Node{
			Name:     model.Name,
			Rotation: [4]float64{0, 0, 0, 1},
			Scale:    [3]float64{1, 1, 1},
		}
		if model.Translation != nil {
			node.Translation = *model.Translation
		}
		if model.Rotation != nil {
			q := mathutil.EulerToQuat(
				mathutil.Deg2Rad(float32(model.Rotation[0])),
				mathutil.Deg2Rad(float32(model.Rotation[1])),
				mathutil.Deg2Rad(float32(model.Rotation[2])),
			)
			node.Rotation = [4]float64{float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])}
		}
		if model.Scaling != nil {
			node.Scale = *model.Scaling
		}
		for _, child := range b.childrenOf[id] {
			if mi, ok := b.meshIndex[child]; ok {
				node.Mesh = gltf.Index(mi)
				break
			}
		}
		nodeIndex[id] = len(b.doc.Nodes)
		b.doc.Nodes = append(b.doc.Nodes, node)
	}

	// Wire the model hierarchy; models whose parent is not a model are
	// scene roots.
	for _, id := range sortedIDs(models) {
		idx := nodeIndex[id]
		if parent, ok := b.parentOf[id]; ok {
			if pidx, ok := nodeIndex[parent]; ok {
				b.doc.Nodes[pidx].Children = append(b.doc.Nodes[pidx].Children, idx)
				continue
			}
		}
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, idx)
	}
}
