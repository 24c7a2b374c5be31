package gltfexport

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbx"
)

func f64ptr(v float64) *float64       { return &v }
func vec3ptr(v [3]float64) *[3]float64 { return &v }

func fixtureScene() *fbx.Scene[struct{}] {
	mesh := &fbx.Mesh{
		ID:   100,
		Name: "quad",
		Vertices: [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		PolygonVertexIndex: fbx.PolygonVertexIndex{Raw: []int32{0, 1, 2, ^int32(3)}},
		Normals: []fbx.LayerElement[[3]float32]{{
			Mapping:   fbx.MappingByControlPoint,
			Reference: fbx.ReferenceDirect,
			Data: [][3]float32{
				{0, 0, 2}, {0, 0, 2}, {0, 0, 2}, {0, 0, 2},
			},
		}},
		UVs: []fbx.LayerElement[[2]float32]{{
			Mapping:   fbx.MappingByPolygonVertex,
			Reference: fbx.ReferenceDirect,
			Data:      [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		}},
	}

	return &fbx.Scene[struct{}]{
		Objects: fbx.Objects[struct{}]{
			Meshes: map[int64]*fbx.Mesh{100: mesh},
			Models: map[int64]*fbx.Model{
				10: {
					ID:          10,
					Name:        "root",
					Translation: vec3ptr([3]float64{5, 0, 0}),
					Rotation:    vec3ptr([3]float64{0, 0, 90}),
				},
				11: {ID: 11, Name: "child"},
			},
			Materials: map[int64]*fbx.Material{
				20: {
					ID:   20,
					Name: "paint",
					Shading: fbx.PhongShading{PhongParameters: fbx.PhongParameters{
						LambertParameters: fbx.LambertParameters{
							DiffuseColor:  vec3ptr([3]float64{1, 0.5, 0}),
							DiffuseFactor: f64ptr(0.5),
						},
						Shininess: f64ptr(6),
					}},
				},
			},
		},
		Connections: []fbx.Connection{
			{Child: 100, Parent: 10},
			{Child: 20, Parent: 10},
			{Child: 11, Parent: 10},
			{Child: 10, Parent: 0},
		},
	}
}

func TestExport(t *testing.T) {
	doc, err := Export(fixtureScene())
	require.NoError(t, err)

	require.Len(t, doc.Meshes, 1)
	require.Len(t, doc.Materials, 1)
	require.Len(t, doc.Nodes, 2)

	mat := doc.Materials[0]
	require.NotNil(t, mat.PBRMetallicRoughness)
	require.NotNil(t, mat.PBRMetallicRoughness.BaseColorFactor)
	assert.Equal(t, [4]float64{0.5, 0.25, 0, 1}, *mat.PBRMetallicRoughness.BaseColorFactor)
	require.NotNil(t, mat.PBRMetallicRoughness.RoughnessFactor)
	assert.InDelta(t, 0.5, *mat.PBRMetallicRoughness.RoughnessFactor, 1e-6)

	prim := doc.Meshes[0].Primitives[0]
	require.NotNil(t, prim.Material)
	assert.Equal(t, 0, *prim.Material)
	require.NotNil(t, prim.Indices)
	assert.Contains(t, prim.Attributes, gltf.POSITION)
	assert.Contains(t, prim.Attributes, gltf.NORMAL)
	assert.Contains(t, prim.Attributes, gltf.TEXCOORD_0)

	// Corner soup: six corners for one quad.
	pos := doc.Accessors[prim.Attributes[gltf.POSITION]]
	assert.Equal(t, 6, pos.Count)

	// Node 0 is the "root" model: translated, rotated 90 around Z, mesh
	// attached, child wired, and registered as the scene root.
	root := doc.Nodes[0]
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, [3]float64{5, 0, 0}, root.Translation)
	assert.InDelta(t, 0.70710678, root.Rotation[2], 1e-5)
	assert.InDelta(t, 0.70710678, root.Rotation[3], 1e-5)
	require.NotNil(t, root.Mesh)
	assert.Equal(t, 0, *root.Mesh)
	assert.Equal(t, []int{1}, root.Children)
	assert.Equal(t, []int{0}, doc.Scenes[0].Nodes)

	// The child model carries identity defaults.
	child := doc.Nodes[1]
	assert.Equal(t, [4]float64{0, 0, 0, 1}, child.Rotation)
	assert.Equal(t, [3]float64{1, 1, 1}, child.Scale)
	assert.Nil(t, child.Mesh)
}

func TestSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	doc, err := Export(fixtureScene())
	require.NoError(t, err)

	gltfPath := filepath.Join(dir, "out.gltf")
	require.NoError(t, Save(doc, gltfPath))
	glbPath := filepath.Join(dir, "out.GLB")
	require.NoError(t, Save(doc, glbPath))
}
