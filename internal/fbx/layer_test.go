package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbxbin"
)

func TestParseMappingMode(t *testing.T) {
	assert.Equal(t, MappingByControlPoint, ParseMappingMode("ByControlPoint"))
	// Legacy spellings of the same mode.
	assert.Equal(t, MappingByControlPoint, ParseMappingMode("ByVertex"))
	assert.Equal(t, MappingByControlPoint, ParseMappingMode("ByVertice"))
	assert.Equal(t, MappingByPolygonVertex, ParseMappingMode("ByPolygonVertex"))
	assert.Equal(t, MappingByPolygon, ParseMappingMode("ByPolygon"))
	assert.Equal(t, MappingByEdge, ParseMappingMode("ByEdge"))
	assert.Equal(t, MappingAllSame, ParseMappingMode("AllSame"))
	assert.Equal(t, MappingNone, ParseMappingMode("SomethingElse"))
}

func TestParseReferenceMode(t *testing.T) {
	assert.Equal(t, ReferenceDirect, ParseReferenceMode("Direct"))
	assert.Equal(t, ReferenceIndexToDirect, ParseReferenceMode("IndexToDirect"))
	assert.Equal(t, ReferenceIndexToDirect, ParseReferenceMode("Index"))
	assert.Equal(t, ReferenceDirect, ParseReferenceMode("Mystery"))
}

func TestMeshLayerElements(t *testing.T) {
	r := &scriptReader{events: events(
		leaf("GeometryVersion", pI32(124)),
		leaf("Vertices", pVecF64([]float64{0, 0, 0, 1, 0, 0, 1, 1, 0})),
		leaf("PolygonVertexIndex", pVecI32([]int32{0, 1, ^int32(2)})),
		leaf("Edges", pVecI32([]int32{0, 1})),
		[]fbxbin.Event{start("LayerElementNormal", pI32(0))},
		leaf("Version", pI32(101)),
		leaf("Name", pS("")),
		leaf("MappingInformationType", pS("ByPolygonVertex")),
		leaf("ReferenceInformationType", pS("Direct")),
		leaf("Normals", pVecF64([]float64{0, 0, 1, 0, 0, 1, 0, 0, 1})),
		[]fbxbin.Event{end()},
		[]fbxbin.Event{start("LayerElementUV", pI32(0))},
		leaf("Version", pI32(101)),
		leaf("Name", pS("map1")),
		leaf("MappingInformationType", pS("ByPolygonVertex")),
		leaf("ReferenceInformationType", pS("IndexToDirect")),
		leaf("UV", pVecF64([]float64{0, 0, 1, 0, 1, 1})),
		leaf("UVIndex", pVecI32([]int32{0, 1, 2})),
		[]fbxbin.Event{end()},
		[]fbxbin.Event{start("LayerElementMaterial", pI32(0))},
		leaf("Version", pI32(101)),
		leaf("MappingInformationType", pS("AllSame")),
		leaf("ReferenceInformationType", pS("IndexToDirect")),
		leaf("Materials", pVecI32([]int32{0})),
		[]fbxbin.Event{end()},
		[]fbxbin.Event{start("Layer", pI32(0))},
		leaf("Version", pI32(100)),
		[]fbxbin.Event{start("LayerElement")},
		leaf("Type", pS("LayerElementNormal")),
		leaf("TypedIndex", pI32(0)),
		[]fbxbin.Event{end()},
		[]fbxbin.Event{start("LayerElement")},
		leaf("Type", pS("LayerElementUV")),
		leaf("TypedIndex", pI32(0)),
		[]fbxbin.Event{end()},
		[]fbxbin.Event{end()},
		[]fbxbin.Event{end()},
	)}

	mesh, err := LoadNode(r, newMeshLoader(ObjectIdentity{ID: 1, Name: "tri"}))
	require.NoError(t, err)
	require.NotNil(t, mesh)

	require.Len(t, mesh.Normals, 1)
	n := mesh.Normals[0]
	assert.Equal(t, MappingByPolygonVertex, n.Mapping)
	assert.Equal(t, ReferenceDirect, n.Reference)
	assert.Equal(t, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}, n.Data)

	require.Len(t, mesh.UVs, 1)
	uv := mesh.UVs[0]
	assert.Equal(t, "map1", uv.Name)
	assert.Equal(t, ReferenceIndexToDirect, uv.Reference)
	assert.Equal(t, []int32{0, 1, 2}, uv.Indices)
	assert.Equal(t, [][2]float32{{0, 0}, {1, 0}, {1, 1}}, uv.Data)

	require.Len(t, mesh.Materials, 1)
	m := mesh.Materials[0]
	assert.Equal(t, MappingAllSame, m.Mapping)
	assert.Equal(t, []int32{0}, m.Indices)
	assert.Empty(t, m.Data)

	require.Len(t, mesh.Layers, 1)
	layer := mesh.Layers[0]
	assert.Equal(t, []int32{0}, layer.Normals)
	assert.Equal(t, []int32{0}, layer.UVs)
	assert.Empty(t, layer.Materials)
}

func TestMeshDroppedWithoutVertices(t *testing.T) {
	r := &scriptReader{events: events(
		leaf("PolygonVertexIndex", pVecI32([]int32{0, 1, ^int32(2)})),
		[]fbxbin.Event{end()},
	)}
	mesh, err := LoadNode(r, newMeshLoader(ObjectIdentity{ID: 1, Name: "empty"}))
	require.NoError(t, err)
	assert.Nil(t, mesh)
}
