package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbxbin"
)

func attributeTemplates() *TemplateStore {
	store := NewTemplateStore()

	skeleton := NewPropertyMap()
	skeleton.insert("Size", &PropertyRecord{Value: f64Value(100)})
	store.insert("NodeAttribute", "FbxSkeleton", skeleton)

	null := NewPropertyMap()
	null.insert("Color", &PropertyRecord{Value: vecF64Value([]float64{0.8, 0.8, 0.8})})
	null.insert("Size", &PropertyRecord{Value: f64Value(100)})
	null.insert("Look", &PropertyRecord{Value: i64Value(1)})
	store.insert("NodeAttribute", "FbxNull", null)

	return store
}

func TestNodeAttributeDecode(t *testing.T) {
	r := &scriptReader{events: events(
		object("NodeAttribute", 1, "Spine\x00\x01NodeAttribute", "LimbNode",
			leaf("TypeFlags", pS("Skeleton")),
			[]fbxbin.Event{start("Properties70")},
			propNode("Size", "double", "", "", pF64(33)),
			[]fbxbin.Event{end()},
		),
		object("NodeAttribute", 2, "Locator\x00\x01NodeAttribute", "Null",
			leaf("TypeFlags", pS("Null")),
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(attributeTemplates(), rawConv))
	require.NoError(t, err)

	limb := objs.LimbNodeAttributes[1]
	require.NotNil(t, limb)
	assert.Equal(t, "Skeleton", limb.TypeFlags)
	assert.Equal(t, 33.0, limb.Size)

	// The null attribute filled every field from its template.
	null := objs.NullNodeAttributes[2]
	require.NotNil(t, null)
	assert.Equal(t, [3]float64{0.8, 0.8, 0.8}, null.Color)
	assert.Equal(t, 100.0, null.Size)
	assert.Equal(t, NullLookCross, null.Look)
}

func TestNodeAttributeDroppedWithoutTemplate(t *testing.T) {
	r := &scriptReader{events: events(
		object("NodeAttribute", 2, "Locator\x00\x01NodeAttribute", "Null",
			leaf("TypeFlags", pS("Null")),
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(NewTemplateStore(), rawConv))
	require.NoError(t, err)
	assert.Zero(t, objs.Len())
}

func TestPoseDecode(t *testing.T) {
	r := &scriptReader{events: events(
		object("Pose", 9, "BindPose\x00\x01Pose", "BindPose",
			leaf("Type", pS("BindPose")),
			leaf("Version", pI32(100)),
			leaf("NbPoseNodes", pI32(2)),
			[]fbxbin.Event{start("PoseNode")},
			leaf("Node", pI64(10)),
			leaf("Matrix", pVecF64(identityMatrixCells())),
			[]fbxbin.Event{end()},
			// A pose node without a matrix drops, but the pose survives
			// with whatever decoded.
			[]fbxbin.Event{start("PoseNode")},
			leaf("Node", pI64(11)),
			[]fbxbin.Event{end()},
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(NewTemplateStore(), rawConv))
	require.NoError(t, err)

	pose := objs.Poses[9]
	require.NotNil(t, pose)
	require.Len(t, pose.Nodes, 1)
	assert.Equal(t, int64(10), pose.Nodes[0].Node)
	assert.True(t, pose.Nodes[0].Matrix.IsIdentity())
}

func TestShapeDecode(t *testing.T) {
	r := &scriptReader{events: events(
		object("Geometry", 12, "Smile\x00\x01Geometry", "Shape",
			leaf("Version", pI32(100)),
			leaf("Indexes", pVecI32([]int32{4, 7})),
			leaf("Vertices", pVecF64([]float64{0, 0.1, 0, 0, 0.2, 0})),
			leaf("Normals", pVecF64([]float64{0, 1, 0, 0, 1, 0})),
		),
		object("Geometry", 13, "Bare\x00\x01Geometry", "Shape",
			leaf("Vertices", pVecF64([]float64{0, 0, 0})),
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(NewTemplateStore(), rawConv))
	require.NoError(t, err)

	shape := objs.Shapes[12]
	require.NotNil(t, shape)
	assert.Equal(t, []int32{4, 7}, shape.Indexes)
	assert.Equal(t, [][3]float32{{0, 0.1, 0}, {0, 0.2, 0}}, shape.Vertices)
	assert.Len(t, shape.Normals, 2)

	// Indexes are required; normals are not.
	assert.Nil(t, objs.Shapes[13])
	assert.Equal(t, 1, objs.Len())
}

func TestDisplayLayerDecode(t *testing.T) {
	defaults := NewPropertyMap()
	defaults.insert("Color", &PropertyRecord{Value: vecF64Value([]float64{0.5, 0.5, 0.5})})
	defaults.insert("Show", &PropertyRecord{Value: i64Value(1)})
	defaults.insert("Freeze", &PropertyRecord{Value: i64Value(0)})
	defaults.insert("LODBox", &PropertyRecord{Value: i64Value(0)})
	store := NewTemplateStore()
	store.insert("CollectionExclusive", "FbxDisplayLayer", defaults)

	r := &scriptReader{events: events(
		object("CollectionExclusive", 30, "Background\x00\x01DisplayLayer", "DisplayLayer",
			[]fbxbin.Event{start("Properties70")},
			propNode("Freeze", "bool", "", "", pI32(1)),
			[]fbxbin.Event{end()},
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(store, rawConv))
	require.NoError(t, err)

	layer := objs.DisplayLayers[30]
	require.NotNil(t, layer)
	assert.Equal(t, [3]float64{0.5, 0.5, 0.5}, layer.Color)
	assert.True(t, layer.Show)
	assert.True(t, layer.Freeze)
	assert.False(t, layer.LODBox)
}
