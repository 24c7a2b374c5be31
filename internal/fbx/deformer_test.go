package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbxbin"
	"fbx-scene-decoder/internal/mathutil"
)

func identityMatrixCells() []float64 {
	out := make([]float64, 16)
	for i := 0; i < 4; i++ {
		out[i*4+i] = 1
	}
	return out
}

func TestSkinAndClusterDecode(t *testing.T) {
	r := &scriptReader{events: events(
		object("Deformer", 1, "Skin\x00\x01Deformer", "Skin",
			leaf("Version", pI32(101)),
			leaf("Link_DeformAcuracy", pF64(50)),
			leaf("SkinningType", pS("Linear")),
		),
		object("Deformer", 2, "Bone\x00\x01SubDeformer", "Cluster",
			leaf("Version", pI32(100)),
			leaf("UserData", pS(""), pS("")),
			leaf("Indexes", pVecI32([]int32{0, 2, 5})),
			leaf("Weights", pVecF64([]float64{1, 0.5, 0.25})),
			leaf("Transform", pVecF64(identityMatrixCells())),
			leaf("TransformLink", pVecF64(identityMatrixCells())),
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(NewTemplateStore(), rawConv))
	require.NoError(t, err)

	skin := objs.Skins[1]
	require.NotNil(t, skin)
	assert.Equal(t, 50.0, skin.DeformAccuracy)
	assert.Equal(t, SkinningLinear, skin.SkinningType)

	cluster := objs.Clusters[2]
	require.NotNil(t, cluster)
	assert.Equal(t, []int32{0, 2, 5}, cluster.Indexes)
	assert.Equal(t, []float64{1, 0.5, 0.25}, cluster.Weights)
	assert.Equal(t, mathutil.Mat4Identity(), cluster.Transform)
	assert.True(t, cluster.TransformLink.IsIdentity())
}

func TestClusterDroppedOnLengthMismatch(t *testing.T) {
	r := &scriptReader{events: events(
		object("Deformer", 2, "Bone\x00\x01SubDeformer", "Cluster",
			leaf("UserData", pS(""), pS("")),
			leaf("Indexes", pVecI32([]int32{0, 1})),
			leaf("Weights", pVecF64([]float64{1})),
			leaf("Transform", pVecF64(identityMatrixCells())),
			leaf("TransformLink", pVecF64(identityMatrixCells())),
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(NewTemplateStore(), rawConv))
	require.NoError(t, err)
	assert.Zero(t, objs.Len())
}

func TestBlendShapeChannelDecode(t *testing.T) {
	r := &scriptReader{events: events(
		object("Deformer", 3, "Morphs\x00\x01Deformer", "BlendShape",
			leaf("Version", pI32(100)),
		),
		object("Deformer", 4, "Smile\x00\x01SubDeformer", "BlendShapeChannel",
			leaf("Version", pI32(100)),
			leaf("DeformPercent", pF64(30)),
			leaf("FullWeights", pVecF64([]float64{100})),
		),
		// DeformPercent is optional and defaults to zero; FullWeights is not.
		object("Deformer", 5, "Frown\x00\x01SubDeformer", "BlendShapeChannel",
			leaf("FullWeights", pVecF64([]float64{50, 100})),
		),
		object("Deformer", 6, "Empty\x00\x01SubDeformer", "BlendShapeChannel"),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(NewTemplateStore(), rawConv))
	require.NoError(t, err)

	require.NotNil(t, objs.BlendShapes[3])
	ch := objs.BlendShapeChannels[4]
	require.NotNil(t, ch)
	assert.Equal(t, 30.0, ch.DeformPercent)
	assert.Equal(t, []float64{100}, ch.FullWeights)

	ch = objs.BlendShapeChannels[5]
	require.NotNil(t, ch)
	assert.Zero(t, ch.DeformPercent)

	assert.Nil(t, objs.BlendShapeChannels[6])
	assert.Equal(t, 3, objs.Len())
}
