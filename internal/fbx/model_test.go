package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbxbin"
)

func modelTemplates() *TemplateStore {
	defaults := NewPropertyMap()
	defaults.insert("AxisLen", &PropertyRecord{Value: f64Value(10)})
	defaults.insert("Show", &PropertyRecord{Value: i64Value(1)})
	defaults.insert("InheritType", &PropertyRecord{Value: i64Value(1)})
	defaults.insert("Lcl Scaling", &PropertyRecord{Value: vecF64Value([]float64{1, 1, 1})})
	store := NewTemplateStore()
	store.insert("Model", "FbxNode", defaults)
	return store
}

func TestModelDecode(t *testing.T) {
	r := &scriptReader{events: events(
		object("Model", 7, "Armature\x00\x01Model", "LimbNode",
			leaf("Version", pI32(232)),
			leaf("Shading", pC(true)),
			leaf("Culling", pS("CullingOff")),
			[]fbxbin.Event{start("Properties70")},
			propNode("Lcl Translation", "Lcl Translation", "", "A", pF64(1), pF64(2), pF64(3)),
			propNode("Lcl Rotation", "Lcl Rotation", "", "A", pF64(0), pF64(90), pF64(0)),
			[]fbxbin.Event{end()},
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(modelTemplates(), rawConv))
	require.NoError(t, err)

	m := objs.Models[7]
	require.NotNil(t, m)
	assert.Equal(t, "Armature", m.Name)
	assert.Equal(t, "LimbNode", m.Subclass)
	assert.True(t, m.Shading)
	assert.Equal(t, CullingOff, m.Culling)
	assert.Equal(t, 10.0, m.AxisLen)
	assert.True(t, m.Show)
	assert.Equal(t, InheritRSrs, m.InheritType)

	require.NotNil(t, m.Translation)
	assert.Equal(t, [3]float64{1, 2, 3}, *m.Translation)
	require.NotNil(t, m.Rotation)
	assert.Equal(t, [3]float64{0, 90, 0}, *m.Rotation)
	// Scaling falls back to the template identity.
	require.NotNil(t, m.Scaling)
	assert.Equal(t, [3]float64{1, 1, 1}, *m.Scaling)
}

func TestModelDroppedWithoutCulling(t *testing.T) {
	r := &scriptReader{events: events(
		object("Model", 8, "Broken\x00\x01Model", "Mesh",
			leaf("Shading", pC(true)),
		),
		[]fbxbin.Event{end()},
	)}
	objs, err := LoadNode(r, newObjectsLoader(modelTemplates(), rawConv))
	require.NoError(t, err)
	assert.Zero(t, objs.Len())
}
