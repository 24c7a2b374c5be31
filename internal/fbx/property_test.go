package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbxbin"
)

func TestParsePropertyFlags(t *testing.T) {
	f := ParsePropertyFlags("A+UH")
	assert.True(t, f.Animatable())
	assert.True(t, f.Animated())
	assert.True(t, f.UserDefined())
	assert.True(t, f.Hidden())
	assert.False(t, f.Locked())
	assert.Equal(t, "A+UH", f.String())

	f = ParsePropertyFlags("AL4")
	assert.True(t, f.Animatable())
	assert.False(t, f.Animated())
	assert.True(t, f.Locked())
	assert.Equal(t, 4, f.LockedMembers())
	assert.Equal(t, "AL4", f.String())

	// Unknown characters are skipped, not fatal.
	assert.Equal(t, ParsePropertyFlags("U"), ParsePropertyFlags("zUq"))
	assert.Equal(t, PropertyFlags(0), ParsePropertyFlags(""))
}

func propNode(name, typeName, label, flags string, values ...fbxbin.Property) []fbxbin.Event {
	props := append([]fbxbin.Property{pS(name), pS(typeName), pS(label), pS(flags)}, values...)
	return leaf("P", props...)
}

func TestPropertiesLoader(t *testing.T) {
	r := &scriptReader{events: events(
		propNode("DiffuseColor", "Color", "", "A", pF64(0.5), pF64(0.25), pF64(1)),
		propNode("Intensity", "Number", "", "", pF64(2.5)),
		propNode("Comment", "KString", "", "U", pS("hello")),
		propNode("Visibility", "bool", "", "", pI32(1)),
		propNode("Empty", "Compound", "", ""),
		[]fbxbin.Event{end()},
	)}
	props, err := LoadNode(r, newPropertiesLoader(70))
	require.NoError(t, err)
	require.Equal(t, 5, props.Len())
	assert.Equal(t, []string{"Comment", "DiffuseColor", "Empty", "Intensity", "Visibility"}, props.Names())

	rec := props.Get("DiffuseColor")
	require.NotNil(t, rec)
	assert.Equal(t, "Color", rec.TypeName)
	assert.True(t, rec.Flags.Animatable())
	v, ok := rec.Value.GetVecF64()
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 0.25, 1}, v)

	f, ok := props.Get("Intensity").Value.GetF64()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	s, ok := props.Get("Comment").Value.GetString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	n, ok := props.Get("Visibility").Value.GetI64()
	require.True(t, ok)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, KindEmpty, props.Get("Empty").Value.Kind())
}

func TestPropertiesLoaderBlob(t *testing.T) {
	r := &scriptReader{events: events(
		[]fbxbin.Event{start("P", pS("Payload"), pS("Blob"), pS("Blob"), pS(""), pI32(6))},
		leaf("BinaryData", pR([]byte("abc"))),
		leaf("BinaryData", pR([]byte("def"))),
		[]fbxbin.Event{end(), end()},
	)}
	props, err := LoadNode(r, newPropertiesLoader(70))
	require.NoError(t, err)

	rec := props.Get("Payload")
	require.NotNil(t, rec)
	b, ok := rec.Value.GetBlob()
	require.True(t, ok)
	assert.Equal(t, []byte("abcdef"), b)
}

func TestPropertiesLoaderBlobNegativeLength(t *testing.T) {
	r := &scriptReader{events: events(
		[]fbxbin.Event{start("P", pS("Payload"), pS("Blob"), pS("Blob"), pS(""), pI32(-5))},
		leaf("BinaryData", pR([]byte("abc"))),
		[]fbxbin.Event{end()},
		propNode("Fine", "int", "", "", pI64(1)),
		[]fbxbin.Event{end()},
	)}
	var props *PropertyMap
	require.NotPanics(t, func() {
		var err error
		props, err = LoadNode(r, newPropertiesLoader(70))
		require.NoError(t, err)
	})
	assert.Nil(t, props.Get("Payload"))
	assert.NotNil(t, props.Get("Fine"))
}

func TestPropertiesLoaderDropsBadRecord(t *testing.T) {
	r := &scriptReader{events: events(
		// Boolean cell as record value has no shape; the record drops but
		// decoding continues.
		propNode("Broken", "odd", "", "", pC(true)),
		propNode("Fine", "int", "", "", pI64(9)),
		[]fbxbin.Event{end()},
	)}
	props, err := LoadNode(r, newPropertiesLoader(70))
	require.NoError(t, err)
	assert.Equal(t, 1, props.Len())
	assert.Nil(t, props.Get("Broken"))
	assert.NotNil(t, props.Get("Fine"))
}

func TestGetOrDefault(t *testing.T) {
	instance := NewPropertyMap()
	instance.insert("Size", &PropertyRecord{TypeName: "double", Value: f64Value(7)})
	defaults := NewPropertyMap()
	defaults.insert("Size", &PropertyRecord{TypeName: "double", Value: f64Value(1)})
	defaults.insert("Color", &PropertyRecord{TypeName: "Color", Value: vecF64Value([]float64{1, 0, 0})})

	f, ok := resolveF64(instance, defaults, "Size")
	require.True(t, ok)
	assert.Equal(t, 7.0, f) // instance wins over the template

	c, ok := resolveVec3(instance, defaults, "Color")
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 0, 0}, c)

	_, ok = resolveF64(instance, defaults, "Missing")
	assert.False(t, ok)

	// Both sides tolerate nil maps.
	var none *PropertyMap
	f, ok = resolveF64(none, defaults, "Size")
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
	_, ok = resolveF64(none, nil, "Size")
	assert.False(t, ok)
}
