package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

func nextString(it *fbxbin.PropIter) (string, bool) {
	p, ok := it.Next()
	if !ok {
		return "", false
	}
	return p.GetString()
}

func nextI32(it *fbxbin.PropIter) (int32, bool) {
	p, ok := it.Next()
	if !ok {
		return 0, false
	}
	return p.GetI32()
}

func nextI64(it *fbxbin.PropIter) (int64, bool) {
	p, ok := it.Next()
	if !ok {
		return 0, false
	}
	return p.AsI64()
}

func nextF32(it *fbxbin.PropIter) (float32, bool) {
	p, ok := it.Next()
	if !ok {
		return 0, false
	}
	return p.AsF32()
}

// firstString returns the leading cell of a node's property list as text.
func firstString(props *fbxbin.PropertyList) (string, bool) {
	return nextString(props.Iter())
}

func firstI32(props *fbxbin.PropertyList) (int32, bool) {
	return nextI32(props.Iter())
}

func firstI64(props *fbxbin.PropertyList) (int64, bool) {
	return nextI64(props.Iter())
}

func firstBool(props *fbxbin.PropertyList) (bool, bool) {
	p, ok := props.Iter().Next()
	if !ok {
		return false, false
	}
	return p.GetBool()
}

func firstVecF32(props *fbxbin.PropertyList) ([]float32, bool) {
	p, ok := props.Iter().Next()
	if !ok {
		return nil, false
	}
	return p.AsVecF32()
}

func firstVecI32(props *fbxbin.PropertyList) ([]int32, bool) {
	p, ok := props.Iter().Next()
	if !ok {
		return nil, false
	}
	return p.GetVecI32()
}

func firstVecI64(props *fbxbin.PropertyList) ([]int64, bool) {
	p, ok := props.Iter().Next()
	if !ok {
		return nil, false
	}
	return p.AsVecI64()
}

func firstVecF64(props *fbxbin.PropertyList) ([]float64, bool) {
	p, ok := props.Iter().Next()
	if !ok {
		return nil, false
	}
	return p.AsVecF64()
}

// checkVersion compares a Version child's leading cell against the value a
// decoder expects. Mismatches are logged, never fatal.
func checkVersion(node string, props *fbxbin.PropertyList, want int32) {
	got, ok := firstI32(props)
	if !ok {
		logger.Warn("version node without integer cell", "node", node)
		return
	}
	if got != want {
		logger.Warn("unexpected version", "node", node, "expected", want, "actual", got)
	}
}

// chunk3f regroups a flat float array into xyz triples. Fails when the
// length is not a multiple of three.
func chunk3f(flat []float32) ([][3]float32, bool) {
	if len(flat)%3 != 0 {
		return nil, false
	}
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out, true
}

// chunk2f regroups a flat float array into uv pairs.
func chunk2f(flat []float32) ([][2]float32, bool) {
	if len(flat)%2 != 0 {
		return nil, false
	}
	out := make([][2]float32, len(flat)/2)
	for i := range out {
		out[i] = [2]float32{flat[i*2], flat[i*2+1]}
	}
	return out, true
}

// resolveF64 looks name up through the instance map and template defaults
// and coerces the record to a scalar float.
func resolveF64(props, defaults *PropertyMap, name string) (float64, bool) {
	rec := props.GetOrDefault(defaults, name)
	if rec == nil {
		return 0, false
	}
	return rec.Value.GetF64()
}

func resolveI64(props, defaults *PropertyMap, name string) (int64, bool) {
	rec := props.GetOrDefault(defaults, name)
	if rec == nil {
		return 0, false
	}
	return rec.Value.GetI64()
}

func resolveBool(props, defaults *PropertyMap, name string) (bool, bool) {
	n, ok := resolveI64(props, defaults, name)
	if !ok {
		return false, false
	}
	return n != 0, true
}

func resolveString(props, defaults *PropertyMap, name string) (string, bool) {
	rec := props.GetOrDefault(defaults, name)
	if rec == nil {
		return "", false
	}
	return rec.Value.GetString()
}

// resolveVec3 coerces a three-element float vector record (color or local
// transform channel) into a triple.
func resolveVec3(props, defaults *PropertyMap, name string) ([3]float64, bool) {
	rec := props.GetOrDefault(defaults, name)
	if rec == nil {
		return [3]float64{}, false
	}
	v, ok := rec.Value.GetVecF64()
	if !ok || len(v) != 3 {
		return [3]float64{}, false
	}
	return [3]float64{v[0], v[1], v[2]}, true
}
