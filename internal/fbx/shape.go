package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// Shape is one decoded morph-target geometry: offsets for the control
// points its index array names.
type Shape struct {
	ID       int64
	Name     string
	Indexes  []int32
	Vertices [][3]float32
	Normals  [][3]float32
}

type shapeLoader struct {
	id   int64
	name string

	indexes  []int32
	vertices [][3]float32
	normals  [][3]float32
}

func (l *shapeLoader) loadVec3s(props *fbxbin.PropertyList, field string) [][3]float32 {
	flat, ok := firstVecF32(props)
	if !ok {
		logger.Error("cannot get shape data", "shape", l.name, "field", field)
		return nil
	}
	v, ok := chunk3f(flat)
	if !ok {
		logger.Error("shape array length not a multiple of three",
			"shape", l.name, "field", field, "len", len(flat))
		return nil
	}
	return v
}

func (l *shapeLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Shape/Version", props, 100)
	case "Indexes":
		if v, ok := firstVecI32(props); ok {
			l.indexes = v
		} else {
			logger.Error("cannot get shape indexes", "shape", l.name)
		}
	case "Vertices":
		l.vertices = l.loadVec3s(props, "Vertices")
	case "Normals":
		l.normals = l.loadVec3s(props, "Normals")
	default:
		logger.Warn("unknown node under shape geometry", "shape", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *shapeLoader) Finish() (*Shape, error) {
	if l.indexes == nil {
		logger.Error("shape without indexes", "shape", l.name)
		return nil, nil
	}
	if l.vertices == nil {
		logger.Error("shape without vertices", "shape", l.name)
		return nil, nil
	}
	return &Shape{
		ID:       l.id,
		Name:     l.name,
		Indexes:  l.indexes,
		Vertices: l.vertices,
		Normals:  l.normals,
	}, nil
}
