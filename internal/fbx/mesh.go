package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// PolygonVertexIndex is a mesh's polygon index array. Raw is the source
// form, where the last corner of each polygon is stored as its one's
// complement. Triangulation fills the remaining fields; see
// Mesh.Triangulate.
type PolygonVertexIndex struct {
	Raw []int32

	// Triangles is the triangulated index array, three control-point
	// indices per triangle.
	Triangles []uint32
	// PVIMap maps each triangulated corner back to the source
	// polygon-vertex position it was copied from.
	PVIMap []uint32
	// PolyMap maps each triangle back to the source polygon it came from.
	PolyMap []uint32
}

// Triangulated reports whether the triangulated form has been computed.
func (p *PolygonVertexIndex) Triangulated() bool {
	return p.Triangles != nil
}

// Mesh is one decoded geometry object.
type Mesh struct {
	ID                 int64
	Name               string
	Vertices           [][3]float32
	PolygonVertexIndex PolygonVertexIndex

	Normals   []LayerElement[[3]float32]
	UVs       []LayerElement[[2]float32]
	Materials []LayerElement[struct{}]
	Layers    []Layer
}

// meshLoader decodes a Geometry node of subclass Mesh.
type meshLoader struct {
	id   int64
	name string

	vertices [][3]float32
	indices  []int32

	normals   []LayerElement[[3]float32]
	uvs       []LayerElement[[2]float32]
	materials []LayerElement[struct{}]
	layers    []Layer
}

func newMeshLoader(id ObjectIdentity) *meshLoader {
	return &meshLoader{id: id.ID, name: id.Name}
}

func elementChannel(props *fbxbin.PropertyList, kind string) int32 {
	ch, ok := firstI32(props)
	if !ok {
		logger.Warn("layer element without channel", "element", kind)
		return 0
	}
	return ch
}

func (l *meshLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "GeometryVersion":
		checkVersion("GeometryVersion", props, 124)
	case "Vertices":
		flat, ok := firstVecF32(props)
		if !ok {
			logger.Error("cannot get mesh vertices", "mesh", l.name)
			break
		}
		verts, ok := chunk3f(flat)
		if !ok {
			logger.Error("mesh vertex array length not a multiple of three",
				"mesh", l.name, "len", len(flat))
			break
		}
		l.vertices = verts
	case "PolygonVertexIndex":
		idx, ok := firstVecI32(props)
		if !ok {
			logger.Error("cannot get polygon vertex index", "mesh", l.name)
			break
		}
		l.indices = idx
	case "Edges":
		// Edge list is not consumed.
	case "LayerElementNormal":
		elem, err := LoadNode(r, newNormalElementLoader(elementChannel(props, name)))
		if err != nil {
			return err
		}
		l.normals = append(l.normals, elem)
		return nil
	case "LayerElementUV":
		elem, err := LoadNode(r, newUVElementLoader(elementChannel(props, name)))
		if err != nil {
			return err
		}
		l.uvs = append(l.uvs, elem)
		return nil
	case "LayerElementMaterial":
		elem, err := LoadNode(r, newMaterialElementLoader(elementChannel(props, name)))
		if err != nil {
			return err
		}
		l.materials = append(l.materials, elem)
		return nil
	case "Layer":
		layer, err := LoadNode(r, newLayerLoader(elementChannel(props, name)))
		if err != nil {
			return err
		}
		l.layers = append(l.layers, layer)
		return nil
	default:
		logger.Warn("unknown node under mesh geometry", "mesh", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *meshLoader) Finish() (*Mesh, error) {
	if l.vertices == nil {
		logger.Error("mesh without vertices", "mesh", l.name)
		return nil, nil
	}
	if l.indices == nil {
		logger.Error("mesh without polygon vertex index", "mesh", l.name)
		return nil, nil
	}
	return &Mesh{
		ID:                 l.id,
		Name:               l.name,
		Vertices:           l.vertices,
		PolygonVertexIndex: PolygonVertexIndex{Raw: l.indices},
		Normals:            l.normals,
		UVs:                l.uvs,
		Materials:          l.materials,
		Layers:             l.layers,
	}, nil
}
