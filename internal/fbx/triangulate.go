package fbx

import (
	"fmt"
	"math"

	"fbx-scene-decoder/internal/mathutil"
)

// Triangulator turns one polygon into triangles. It receives the mesh's
// control points, the current polygon's control-point indices, and the
// output buffer it must append local (0-based, polygon-relative) corner
// triples to; it returns the grown buffer and the number of triangles
// appended.
type Triangulator func(points [][3]float32, polygon []uint32, dst []uint32) ([]uint32, int)

// DefaultTriangulator passes triangles through and splits quads along the
// diagonal chosen from the corner normals at corners 1 and 3: if they agree
// in direction the quad is cut 0-2, otherwise 1-3, so a concave quad is cut
// through its reflex corner. Polygons of any other size are dropped with a
// diagnostic.
func DefaultTriangulator(points [][3]float32, polygon []uint32, dst []uint32) ([]uint32, int) {
	switch len(polygon) {
	case 3:
		return append(dst, 0, 1, 2), 1
	case 4:
		p := func(i int) mathutil.Vec3 { return mathutil.Vec3(points[polygon[i]]) }
		n1 := p(2).Sub(p(1)).Cross(p(0).Sub(p(1)))
		n3 := p(0).Sub(p(3)).Cross(p(2).Sub(p(3)))
		if n1.Dot(n3) >= 0 {
			return append(dst, 0, 1, 2, 2, 3, 0), 2
		}
		return append(dst, 0, 1, 3, 3, 1, 2), 2
	default:
		logger.Error("unsupported polygon size", "corners", len(polygon))
		return dst, 0
	}
}

// Triangulate computes the triangulated index array along with the
// corner and polygon back-maps used for layer remapping, then rewrites
// every attached layer element to stay consistent with the new triangle
// list. Already-triangulated meshes are left unchanged. The only error is
// a triangulated corner count that does not fit 32 bits.
func (m *Mesh) Triangulate(tri Triangulator) error {
	if m.PolygonVertexIndex.Triangulated() {
		return nil
	}

	raw := m.PolygonVertexIndex.Raw
	var (
		triangles []uint32
		pviMap    []uint32
		polyMap   []uint32
	)
	polygon := make([]uint32, 0, 8)   // control-point indices of the current polygon
	positions := make([]uint32, 0, 8) // source polygon-vertex positions of its corners
	local := make([]uint32, 0, 8)
	polyIndex := uint32(0)

	for pvi, entry := range raw {
		idx := entry
		last := idx < 0
		if last {
			idx = ^idx
		}
		polygon = append(polygon, uint32(idx))
		positions = append(positions, uint32(pvi))
		if !last {
			continue
		}

		local = local[:0]
		var n int
		local, n = tri(m.Vertices, polygon, local)
		for _, c := range local {
			triangles = append(triangles, polygon[c])
			pviMap = append(pviMap, positions[c])
		}
		for t := 0; t < n; t++ {
			polyMap = append(polyMap, polyIndex)
		}
		polygon = polygon[:0]
		positions = positions[:0]
		polyIndex++
	}
	if len(polygon) > 0 {
		// The index array must close its last polygon with a complemented
		// index; leftover corners cannot form a polygon.
		logger.Warn("polygon vertex index did not end with a negative number",
			"mesh", m.Name, "corners", len(polygon))
	}

	if uint64(len(triangles)) > math.MaxUint32 {
		return fmt.Errorf("fbx: mesh %q: triangulated corner count %d exceeds 32-bit range",
			m.Name, len(triangles))
	}
	if triangles == nil {
		// Keeps Triangulated true even when every polygon dropped.
		triangles = []uint32{}
	}

	m.PolygonVertexIndex.Triangles = triangles
	m.PolygonVertexIndex.PVIMap = pviMap
	m.PolygonVertexIndex.PolyMap = polyMap

	for i := range m.Normals {
		remapLayerElement(&m.Normals[i], pviMap, polyMap)
	}
	for i := range m.UVs {
		remapLayerElement(&m.UVs[i], pviMap, polyMap)
	}
	for i := range m.Materials {
		remapLayerElement(&m.Materials[i], pviMap, polyMap)
	}
	return nil
}

// remapLayerElement rewrites one layer element against the triangulation
// back-maps. Per-control-point, per-edge and whole-surface layers need no
// change; per-polygon-vertex and per-polygon layers gather through the
// corner and polygon maps respectively, rebuilding data under Direct
// reference and the index array under IndexToDirect.
func remapLayerElement[T any](e *LayerElement[T], pviMap, polyMap []uint32) {
	var srcMap []uint32
	switch e.Mapping {
	case MappingNone, MappingByControlPoint, MappingByEdge, MappingAllSame:
		return
	case MappingByPolygonVertex:
		srcMap = pviMap
	case MappingByPolygon:
		srcMap = polyMap
	}

	switch e.Reference {
	case ReferenceDirect:
		data := make([]T, 0, len(srcMap))
		for _, src := range srcMap {
			if int(src) >= len(e.Data) {
				logger.Error("layer element data index out of range",
					"mapping", e.Mapping.String(), "index", src, "len", len(e.Data))
				continue
			}
			data = append(data, e.Data[src])
		}
		e.Data = data
	case ReferenceIndexToDirect:
		indices := make([]int32, 0, len(srcMap))
		for _, src := range srcMap {
			if int(src) >= len(e.Indices) {
				logger.Error("layer element index out of range",
					"mapping", e.Mapping.String(), "index", src, "len", len(e.Indices))
				continue
			}
			indices = append(indices, e.Indices[src])
		}
		e.Indices = indices
	}
}
