package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// MappingMode tells how many layer-element values exist relative to the
// mesh topology.
type MappingMode uint8

const (
	MappingNone MappingMode = iota
	MappingByControlPoint
	MappingByPolygonVertex
	MappingByPolygon
	MappingByEdge
	MappingAllSame
)

// ParseMappingMode decodes the mapping-information string, accepting the
// ByVertex/ByVertice spellings for per-control-point data. Unknown strings
// map to MappingNone.
func ParseMappingMode(s string) MappingMode {
	switch s {
	case "ByControlPoint", "ByVertex", "ByVertice":
		return MappingByControlPoint
	case "ByPolygonVertex":
		return MappingByPolygonVertex
	case "ByPolygon":
		return MappingByPolygon
	case "ByEdge":
		return MappingByEdge
	case "AllSame":
		return MappingAllSame
	}
	logger.Warn("unknown mapping mode", "value", s)
	return MappingNone
}

func (m MappingMode) String() string {
	switch m {
	case MappingByControlPoint:
		return "ByControlPoint"
	case MappingByPolygonVertex:
		return "ByPolygonVertex"
	case MappingByPolygon:
		return "ByPolygon"
	case MappingByEdge:
		return "ByEdge"
	case MappingAllSame:
		return "AllSame"
	}
	return "None"
}

// ReferenceMode tells whether consumers read values by position or through
// an extra index array.
type ReferenceMode uint8

const (
	ReferenceDirect ReferenceMode = iota
	ReferenceIndexToDirect
)

// ParseReferenceMode decodes the reference-information string, accepting
// the bare "Index" spelling for indexed access. Unknown strings map to
// ReferenceDirect.
func ParseReferenceMode(s string) ReferenceMode {
	switch s {
	case "Direct":
		return ReferenceDirect
	case "IndexToDirect", "Index":
		return ReferenceIndexToDirect
	}
	logger.Warn("unknown reference mode", "value", s)
	return ReferenceDirect
}

func (m ReferenceMode) String() string {
	if m == ReferenceIndexToDirect {
		return "IndexToDirect"
	}
	return "Direct"
}

// LayerElement is one attribute layer of a mesh: T is the per-value payload
// ([3]float32 normals, [2]float32 UVs, struct{} for material slots whose
// payload lives entirely in the index array).
type LayerElement[T any] struct {
	Channel   int32
	Name      string
	Mapping   MappingMode
	Reference ReferenceMode
	Indices   []int32
	Data      []T
}

// layerElementLoader decodes one LayerElement* node generically; the
// concrete element kinds differ only in their data/index child names,
// expected versions and payload decoding.
type layerElementLoader[T any] struct {
	kind     string
	versions []int32
	dataName string
	idxName  string
	decode   func(p fbxbin.Property) ([]T, bool)
	elem     LayerElement[T]
}

func (l *layerElementLoader[T]) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		got, ok := firstI32(props)
		if !ok {
			logger.Warn("version node without integer cell", "node", l.kind)
			break
		}
		known := false
		for _, v := range l.versions {
			if got == v {
				known = true
				break
			}
		}
		if !known {
			logger.Warn("unexpected version", "node", l.kind, "expected", l.versions, "actual", got)
		}
	case "Name":
		if s, ok := firstString(props); ok {
			l.elem.Name = s
		} else {
			logger.Error("cannot get layer element name", "node", l.kind)
		}
	case "MappingInformationType":
		if s, ok := firstString(props); ok {
			l.elem.Mapping = ParseMappingMode(s)
		} else {
			logger.Error("cannot get mapping mode", "node", l.kind)
		}
	case "ReferenceInformationType":
		if s, ok := firstString(props); ok {
			l.elem.Reference = ParseReferenceMode(s)
		} else {
			logger.Error("cannot get reference mode", "node", l.kind)
		}
	case l.dataName:
		p, ok := props.Iter().Next()
		if !ok {
			logger.Error("layer element data without cell", "node", l.kind)
			break
		}
		data, ok := l.decode(p)
		if !ok {
			logger.Error("cannot decode layer element data", "node", l.kind)
			break
		}
		l.elem.Data = data
	case l.idxName:
		if v, ok := firstVecI32(props); ok {
			l.elem.Indices = v
		} else {
			logger.Error("cannot get layer element indices", "node", l.kind)
		}
	default:
		logger.Warn("unknown node under layer element", "element", l.kind, "name", name)
	}
	return SkipNode(r)
}

func (l *layerElementLoader[T]) Finish() (LayerElement[T], error) {
	return l.elem, nil
}

func decodeVec3Data(p fbxbin.Property) ([][3]float32, bool) {
	flat, ok := p.AsVecF32()
	if !ok {
		return nil, false
	}
	return chunk3f(flat)
}

func decodeVec2Data(p fbxbin.Property) ([][2]float32, bool) {
	flat, ok := p.AsVecF32()
	if !ok {
		return nil, false
	}
	return chunk2f(flat)
}

func newNormalElementLoader(channel int32) *layerElementLoader[[3]float32] {
	return &layerElementLoader[[3]float32]{
		kind:     "LayerElementNormal",
		versions: []int32{101, 102},
		dataName: "Normals",
		idxName:  "NormalsIndex",
		decode:   decodeVec3Data,
		elem:     LayerElement[[3]float32]{Channel: channel},
	}
}

func newUVElementLoader(channel int32) *layerElementLoader[[2]float32] {
	return &layerElementLoader[[2]float32]{
		kind:     "LayerElementUV",
		versions: []int32{101},
		dataName: "UV",
		idxName:  "UVIndex",
		decode:   decodeVec2Data,
		elem:     LayerElement[[2]float32]{Channel: channel},
	}
}

// Material layers carry no per-value payload; the Materials array is the
// index array.
func newMaterialElementLoader(channel int32) *layerElementLoader[struct{}] {
	return &layerElementLoader[struct{}]{
		kind:     "LayerElementMaterial",
		versions: []int32{101},
		idxName:  "Materials",
		elem:     LayerElement[struct{}]{Channel: channel},
	}
}

// Layer groups per-type element channels under one layer slot.
type Layer struct {
	Channel   int32
	Normals   []int32
	UVs       []int32
	Materials []int32
}

type layerLoader struct {
	layer Layer
}

func newLayerLoader(channel int32) *layerLoader {
	return &layerLoader{layer: Layer{Channel: channel}}
}

func (l *layerLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Layer/Version", props, 100)
	case "LayerElement":
		slot, err := LoadNode(r, &layerSlotLoader{})
		if err != nil {
			return err
		}
		if !slot.ok {
			return nil
		}
		switch slot.typ {
		case "LayerElementNormal":
			l.layer.Normals = append(l.layer.Normals, slot.index)
		case "LayerElementUV":
			l.layer.UVs = append(l.layer.UVs, slot.index)
		case "LayerElementMaterial":
			l.layer.Materials = append(l.layer.Materials, slot.index)
		default:
			logger.Warn("unknown layer element type in layer", "type", slot.typ)
		}
		return nil
	default:
		logger.Warn("unknown node under layer", "name", name)
	}
	return SkipNode(r)
}

func (l *layerLoader) Finish() (Layer, error) {
	return l.layer, nil
}

type layerSlot struct {
	typ   string
	index int32
	ok    bool
}

// layerSlotLoader decodes one LayerElement reference: the element type name
// plus the channel it points at.
type layerSlotLoader struct {
	typ   *string
	index *int32
}

func (l *layerSlotLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Type":
		if s, ok := firstString(props); ok {
			l.typ = &s
		} else {
			logger.Error("cannot get layer element slot type")
		}
	case "TypedIndex":
		if n, ok := firstI32(props); ok {
			l.index = &n
		} else {
			logger.Error("cannot get layer element slot index")
		}
	default:
		logger.Warn("unknown node under layer element slot", "name", name)
	}
	return SkipNode(r)
}

func (l *layerSlotLoader) Finish() (layerSlot, error) {
	if l.typ == nil || l.index == nil {
		logger.Error("layer element slot missing type or index")
		return layerSlot{}, nil
	}
	return layerSlot{typ: *l.typ, index: *l.index, ok: true}, nil
}
