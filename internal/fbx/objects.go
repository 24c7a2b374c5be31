package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// Objects is the decoded object set, one id-keyed map per concrete type
// plus the Unknown fallback. An id appears in at most one map.
type Objects[I any] struct {
	Meshes             map[int64]*Mesh
	Shapes             map[int64]*Shape
	Materials          map[int64]*Material
	Textures           map[int64]*Texture
	Videos             map[int64]*Video[I]
	Models             map[int64]*Model
	Skins              map[int64]*Skin
	Clusters           map[int64]*Cluster
	BlendShapes        map[int64]*BlendShape
	BlendShapeChannels map[int64]*BlendShapeChannel
	Poses              map[int64]*Pose
	LimbNodeAttributes map[int64]*LimbNodeAttribute
	NullNodeAttributes map[int64]*NullNodeAttribute
	DisplayLayers      map[int64]*DisplayLayer
	Unknown            map[int64]*UnknownObject
}

func newObjects[I any]() Objects[I] {
	return Objects[I]{
		Meshes:             make(map[int64]*Mesh),
		Shapes:             make(map[int64]*Shape),
		Materials:          make(map[int64]*Material),
		Textures:           make(map[int64]*Texture),
		Videos:             make(map[int64]*Video[I]),
		Models:             make(map[int64]*Model),
		Skins:              make(map[int64]*Skin),
		Clusters:           make(map[int64]*Cluster),
		BlendShapes:        make(map[int64]*BlendShape),
		BlendShapeChannels: make(map[int64]*BlendShapeChannel),
		Poses:              make(map[int64]*Pose),
		LimbNodeAttributes: make(map[int64]*LimbNodeAttribute),
		NullNodeAttributes: make(map[int64]*NullNodeAttribute),
		DisplayLayers:      make(map[int64]*DisplayLayer),
		Unknown:            make(map[int64]*UnknownObject),
	}
}

// Len returns the total number of decoded objects across every map.
func (o *Objects[I]) Len() int {
	return len(o.Meshes) + len(o.Shapes) + len(o.Materials) + len(o.Textures) +
		len(o.Videos) + len(o.Models) + len(o.Skins) + len(o.Clusters) +
		len(o.BlendShapes) + len(o.BlendShapeChannels) + len(o.Poses) +
		len(o.LimbNodeAttributes) + len(o.NullNodeAttributes) +
		len(o.DisplayLayers) + len(o.Unknown)
}

// objectsLoader dispatches each object node on (node name, subclass) to a
// concrete decoder and stores whatever the decoder emits. Unrecognized
// pairs become Unknown entries; decoders that return nothing leave no
// trace beyond their diagnostics.
type objectsLoader[I any] struct {
	templates *TemplateStore
	conv      Converter[I]
	objects   Objects[I]
}

func newObjectsLoader[I any](templates *TemplateStore, conv Converter[I]) *objectsLoader[I] {
	return &objectsLoader[I]{
		templates: templates,
		conv:      conv,
		objects:   newObjects[I](),
	}
}

// loadInto runs one concrete decoder and stores a non-nil result.
func loadInto[T any, I any](r Reader, l NodeLoader[*T], dst map[int64]*T, key int64) error {
	obj, err := LoadNode(r, l)
	if err != nil {
		return err
	}
	if obj != nil {
		dst[key] = obj
	}
	return nil
}

func (l *objectsLoader[I]) unknown(r Reader, id ObjectIdentity) error {
	l.objects.Unknown[id.ID] = unknownFromIdentity(id)
	return SkipNode(r)
}

func (l *objectsLoader[I]) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	id, ok := extractIdentity(props)
	if !ok {
		logger.Error("skipping object with malformed identity", "node", name)
		return SkipNode(r)
	}

	switch name {
	case "Geometry":
		switch id.Subclass {
		case "Mesh":
			return loadInto[Mesh, I](r, newMeshLoader(id), l.objects.Meshes, id.ID)
		case "Shape":
			return loadInto[Shape, I](r, &shapeLoader{id: id.ID, name: id.Name}, l.objects.Shapes, id.ID)
		}
	case "Material":
		if id.Subclass == "" {
			return loadInto[Material, I](r, newMaterialLoader(id, l.templates), l.objects.Materials, id.ID)
		}
	case "Texture":
		if id.Subclass == "" {
			return loadInto[Texture, I](r, newTextureLoader(id, l.templates), l.objects.Textures, id.ID)
		}
	case "Video":
		if id.Subclass == "Clip" {
			return loadInto[Video[I], I](r, newVideoLoader(id, l.templates, l.conv), l.objects.Videos, id.ID)
		}
	case "Model":
		return loadInto[Model, I](r, newModelLoader(id, l.templates), l.objects.Models, id.ID)
	case "Pose":
		if id.Subclass == "BindPose" {
			return loadInto[Pose, I](r, &poseLoader{id: id.ID, name: id.Name}, l.objects.Poses, id.ID)
		}
	case "Deformer":
		switch {
		case id.Class == "Deformer" && id.Subclass == "Skin":
			return loadInto[Skin, I](r, &skinLoader{id: id.ID, name: id.Name}, l.objects.Skins, id.ID)
		case id.Class == "Deformer" && id.Subclass == "BlendShape":
			return loadInto[BlendShape, I](r, &blendShapeLoader{id: id.ID, name: id.Name}, l.objects.BlendShapes, id.ID)
		case id.Class == "SubDeformer" && id.Subclass == "Cluster":
			return loadInto[Cluster, I](r, &clusterLoader{id: id.ID, name: id.Name}, l.objects.Clusters, id.ID)
		case id.Class == "SubDeformer" && id.Subclass == "BlendShapeChannel":
			return loadInto[BlendShapeChannel, I](r, &blendShapeChannelLoader{id: id.ID, name: id.Name}, l.objects.BlendShapeChannels, id.ID)
		}
	case "NodeAttribute":
		switch id.Subclass {
		case "LimbNode":
			return loadInto[LimbNodeAttribute, I](r,
				&limbNodeAttributeLoader{id: id.ID, name: id.Name, templates: l.templates},
				l.objects.LimbNodeAttributes, id.ID)
		case "Null":
			return loadInto[NullNodeAttribute, I](r,
				&nullNodeAttributeLoader{id: id.ID, name: id.Name, templates: l.templates},
				l.objects.NullNodeAttributes, id.ID)
		}
	case "CollectionExclusive":
		if id.Subclass == "DisplayLayer" {
			return loadInto[DisplayLayer, I](r,
				&displayLayerLoader{id: id.ID, name: id.Name, templates: l.templates},
				l.objects.DisplayLayers, id.ID)
		}
	}

	logger.Warn("unrecognized object kind",
		"node", name, "class", id.Class, "subclass", id.Subclass, "id", id.ID)
	return l.unknown(r, id)
}

func (l *objectsLoader[I]) Finish() (Objects[I], error) {
	return l.objects, nil
}
