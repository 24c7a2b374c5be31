package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// DisplayLayer is one decoded display layer collection.
type DisplayLayer struct {
	ID     int64
	Name   string
	Color  [3]float64
	Show   bool
	Freeze bool
	LODBox bool
}

type displayLayerLoader struct {
	id        int64
	name      string
	templates *TemplateStore

	props *PropertyMap
}

func (l *displayLayerLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	if name != "Properties70" {
		logger.Warn("unknown node under display layer", "layer", l.name, "name", name)
		return SkipNode(r)
	}
	m, err := LoadNode(r, newPropertiesLoader(70))
	if err != nil {
		return err
	}
	l.props = m
	return nil
}

func (l *displayLayerLoader) Finish() (*DisplayLayer, error) {
	defaults := l.templates.Get("CollectionExclusive", "FbxDisplayLayer")

	missing := func(field string) (*DisplayLayer, error) {
		logger.Error("display layer missing required field", "layer", l.name, "field", field)
		return nil, nil
	}

	color, ok := resolveVec3(l.props, defaults, "Color")
	if !ok {
		return missing("Color")
	}
	show, ok := resolveBool(l.props, defaults, "Show")
	if !ok {
		return missing("Show")
	}
	freeze, ok := resolveBool(l.props, defaults, "Freeze")
	if !ok {
		return missing("Freeze")
	}
	lodBox, ok := resolveBool(l.props, defaults, "LODBox")
	if !ok {
		return missing("LODBox")
	}
	return &DisplayLayer{
		ID:     l.id,
		Name:   l.name,
		Color:  color,
		Show:   show,
		Freeze: freeze,
		LODBox: lodBox,
	}, nil
}
