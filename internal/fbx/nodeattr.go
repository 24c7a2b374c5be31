package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// NullLook is the viewport marker drawn for a null node.
type NullLook uint8

const (
	NullLookNone NullLook = iota
	NullLookCross
)

func nullLookFromI64(n int64) (NullLook, bool) {
	if n < 0 || n > int64(NullLookCross) {
		return 0, false
	}
	return NullLook(n), true
}

// LimbNodeAttribute marks a model as a skeleton limb.
type LimbNodeAttribute struct {
	ID        int64
	Name      string
	TypeFlags string
	Size      float64
}

type limbNodeAttributeLoader struct {
	id        int64
	name      string
	templates *TemplateStore

	typeFlags *string
	props     *PropertyMap
}

func (l *limbNodeAttributeLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "TypeFlags":
		if s, ok := firstString(props); ok {
			l.typeFlags = &s
		} else {
			logger.Error("cannot get limb type flags", "attribute", l.name)
		}
	case "Properties70":
		m, err := LoadNode(r, newPropertiesLoader(70))
		if err != nil {
			return err
		}
		l.props = m
		return nil
	default:
		logger.Warn("unknown node under limb attribute", "attribute", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *limbNodeAttributeLoader) Finish() (*LimbNodeAttribute, error) {
	defaults := l.templates.Get("NodeAttribute", "FbxSkeleton")
	if l.typeFlags == nil {
		logger.Error("limb attribute missing required field",
			"attribute", l.name, "field", "TypeFlags")
		return nil, nil
	}
	size, ok := resolveF64(l.props, defaults, "Size")
	if !ok {
		logger.Error("limb attribute missing required field",
			"attribute", l.name, "field", "Size")
		return nil, nil
	}
	return &LimbNodeAttribute{
		ID:        l.id,
		Name:      l.name,
		TypeFlags: *l.typeFlags,
		Size:      size,
	}, nil
}

// NullNodeAttribute marks a model as an empty locator.
type NullNodeAttribute struct {
	ID    int64
	Name  string
	Color [3]float64
	Size  float64
	Look  NullLook
}

type nullNodeAttributeLoader struct {
	id        int64
	name      string
	templates *TemplateStore

	props *PropertyMap
}

func (l *nullNodeAttributeLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "TypeFlags":
		if s, ok := firstString(props); !ok || s != "Null" {
			logger.Warn("unexpected null attribute type flags", "attribute", l.name, "value", s)
		}
	case "Properties70":
		m, err := LoadNode(r, newPropertiesLoader(70))
		if err != nil {
			return err
		}
		l.props = m
		return nil
	default:
		logger.Warn("unknown node under null attribute", "attribute", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *nullNodeAttributeLoader) Finish() (*NullNodeAttribute, error) {
	defaults := l.templates.Get("NodeAttribute", "FbxNull")

	missing := func(field string) (*NullNodeAttribute, error) {
		logger.Error("null attribute missing required field", "attribute", l.name, "field", field)
		return nil, nil
	}

	color, ok := resolveVec3(l.props, defaults, "Color")
	if !ok {
		return missing("Color")
	}
	size, ok := resolveF64(l.props, defaults, "Size")
	if !ok {
		return missing("Size")
	}
	lookRaw, ok := resolveI64(l.props, defaults, "Look")
	if !ok {
		return missing("Look")
	}
	look, ok := nullLookFromI64(lookRaw)
	if !ok {
		logger.Error("unknown null attribute look", "attribute", l.name, "value", lookRaw)
		return nil, nil
	}
	return &NullNodeAttribute{
		ID:    l.id,
		Name:  l.name,
		Color: color,
		Size:  size,
		Look:  look,
	}, nil
}
