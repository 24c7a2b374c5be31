package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// Culling is a model's back-face culling setting.
type Culling uint8

const (
	CullingOff Culling = iota
	CullingOnCCW
	CullingOnCW
)

func parseCulling(s string) (Culling, bool) {
	switch s {
	case "CullingOff":
		return CullingOff, true
	case "CullingOnCCW":
		return CullingOnCCW, true
	case "CullingOnCW":
		return CullingOnCW, true
	}
	return 0, false
}

// InheritType is how a model combines its parent's transform with its own.
type InheritType uint8

const (
	InheritRrSs InheritType = iota
	InheritRSrs
	InheritRrs
)

func inheritTypeFromI64(n int64) (InheritType, bool) {
	if n < 0 || n > int64(InheritRrs) {
		return 0, false
	}
	return InheritType(n), true
}

// Model is one decoded scene-graph node.
type Model struct {
	ID          int64
	Name        string
	Subclass    string
	Shading     bool
	Culling     Culling
	AxisLen     float64
	Show        bool
	InheritType InheritType

	// Local transform, nil when neither the instance nor the template
	// carries the channel.
	Translation *[3]float64
	Rotation    *[3]float64
	Scaling     *[3]float64
}

type modelLoader struct {
	id        ObjectIdentity
	templates *TemplateStore

	shading *bool
	culling *Culling
	props   *PropertyMap
}

func newModelLoader(id ObjectIdentity, templates *TemplateStore) *modelLoader {
	return &modelLoader{id: id, templates: templates}
}

func (l *modelLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Model/Version", props, 232)
	case "Shading":
		if b, ok := firstBool(props); ok {
			l.shading = &b
		} else {
			logger.Error("cannot get model shading flag", "model", l.id.Name)
		}
	case "Culling":
		s, ok := firstString(props)
		if !ok {
			logger.Error("cannot get model culling", "model", l.id.Name)
			break
		}
		c, ok := parseCulling(s)
		if !ok {
			logger.Error("unknown model culling", "model", l.id.Name, "value", s)
			break
		}
		l.culling = &c
	case "Properties70":
		m, err := LoadNode(r, newPropertiesLoader(70))
		if err != nil {
			return err
		}
		l.props = m
		return nil
	default:
		logger.Warn("unknown node under model", "model", l.id.Name, "name", name)
	}
	return SkipNode(r)
}

func (l *modelLoader) Finish() (*Model, error) {
	defaults := l.templates.Get("Model", "FbxNode")

	missing := func(field string) (*Model, error) {
		logger.Error("model missing required field", "model", l.id.Name, "field", field)
		return nil, nil
	}

	if l.shading == nil {
		return missing("Shading")
	}
	if l.culling == nil {
		return missing("Culling")
	}
	axisLen, ok := resolveF64(l.props, defaults, "AxisLen")
	if !ok {
		return missing("AxisLen")
	}
	show, ok := resolveBool(l.props, defaults, "Show")
	if !ok {
		return missing("Show")
	}
	inheritRaw, ok := resolveI64(l.props, defaults, "InheritType")
	if !ok {
		return missing("InheritType")
	}
	inherit, ok := inheritTypeFromI64(inheritRaw)
	if !ok {
		logger.Error("unknown model inherit type", "model", l.id.Name, "value", inheritRaw)
		return nil, nil
	}

	return &Model{
		ID:          l.id.ID,
		Name:        l.id.Name,
		Subclass:    l.id.Subclass,
		Shading:     *l.shading,
		Culling:     *l.culling,
		AxisLen:     axisLen,
		Show:        show,
		InheritType: inherit,
		Translation: optVec3(l.props, defaults, "Lcl Translation"),
		Rotation:    optVec3(l.props, defaults, "Lcl Rotation"),
		Scaling:     optVec3(l.props, defaults, "Lcl Scaling"),
	}, nil
}
