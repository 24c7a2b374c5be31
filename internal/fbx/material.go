package fbx

import (
	"strings"

	"fbx-scene-decoder/internal/fbxbin"
)

// LambertParameters are the surface attributes shared by every lighting
// model. Each field is nil when neither the instance nor its template
// carries the attribute.
type LambertParameters struct {
	EmissiveColor            *[3]float64
	EmissiveFactor           *float64
	AmbientColor             *[3]float64
	AmbientFactor            *float64
	DiffuseColor             *[3]float64
	DiffuseFactor            *float64
	NormalMap                *[3]float64
	Bump                     *[3]float64
	TransparentColor         *[3]float64
	TransparencyFactor       *float64
	DisplacementColor        *[3]float64
	DisplacementFactor       *float64
	VectorDisplacementColor  *[3]float64
	VectorDisplacementFactor *float64
}

// PhongParameters extend the Lambert set with the specular terms.
type PhongParameters struct {
	LambertParameters
	SpecularColor    *[3]float64
	SpecularFactor   *float64
	Shininess        *float64
	ReflectionColor  *[3]float64
	ReflectionFactor *float64
}

// Shading is the lighting model of a material; one of LambertShading,
// PhongShading or UnknownShading.
type Shading interface {
	shadingModel() string
}

type LambertShading struct{ LambertParameters }

func (LambertShading) shadingModel() string { return "lambert" }

type PhongShading struct{ PhongParameters }

func (PhongShading) shadingModel() string { return "phong" }

// UnknownShading preserves the model name of a lighting model without a
// dedicated parameter set.
type UnknownShading struct{ Model string }

func (s UnknownShading) shadingModel() string { return s.Model }

// Material is one decoded surface material.
type Material struct {
	ID         int64
	Name       string
	MultiLayer bool
	Shading    Shading
}

type materialLoader struct {
	id        int64
	name      string
	templates *TemplateStore

	shadingModel *string
	multiLayer   *bool
	props        *PropertyMap
}

func newMaterialLoader(id ObjectIdentity, templates *TemplateStore) *materialLoader {
	return &materialLoader{id: id.ID, name: id.Name, templates: templates}
}

func (l *materialLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Material/Version", props, 102)
	case "ShadingModel":
		if s, ok := firstString(props); ok {
			l.shadingModel = &s
		} else {
			logger.Error("cannot get shading model", "material", l.name)
		}
	case "MultiLayer":
		if n, ok := firstI64(props); ok {
			b := n != 0
			l.multiLayer = &b
		} else {
			logger.Error("cannot get multi layer flag", "material", l.name)
		}
	case "Properties70":
		m, err := LoadNode(r, newPropertiesLoader(70))
		if err != nil {
			return err
		}
		l.props = m
		return nil
	default:
		logger.Warn("unknown node under material", "material", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *materialLoader) Finish() (*Material, error) {
	if l.shadingModel == nil {
		logger.Error("material without shading model", "material", l.name)
		return nil, nil
	}
	if l.multiLayer == nil {
		logger.Error("material without multi layer flag", "material", l.name)
		return nil, nil
	}

	var shading Shading
	switch {
	case strings.EqualFold(*l.shadingModel, "lambert"):
		defaults := l.templates.Get("Material", "FbxSurfaceLambert")
		shading = LambertShading{loadLambertParameters(l.props, defaults)}
	case strings.EqualFold(*l.shadingModel, "phong"):
		defaults := l.templates.Get("Material", "FbxSurfacePhong")
		shading = PhongShading{PhongParameters{
			LambertParameters: loadLambertParameters(l.props, defaults),
			SpecularColor:     optVec3(l.props, defaults, "SpecularColor"),
			SpecularFactor:    optF64(l.props, defaults, "SpecularFactor"),
			Shininess:         optF64(l.props, defaults, "Shininess"),
			ReflectionColor:   optVec3(l.props, defaults, "ReflectionColor"),
			ReflectionFactor:  optF64(l.props, defaults, "ReflectionFactor"),
		}}
	default:
		logger.Warn("unknown shading model", "material", l.name, "model", *l.shadingModel)
		shading = UnknownShading{Model: *l.shadingModel}
	}

	return &Material{
		ID:         l.id,
		Name:       l.name,
		MultiLayer: *l.multiLayer,
		Shading:    shading,
	}, nil
}

func loadLambertParameters(props, defaults *PropertyMap) LambertParameters {
	return LambertParameters{
		EmissiveColor:            optVec3(props, defaults, "EmissiveColor"),
		EmissiveFactor:           optF64(props, defaults, "EmissiveFactor"),
		AmbientColor:             optVec3(props, defaults, "AmbientColor"),
		AmbientFactor:            optF64(props, defaults, "AmbientFactor"),
		DiffuseColor:             optVec3(props, defaults, "DiffuseColor"),
		DiffuseFactor:            optF64(props, defaults, "DiffuseFactor"),
		NormalMap:                optVec3(props, defaults, "NormalMap"),
		Bump:                     optVec3(props, defaults, "Bump"),
		TransparentColor:         optVec3(props, defaults, "TransparentColor"),
		TransparencyFactor:       optF64(props, defaults, "TransparencyFactor"),
		DisplacementColor:        optVec3(props, defaults, "DisplacementColor"),
		DisplacementFactor:       optF64(props, defaults, "DisplacementFactor"),
		VectorDisplacementColor:  optVec3(props, defaults, "VectorDisplacementColor"),
		VectorDisplacementFactor: optF64(props, defaults, "VectorDisplacementFactor"),
	}
}

func optVec3(props, defaults *PropertyMap, name string) *[3]float64 {
	if c, ok := resolveVec3(props, defaults, name); ok {
		return &c
	}
	return nil
}

func optF64(props, defaults *PropertyMap, name string) *float64 {
	if v, ok := resolveF64(props, defaults, name); ok {
		return &v
	}
	return nil
}
