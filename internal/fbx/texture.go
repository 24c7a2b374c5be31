package fbx

import (
	"strings"

	"fbx-scene-decoder/internal/fbxbin"
)

// BlendMode is how a texture combines with the layer below it.
type BlendMode uint8

const (
	BlendTranslucent BlendMode = iota
	BlendAdditive
	BlendModulate
	BlendModulate2
	BlendOver
)

func blendModeFromI64(n int64) (BlendMode, bool) {
	if n < 0 || n > int64(BlendOver) {
		return 0, false
	}
	return BlendMode(n), true
}

// WrapMode is the out-of-range UV sampling behavior along one axis.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

func wrapModeFromI64(n int64) (WrapMode, bool) {
	if n < 0 || n > int64(WrapClamp) {
		return 0, false
	}
	return WrapMode(n), true
}

// Texture is one decoded file texture. The pixel payload lives in the
// Video object the texture's Media name points at.
type Texture struct {
	ID               int64
	Name             string
	Media            string
	BlendMode        BlendMode
	PremultiplyAlpha bool
	UVSet            string
	WrapU            WrapMode
	WrapV            WrapMode
	Filename         string
	RelativeFilename string
}

type textureLoader struct {
	id        int64
	name      string
	templates *TemplateStore

	media            string
	filename         *string
	relativeFilename *string
	props            *PropertyMap
}

func newTextureLoader(id ObjectIdentity, templates *TemplateStore) *textureLoader {
	return &textureLoader{id: id.ID, name: id.Name, templates: templates}
}

func (l *textureLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Type":
		if s, ok := firstString(props); !ok || s != "TextureVideoClip" {
			logger.Warn("unexpected texture type", "texture", l.name, "type", s)
		}
	case "Version":
		checkVersion("Texture/Version", props, 202)
	case "TextureName":
		if s, ok := firstString(props); ok {
			n, _, found := strings.Cut(s, nameClassSep)
			if !found {
				n = s
			}
			if n != l.name {
				logger.Warn("texture name mismatch", "texture", l.name, "textureName", n)
			}
		}
	case "Media":
		if s, ok := firstString(props); ok {
			if n, _, found := strings.Cut(s, nameClassSep); found {
				l.media = n
			} else {
				l.media = s
			}
		} else {
			logger.Error("cannot get texture media", "texture", l.name)
		}
	case "FileName":
		if s, ok := firstString(props); ok {
			l.filename = &s
		} else {
			logger.Error("cannot get texture file name", "texture", l.name)
		}
	case "RelativeFilename":
		if s, ok := firstString(props); ok {
			l.relativeFilename = &s
		} else {
			logger.Error("cannot get texture relative file name", "texture", l.name)
		}
	case "ModelUVTranslation", "ModelUVScaling", "Texture_Alpha_Source", "Cropping":
		// Legacy placement fields, not consumed.
	case "Properties70":
		m, err := LoadNode(r, newPropertiesLoader(70))
		if err != nil {
			return err
		}
		l.props = m
		return nil
	default:
		logger.Warn("unknown node under texture", "texture", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *textureLoader) Finish() (*Texture, error) {
	defaults := l.templates.Get("Texture", "FbxFileTexture")

	missing := func(field string) (*Texture, error) {
		logger.Error("texture missing required field", "texture", l.name, "field", field)
		return nil, nil
	}

	blendRaw, ok := resolveI64(l.props, defaults, "CurrentTextureBlendMode")
	if !ok {
		return missing("CurrentTextureBlendMode")
	}
	blend, ok := blendModeFromI64(blendRaw)
	if !ok {
		logger.Error("unknown texture blend mode", "texture", l.name, "value", blendRaw)
		return nil, nil
	}
	premultiply, ok := resolveBool(l.props, defaults, "PremultiplyAlpha")
	if !ok {
		return missing("PremultiplyAlpha")
	}
	uvSet, ok := resolveString(l.props, defaults, "UVSet")
	if !ok {
		return missing("UVSet")
	}
	wrapURaw, ok := resolveI64(l.props, defaults, "WrapModeU")
	if !ok {
		return missing("WrapModeU")
	}
	wrapVRaw, ok := resolveI64(l.props, defaults, "WrapModeV")
	if !ok {
		return missing("WrapModeV")
	}
	wrapU, ok := wrapModeFromI64(wrapURaw)
	if !ok {
		logger.Error("unknown texture wrap mode", "texture", l.name, "value", wrapURaw)
		return nil, nil
	}
	wrapV, ok := wrapModeFromI64(wrapVRaw)
	if !ok {
		logger.Error("unknown texture wrap mode", "texture", l.name, "value", wrapVRaw)
		return nil, nil
	}
	if l.filename == nil {
		return missing("FileName")
	}
	if l.relativeFilename == nil {
		return missing("RelativeFilename")
	}

	return &Texture{
		ID:               l.id,
		Name:             l.name,
		Media:            l.media,
		BlendMode:        blend,
		PremultiplyAlpha: premultiply,
		UVSet:            uvSet,
		WrapU:            wrapU,
		WrapV:            wrapV,
		Filename:         *l.filename,
		RelativeFilename: *l.relativeFilename,
	}, nil
}
