package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// Video is one decoded media clip. Content is the converted embedded
// payload, nil when the file carries no content.
type Video[I any] struct {
	ID               int64
	Name             string
	Path             string
	UseMipMap        bool
	Filename         string
	RelativeFilename string
	Content          *I
}

type videoLoader[I any] struct {
	id        int64
	name      string
	templates *TemplateStore
	conv      Converter[I]

	filename         *string
	relativeFilename *string
	content          *I
	props            *PropertyMap
}

func newVideoLoader[I any](id ObjectIdentity, templates *TemplateStore, conv Converter[I]) *videoLoader[I] {
	return &videoLoader[I]{id: id.ID, name: id.Name, templates: templates, conv: conv}
}

func (l *videoLoader[I]) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Type":
		if s, ok := firstString(props); !ok || s != "Clip" {
			logger.Warn("unexpected video type", "video", l.name, "type", s)
		}
	case "Filename":
		if s, ok := firstString(props); ok {
			l.filename = &s
		} else {
			logger.Error("cannot get video file name", "video", l.name)
		}
	case "RelativeFilename":
		if s, ok := firstString(props); ok {
			l.relativeFilename = &s
		} else {
			logger.Error("cannot get video relative file name", "video", l.name)
		}
	case "Content":
		// Conversion needs the file name for format sniffing, so content
		// arriving before Filename cannot be handled.
		p, ok := props.Iter().Next()
		data, dok := p.GetBinary()
		if !ok || !dok {
			logger.Error("cannot get video content", "video", l.name)
			break
		}
		if l.filename == nil {
			logger.Error("video content before file name", "video", l.name)
			break
		}
		img := l.conv.Convert(data, *l.filename)
		l.content = &img
	case "UseMipMap":
		// Duplicated into the property block, which wins.
	case "Properties70":
		m, err := LoadNode(r, newPropertiesLoader(70))
		if err != nil {
			return err
		}
		l.props = m
		return nil
	default:
		logger.Warn("unknown node under video", "video", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *videoLoader[I]) Finish() (*Video[I], error) {
	defaults := l.templates.Get("Video", "FbxVideo")

	missing := func(field string) (*Video[I], error) {
		logger.Error("video missing required field", "video", l.name, "field", field)
		return nil, nil
	}

	path, ok := resolveString(l.props, defaults, "Path")
	if !ok {
		return missing("Path")
	}
	useMipMap, ok := resolveBool(l.props, defaults, "UseMipMap")
	if !ok {
		return missing("UseMipMap")
	}
	if l.filename == nil {
		return missing("Filename")
	}
	if l.relativeFilename == nil {
		return missing("RelativeFilename")
	}

	return &Video[I]{
		ID:               l.id,
		Name:             l.name,
		Path:             path,
		UseMipMap:        useMipMap,
		Filename:         *l.filename,
		RelativeFilename: *l.relativeFilename,
		Content:          l.content,
	}, nil
}
