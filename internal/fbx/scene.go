package fbx

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fbx-scene-decoder/internal/fbxbin"
)

var (
	// ErrMissingHeader reports a scene without an FBXHeaderExtension
	// section.
	ErrMissingHeader = errors.New("fbx: scene missing header extension")
	// ErrMissingConnections reports a scene without a Connections section.
	ErrMissingConnections = errors.New("fbx: scene missing connections")
	// ErrObjectsBeforeDefinitions reports an Objects section arriving
	// before the Definitions the object decoders resolve defaults from.
	ErrObjectsBeforeDefinitions = errors.New("fbx: objects section before definitions")
)

// Scene is one fully decoded document.
type Scene[I any] struct {
	Header      HeaderExtension
	Templates   *TemplateStore
	Objects     Objects[I]
	Connections []Connection
}

// Triangulate triangulates every mesh in the scene with tri, or
// DefaultTriangulator when tri is nil.
func (s *Scene[I]) Triangulate(tri Triangulator) error {
	if tri == nil {
		tri = DefaultTriangulator
	}
	for _, m := range s.Objects.Meshes {
		if err := m.Triangulate(tri); err != nil {
			return err
		}
	}
	return nil
}

type sceneLoader[I any] struct {
	conv Converter[I]

	header      *HeaderExtension
	templates   *TemplateStore
	objects     *Objects[I]
	connections []Connection
}

func (l *sceneLoader[I]) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "FBXHeaderExtension":
		h, err := LoadNode(r, &headerLoader{})
		if err != nil {
			return err
		}
		l.header = &h
		return nil
	case "Definitions":
		store, err := LoadNode(r, newDefinitionsLoader())
		if err != nil {
			return err
		}
		l.templates = store
		return nil
	case "Objects":
		if l.templates == nil {
			return ErrObjectsBeforeDefinitions
		}
		objs, err := LoadNode(r, newObjectsLoader(l.templates, l.conv))
		if err != nil {
			return err
		}
		l.objects = &objs
		return nil
	case "Connections":
		conns, err := LoadNode(r, &connectionsLoader{})
		if err != nil {
			return err
		}
		l.connections = conns
		return nil
	case "FileId", "CreationTime", "Creator", "GlobalSettings",
		"Documents", "References", "Takes":
		// Not consumed.
	default:
		logger.Warn("unknown top-level node", "name", name)
	}
	return SkipNode(r)
}

func (l *sceneLoader[I]) Finish() (*Scene[I], error) {
	if l.header == nil {
		return nil, ErrMissingHeader
	}
	if l.connections == nil {
		return nil, ErrMissingConnections
	}
	scene := &Scene[I]{
		Header:      *l.header,
		Templates:   l.templates,
		Connections: l.connections,
	}
	if l.objects != nil {
		scene.Objects = *l.objects
	} else {
		scene.Objects = newObjects[I]()
	}
	if scene.Templates == nil {
		scene.Templates = NewTemplateStore()
	}
	return scene, nil
}

// Load decodes a binary FBX document from r. conv receives every embedded
// video payload; structural corruption of the node tree is the only way
// Load fails once the header has been accepted.
func Load[I any](r io.Reader, conv Converter[I]) (*Scene[I], error) {
	br, err := fbxbin.NewReader(r)
	if err != nil {
		return nil, err
	}
	return LoadFrom(br, conv)
}

// LoadFrom decodes a scene from an already-open event cursor.
func LoadFrom[I any](r Reader, conv Converter[I]) (*Scene[I], error) {
	return LoadNode(r, &sceneLoader[I]{conv: conv})
}

// LoadFile decodes the binary FBX file at path.
func LoadFile[I any](path string, conv Converter[I]) (*Scene[I], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fbx: open %s: %w", path, err)
	}
	defer f.Close()
	scene, err := Load(f, conv)
	if err != nil {
		return nil, fmt.Errorf("fbx: load %s: %w", path, err)
	}
	return scene, nil
}
