package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

type templateKey struct {
	Class    string
	Subclass string
}

// TemplateStore holds the per-(class, subclass) default property maps from
// the definitions section. Append-only while definitions decode, read-only
// afterwards.
type TemplateStore struct {
	templates map[templateKey]*PropertyMap
}

// NewTemplateStore returns an empty store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{templates: make(map[templateKey]*PropertyMap)}
}

// Get returns the defaults for (class, subclass), or nil.
func (s *TemplateStore) Get(class, subclass string) *PropertyMap {
	if s == nil {
		return nil
	}
	return s.templates[templateKey{Class: class, Subclass: subclass}]
}

// Len returns the number of stored templates.
func (s *TemplateStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

func (s *TemplateStore) insert(class, subclass string, props *PropertyMap) {
	s.templates[templateKey{Class: class, Subclass: subclass}] = props
}

// definitionsLoader decodes the Definitions section into a TemplateStore.
type definitionsLoader struct {
	store *TemplateStore
}

func newDefinitionsLoader() *definitionsLoader {
	return &definitionsLoader{store: NewTemplateStore()}
}

func (l *definitionsLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Definitions/Version", props, 100)
	case "Count":
		// Object count hint, not needed.
	case "ObjectType":
		class, ok := firstString(props)
		if !ok {
			logger.Error("object type without class name")
			return SkipNode(r)
		}
		_, err := LoadNode(r, &objectTypeLoader{store: l.store, class: class})
		return err
	default:
		logger.Warn("unknown node under definitions", "name", name)
	}
	return SkipNode(r)
}

func (l *definitionsLoader) Finish() (*TemplateStore, error) {
	return l.store, nil
}

// objectTypeLoader decodes one ObjectType block: a per-class count plus the
// property templates for its subclasses.
type objectTypeLoader struct {
	store *TemplateStore
	class string
}

func (l *objectTypeLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Count":
	case "PropertyTemplate":
		subclass, ok := firstString(props)
		if !ok {
			logger.Error("property template without subclass name", "class", l.class)
			return SkipNode(r)
		}
		_, err := LoadNode(r, &templateLoader{store: l.store, class: l.class, subclass: subclass})
		return err
	default:
		logger.Warn("unknown node under object type", "class", l.class, "name", name)
	}
	return SkipNode(r)
}

func (l *objectTypeLoader) Finish() (struct{}, error) {
	return struct{}{}, nil
}

// templateLoader decodes one PropertyTemplate entry.
type templateLoader struct {
	store    *TemplateStore
	class    string
	subclass string
}

func (l *templateLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	if name != "Properties70" {
		logger.Warn("unknown node under property template",
			"class", l.class, "subclass", l.subclass, "name", name)
		return SkipNode(r)
	}
	m, err := LoadNode(r, newPropertiesLoader(70))
	if err != nil {
		return err
	}
	l.store.insert(l.class, l.subclass, m)
	return nil
}

func (l *templateLoader) Finish() (struct{}, error) {
	return struct{}{}, nil
}
