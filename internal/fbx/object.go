package fbx

import (
	"strings"

	"fbx-scene-decoder/internal/fbxbin"
)

// nameClassSep separates the human-readable name from the class inside an
// object node's combined name cell.
const nameClassSep = "\x00\x01"

// ObjectIdentity is the (id, name, class, subclass) tuple carried by the
// three leading cells of every object node.
type ObjectIdentity struct {
	ID       int64
	Name     string
	Class    string
	Subclass string
}

// extractIdentity decodes the identity triple from an object node's
// property list. Any missing cell or a combined name without the separator
// makes the whole object unrecognizable.
func extractIdentity(props *fbxbin.PropertyList) (ObjectIdentity, bool) {
	it := props.Iter()
	id, ok := nextI64(it)
	if !ok {
		logger.Error("cannot get object id")
		return ObjectIdentity{}, false
	}
	nameClass, ok := nextString(it)
	if !ok {
		logger.Error("cannot get object name/class", "id", id)
		return ObjectIdentity{}, false
	}
	name, class, found := strings.Cut(nameClass, nameClassSep)
	if !found {
		logger.Error("object name/class without separator", "id", id, "value", nameClass)
		return ObjectIdentity{}, false
	}
	subclass, ok := nextString(it)
	if !ok {
		logger.Error("cannot get object subclass", "id", id, "name", name)
		return ObjectIdentity{}, false
	}
	return ObjectIdentity{ID: id, Name: name, Class: class, Subclass: subclass}, true
}

// UnknownObject records the identity of an object whose (class, subclass)
// pair has no dedicated decoder. Its content subtree is skipped.
type UnknownObject struct {
	ID       int64
	Name     string
	Class    string
	Subclass string
}

func unknownFromIdentity(id ObjectIdentity) *UnknownObject {
	return &UnknownObject{
		ID:       id.ID,
		Name:     id.Name,
		Class:    id.Class,
		Subclass: id.Subclass,
	}
}
