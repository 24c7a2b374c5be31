package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// Connection is one typed edge between two object ids. Either endpoint may
// address a named property of its object rather than the object itself;
// Attribute carries the property name when present.
type Connection struct {
	Child            int64
	Parent           int64
	ChildIsProperty  bool
	ParentIsProperty bool
	Attribute        string
}

// connectionsLoader decodes the Connections section. A malformed edge is
// logged and dropped; the list keeps the remaining edges in file order.
type connectionsLoader struct {
	connections []Connection
}

func (l *connectionsLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	if name != "C" {
		logger.Warn("unknown node under connections", "name", name)
		return SkipNode(r)
	}
	it := props.Iter()
	typ, ok := nextString(it)
	if !ok {
		logger.Error("cannot get connection type")
		return SkipNode(r)
	}
	var conn Connection
	switch typ {
	case "OO":
	case "OP":
		conn.ParentIsProperty = true
	case "PO":
		conn.ChildIsProperty = true
	case "PP":
		conn.ChildIsProperty = true
		conn.ParentIsProperty = true
	default:
		logger.Error("unknown connection type", "type", typ)
		return SkipNode(r)
	}
	if conn.Child, ok = nextI64(it); !ok {
		logger.Error("cannot get connection child id", "type", typ)
		return SkipNode(r)
	}
	if conn.Parent, ok = nextI64(it); !ok {
		logger.Error("cannot get connection parent id", "type", typ)
		return SkipNode(r)
	}
	// The attribute cell is optional for every edge type; an edge whose
	// endpoint addresses a property simply keeps an empty name when the
	// cell is absent.
	if attr, ok := nextString(it); ok {
		conn.Attribute = attr
	}
	l.connections = append(l.connections, conn)
	return SkipNode(r)
}

func (l *connectionsLoader) Finish() ([]Connection, error) {
	if l.connections == nil {
		// An empty section still counts as present.
		return []Connection{}, nil
	}
	return l.connections, nil
}
