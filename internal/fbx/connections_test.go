package fbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-scene-decoder/internal/fbxbin"
)

func TestConnectionsLoader(t *testing.T) {
	r := &scriptReader{events: events(
		leaf("C", pS("OO"), pI64(1), pI64(2)),
		leaf("C", pS("OP"), pI64(3), pI64(4), pS("DiffuseColor")),
		leaf("C", pS("PO"), pI64(5), pI64(6), pS("Lcl Translation")),
		leaf("C", pS("PP"), pI64(7), pI64(8), pS("X")),
		[]fbxbin.Event{end()},
	)}
	conns, err := LoadNode(r, &connectionsLoader{})
	require.NoError(t, err)
	require.Len(t, conns, 4)

	assert.Equal(t, Connection{Child: 1, Parent: 2}, conns[0])
	assert.Equal(t, Connection{Child: 3, Parent: 4, ParentIsProperty: true, Attribute: "DiffuseColor"}, conns[1])
	assert.Equal(t, Connection{Child: 5, Parent: 6, ChildIsProperty: true, Attribute: "Lcl Translation"}, conns[2])
	assert.Equal(t, Connection{Child: 7, Parent: 8, ChildIsProperty: true, ParentIsProperty: true, Attribute: "X"}, conns[3])
}

func TestConnectionsLoaderOptionalAttribute(t *testing.T) {
	r := &scriptReader{events: events(
		// The attribute cell may be absent on any edge type, and an OO
		// edge may still carry one.
		leaf("C", pS("OP"), pI64(3), pI64(4)),
		leaf("C", pS("OO"), pI64(1), pI64(2), pS("Extra")),
		[]fbxbin.Event{end()},
	)}
	conns, err := LoadNode(r, &connectionsLoader{})
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, Connection{Child: 3, Parent: 4, ParentIsProperty: true}, conns[0])
	assert.Equal(t, Connection{Child: 1, Parent: 2, Attribute: "Extra"}, conns[1])
}

func TestConnectionsLoaderDropsMalformed(t *testing.T) {
	r := &scriptReader{events: events(
		leaf("C", pS("XX"), pI64(1), pI64(2)),   // unknown edge type
		leaf("C", pS("OO"), pI64(5)),            // missing parent id
		leaf("C", pS("OO"), pI64(10), pI64(11)), // fine
		[]fbxbin.Event{end()},
	)}
	conns, err := LoadNode(r, &connectionsLoader{})
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, Connection{Child: 10, Parent: 11}, conns[0])
}
