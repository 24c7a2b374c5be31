package fbx

import (
	"errors"
	"fmt"
	"log/slog"

	"fbx-scene-decoder/internal/fbxbin"
)

// logger receives all recoverable-condition diagnostics. The decode never
// stops on anything it logs here; fatal conditions are returned as errors.
var logger = slog.Default()

// SetLogger replaces the package diagnostic logger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// ErrTruncated reports a node subtree that never closed.
var ErrTruncated = errors.New("fbx: node tree truncated")

// Reader is the event cursor the decoder pulls from. fbxbin.Reader satisfies
// it; tests use scripted event slices.
type Reader interface {
	Next() (fbxbin.Event, error)
}

// NodeLoader accumulates state over one node's children and converts it into
// a result when the node closes.
//
// LoadChild must fully consume the child's subtree before returning, either
// by loading it or by calling SkipNode; anything less desynchronizes every
// sibling that follows. Finish reserves its error for unrecoverable stream
// corruption: "could not produce a value" is expressed by returning a nil
// (or zero) target after logging why.
type NodeLoader[T any] interface {
	LoadChild(r Reader, name string, props *fbxbin.PropertyList) error
	Finish() (T, error)
}

// LoadNode drives a loader over the current node: every StartNode event is
// handed to LoadChild, and the matching EndNode (or the end of the stream,
// at the root) triggers Finish.
func LoadNode[T any](r Reader, l NodeLoader[T]) (T, error) {
	for {
		ev, err := r.Next()
		if err != nil {
			var zero T
			return zero, fmt.Errorf("fbx: read event: %w", err)
		}
		switch ev.Kind {
		case fbxbin.StartNode:
			if err := l.LoadChild(r, ev.Name, &ev.Props); err != nil {
				var zero T
				return zero, err
			}
		default: // EndNode, EndStream
			return l.Finish()
		}
	}
}

// SkipNode consumes the rest of the current node's subtree, leaving the
// cursor at the boundary before the next sibling. Every unrecognized or
// deliberately ignored child must go through here.
func SkipNode(r Reader) error {
	depth := 1
	for {
		ev, err := r.Next()
		if err != nil {
			return fmt.Errorf("fbx: skip subtree: %w", err)
		}
		switch ev.Kind {
		case fbxbin.StartNode:
			depth++
		case fbxbin.EndNode:
			depth--
			if depth == 0 {
				return nil
			}
		case fbxbin.EndStream:
			if depth != 1 {
				return ErrTruncated
			}
			return nil
		}
	}
}
