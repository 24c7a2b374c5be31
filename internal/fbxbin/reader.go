package fbxbin

import (
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const magic = "Kaydara FBX Binary  "

// Nodes with offsets at or past this version use 64-bit record headers.
const bigOffsetVersion = 7500

// ErrUnexpectedEOF reports a stream that ended inside an open subtree.
var ErrUnexpectedEOF = errors.New("fbxbin: stream ended inside an open node")

// EventKind discriminates the three tree events a Reader yields.
type EventKind uint8

const (
	// StartNode opens a node; Name and Props are set.
	StartNode EventKind = iota
	// EndNode closes the most recently opened node.
	EndNode
	// EndStream marks the end of the top-level node list.
	EndStream
)

// Event is one step of the depth-first walk over the node tree.
type Event struct {
	Kind  EventKind
	Name  string
	Props PropertyList
}

type positionReader struct {
	r   io.Reader
	pos uint64
}

func (r *positionReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.pos += uint64(n)
	return n, err
}

func (r *positionReader) skipTo(pos uint64) error {
	if pos < r.pos {
		return fmt.Errorf("fbxbin: cannot rewind from %d to %d", r.pos, pos)
	}
	_, err := io.CopyN(io.Discard, r.r, int64(pos-r.pos))
	if err == nil {
		r.pos = pos
	}
	return err
}

// Reader is a pull parser for the binary container. Each call to Next
// yields the next StartNode/EndNode event; properties of a node are decoded
// eagerly when the node is entered, child subtrees on demand.
type Reader struct {
	r       *positionReader
	version uint32
	big     bool     // 64-bit record headers
	stack   []uint64 // end offsets of open nodes
	done    bool
}

// NewReader checks the magic and version words and returns a reader
// positioned at the first top-level node.
func NewReader(r io.Reader) (*Reader, error) {
	pr := &positionReader{r: r}
	header := make([]byte, 27)
	if _, err := io.ReadFull(pr, header); err != nil {
		return nil, fmt.Errorf("fbxbin: read header: %w", err)
	}
	if string(header[:len(magic)]) != magic {
		return nil, fmt.Errorf("fbxbin: not a binary FBX stream")
	}
	version := binary.LittleEndian.Uint32(header[23:27])
	return &Reader{
		r:       pr,
		version: version,
		big:     version >= bigOffsetVersion,
	}, nil
}

// Version returns the container version word (e.g. 7400).
func (r *Reader) Version() uint32 { return r.version }

// Next returns the next tree event. After EndStream (or an error) has been
// returned, all further calls return EndStream.
func (r *Reader) Next() (Event, error) {
	for {
		if r.done {
			return Event{Kind: EndStream}, nil
		}
		// A node whose content ends exactly at its end offset carries no
		// terminating null record; close it from the offset alone.
		if n := len(r.stack); n > 0 && r.r.pos >= r.stack[n-1] {
			r.stack = r.stack[:n-1]
			return Event{Kind: EndNode}, nil
		}

		endOffset, numProps, propLen, nameLen, err := r.readRecordHeader()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if len(r.stack) > 0 {
					return Event{}, ErrUnexpectedEOF
				}
				// Footer reached without a closing null record.
				r.done = true
				return Event{Kind: EndStream}, nil
			}
			return Event{}, err
		}

		if endOffset == 0 && numProps == 0 && propLen == 0 && nameLen == 0 {
			// Null record: closes the current node, or the whole stream at
			// the top level.
			if n := len(r.stack); n > 0 {
				r.stack = r.stack[:n-1]
				return Event{Kind: EndNode}, nil
			}
			r.done = true
			return Event{Kind: EndStream}, nil
		}

		name, err := r.readString(uint64(nameLen))
		if err != nil {
			return Event{}, fmt.Errorf("fbxbin: read node name: %w", err)
		}
		props := make([]Property, 0, numProps)
		for i := uint64(0); i < numProps; i++ {
			p, err := r.readProperty()
			if err != nil {
				return Event{}, fmt.Errorf("fbxbin: node %q property %d: %w", name, i, err)
			}
			props = append(props, p)
		}
		_ = propLen // implied by the cells just read
		r.stack = append(r.stack, endOffset)
		return Event{Kind: StartNode, Name: name, Props: PropertyList{props: props}}, nil
	}
}

func (r *Reader) readRecordHeader() (endOffset, numProps, propLen uint64, nameLen uint8, err error) {
	if r.big {
		buf := make([]byte, 25)
		if _, err = io.ReadFull(r.r, buf); err != nil {
			return
		}
		endOffset = binary.LittleEndian.Uint64(buf[0:8])
		numProps = binary.LittleEndian.Uint64(buf[8:16])
		propLen = binary.LittleEndian.Uint64(buf[16:24])
		nameLen = buf[24]
		return
	}
	buf := make([]byte, 13)
	if _, err = io.ReadFull(r.r, buf); err != nil {
		return
	}
	endOffset = uint64(binary.LittleEndian.Uint32(buf[0:4]))
	numProps = uint64(binary.LittleEndian.Uint32(buf[4:8]))
	propLen = uint64(binary.LittleEndian.Uint32(buf[8:12]))
	nameLen = buf[12]
	return
}

func (r *Reader) readString(n uint64) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (r *Reader) readProperty() (Property, error) {
	var typ [1]byte
	if _, err := io.ReadFull(r.r, typ[:]); err != nil {
		return Property{}, err
	}
	t := typ[0]
	switch t {
	case 'C':
		var v uint8
		if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: v&1 != 0}, nil
	case 'Y':
		var v int16
		if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: v}, nil
	case 'I':
		var v int32
		if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: v}, nil
	case 'L':
		var v int64
		if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: v}, nil
	case 'F':
		var v float32
		if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: v}, nil
	case 'D':
		var v float64
		if err := binary.Read(r.r, binary.LittleEndian, &v); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: v}, nil
	case 'S':
		var n uint32
		if err := binary.Read(r.r, binary.LittleEndian, &n); err != nil {
			return Property{}, err
		}
		s, err := r.readString(uint64(n))
		if err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: s}, nil
	case 'R':
		var n uint32
		if err := binary.Read(r.r, binary.LittleEndian, &n); err != nil {
			return Property{}, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r.r, buf); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: buf}, nil
	case 'b', 'i', 'l', 'f', 'd':
		return r.readArrayProperty(t)
	}
	return Property{}, fmt.Errorf("unknown property type 0x%02x", t)
}

func (r *Reader) readArrayProperty(t byte) (Property, error) {
	var count, encoding, compLen uint32
	if err := binary.Read(r.r, binary.LittleEndian, &count); err != nil {
		return Property{}, err
	}
	if err := binary.Read(r.r, binary.LittleEndian, &encoding); err != nil {
		return Property{}, err
	}
	if err := binary.Read(r.r, binary.LittleEndian, &compLen); err != nil {
		return Property{}, err
	}

	var buf any
	switch t {
	case 'b':
		buf = make([]byte, count)
	case 'i':
		buf = make([]int32, count)
	case 'l':
		buf = make([]int64, count)
	case 'f':
		buf = make([]float32, count)
	case 'd':
		buf = make([]float64, count)
	}

	if encoding == 0 {
		if err := binary.Read(r.r, binary.LittleEndian, buf); err != nil {
			return Property{}, err
		}
		return Property{Type: t, Value: buf}, nil
	}

	end := r.r.pos + uint64(compLen)
	zr, err := zlib.NewReader(io.LimitReader(r.r, int64(compLen)))
	if err != nil {
		return Property{}, fmt.Errorf("compressed array: %w", err)
	}
	defer zr.Close()
	if err := binary.Read(zr, binary.LittleEndian, buf); err != nil {
		return Property{}, fmt.Errorf("compressed array: %w", err)
	}
	if err := r.r.skipTo(end); err != nil {
		return Property{}, err
	}
	return Property{Type: t, Value: buf}, nil
}
