package fbxbin

import "unicode/utf8"

// Property is one decoded property cell of a node record. Type is the
// format's type code byte; Value holds the corresponding Go value:
//
//	'C' bool    'Y' int16   'I' int32     'L' int64
//	'F' float32 'D' float64 'S' string    'R' []byte
//	'b' []byte  'i' []int32 'l' []int64   'f' []float32  'd' []float64
type Property struct {
	Type  byte
	Value any
}

// GetBool returns the value of a 'C' cell.
func (p Property) GetBool() (bool, bool) {
	v, ok := p.Value.(bool)
	return v, ok
}

// GetI32 returns the value of an 'I' cell, without coercion.
func (p Property) GetI32() (int32, bool) {
	v, ok := p.Value.(int32)
	return v, ok
}

// GetI64 returns the value of an 'L' cell, without coercion.
func (p Property) GetI64() (int64, bool) {
	v, ok := p.Value.(int64)
	return v, ok
}

// AsI64 widens any integer cell ('Y', 'I', 'L', 'C') to int64.
func (p Property) AsI64() (int64, bool) {
	switch v := p.Value.(type) {
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// GetF32 returns the value of an 'F' cell, without coercion.
func (p Property) GetF32() (float32, bool) {
	v, ok := p.Value.(float32)
	return v, ok
}

// AsF32 widens 'F' or 'D' to float32.
func (p Property) AsF32() (float32, bool) {
	switch v := p.Value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	}
	return 0, false
}

// AsF64 widens 'F' or 'D' to float64.
func (p Property) AsF64() (float64, bool) {
	switch v := p.Value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// GetString returns the value of an 'S' cell when it is valid UTF-8.
func (p Property) GetString() (string, bool) {
	v, ok := p.Value.(string)
	if !ok || !utf8.ValidString(v) {
		return "", false
	}
	return v, true
}

// GetStringOrRaw returns the bytes of an 'S' cell along with a flag telling
// whether they form valid UTF-8.
func (p Property) GetStringOrRaw() (string, bool, bool) {
	v, ok := p.Value.(string)
	if !ok {
		return "", false, false
	}
	return v, utf8.ValidString(v), true
}

// GetBinary returns the payload of an 'R' cell.
func (p Property) GetBinary() ([]byte, bool) {
	v, ok := p.Value.([]byte)
	if !ok || p.Type != 'R' {
		return nil, false
	}
	return v, true
}

// GetVecI32 returns the value of an 'i' array cell.
func (p Property) GetVecI32() ([]int32, bool) {
	v, ok := p.Value.([]int32)
	return v, ok
}

// AsVecI64 widens 'i' or 'l' array cells to []int64. The 'i' case copies.
func (p Property) AsVecI64() ([]int64, bool) {
	switch v := p.Value.(type) {
	case []int64:
		return v, true
	case []int32:
		out := make([]int64, len(v))
		for i, e := range v {
			out[i] = int64(e)
		}
		return out, true
	}
	return nil, false
}

// AsVecF32 widens 'f' or 'd' array cells to []float32. The 'd' case copies.
func (p Property) AsVecF32() ([]float32, bool) {
	switch v := p.Value.(type) {
	case []float32:
		return v, true
	case []float64:
		out := make([]float32, len(v))
		for i, e := range v {
			out[i] = float32(e)
		}
		return out, true
	}
	return nil, false
}

// AsVecF64 widens 'f' or 'd' array cells to []float64. The 'f' case copies.
func (p Property) AsVecF64() ([]float64, bool) {
	switch v := p.Value.(type) {
	case []float64:
		return v, true
	case []float32:
		out := make([]float64, len(v))
		for i, e := range v {
			out[i] = float64(e)
		}
		return out, true
	}
	return nil, false
}

// PropertyList is the flat property list attached to one node.
type PropertyList struct {
	props []Property
}

// NewPropertyList builds a list from decoded cells. Exposed for tests and
// synthetic event sources.
func NewPropertyList(props ...Property) PropertyList {
	return PropertyList{props: props}
}

func (l *PropertyList) Len() int { return len(l.props) }

// Iter returns a sequential single-pass iterator over the cells.
func (l *PropertyList) Iter() *PropIter {
	return &PropIter{props: l.props}
}

// PropIter iterates over the cells of a PropertyList in order.
type PropIter struct {
	props []Property
	pos   int
}

// Next returns the next cell, or ok=false when the list is exhausted.
func (it *PropIter) Next() (Property, bool) {
	if it.pos >= len(it.props) {
		return Property{}, false
	}
	p := it.props[it.pos]
	it.pos++
	return p, true
}

// Peek returns the next cell without advancing.
func (it *PropIter) Peek() (Property, bool) {
	if it.pos >= len(it.props) {
		return Property{}, false
	}
	return it.props[it.pos], true
}
