package fbx

import (
	"sort"

	"fbx-scene-decoder/internal/fbxbin"
)

// ValueKind discriminates PropertyValue variants.
type ValueKind uint8

const (
	KindEmpty ValueKind = iota
	KindBlob
	KindString
	KindF32
	KindF64
	KindI64
	KindVecF32
	KindVecF64
	KindVecI64
)

// PropertyValue is one decoded attribute cell. Immutable once built; the
// numeric accessors widen between the float widths and to int64 but never
// coerce across the int/float divide.
type PropertyValue struct {
	kind   ValueKind
	blob   []byte
	str    string
	strOK  bool // str is valid UTF-8
	f32    float32
	f64    float64
	i64    int64
	vecF32 []float32
	vecF64 []float64
	vecI64 []int64
}

func emptyValue() PropertyValue           { return PropertyValue{kind: KindEmpty} }
func blobValue(b []byte) PropertyValue    { return PropertyValue{kind: KindBlob, blob: b} }
func f32Value(v float32) PropertyValue    { return PropertyValue{kind: KindF32, f32: v} }
func f64Value(v float64) PropertyValue    { return PropertyValue{kind: KindF64, f64: v} }
func i64Value(v int64) PropertyValue      { return PropertyValue{kind: KindI64, i64: v} }
func vecF32Value(v []float32) PropertyValue { return PropertyValue{kind: KindVecF32, vecF32: v} }
func vecF64Value(v []float64) PropertyValue { return PropertyValue{kind: KindVecF64, vecF64: v} }
func vecI64Value(v []int64) PropertyValue   { return PropertyValue{kind: KindVecI64, vecI64: v} }

func stringValue(s string, utf8OK bool) PropertyValue {
	return PropertyValue{kind: KindString, str: s, strOK: utf8OK}
}

func (v PropertyValue) Kind() ValueKind { return v.kind }

// GetBlob returns the binary payload of a Blob value.
func (v PropertyValue) GetBlob() ([]byte, bool) {
	if v.kind != KindBlob {
		return nil, false
	}
	return v.blob, true
}

// GetString returns the text of a String value when it is valid UTF-8.
func (v PropertyValue) GetString() (string, bool) {
	if v.kind != KindString || !v.strOK {
		return "", false
	}
	return v.str, true
}

// GetRawString returns the bytes of a String value regardless of encoding.
func (v PropertyValue) GetRawString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// GetF32 returns a float value widened or narrowed to float32.
func (v PropertyValue) GetF32() (float32, bool) {
	switch v.kind {
	case KindF32:
		return v.f32, true
	case KindF64:
		return float32(v.f64), true
	}
	return 0, false
}

// GetF64 returns a float value widened to float64.
func (v PropertyValue) GetF64() (float64, bool) {
	switch v.kind {
	case KindF32:
		return float64(v.f32), true
	case KindF64:
		return v.f64, true
	}
	return 0, false
}

// GetI64 returns an integer value.
func (v PropertyValue) GetI64() (int64, bool) {
	if v.kind != KindI64 {
		return 0, false
	}
	return v.i64, true
}

// GetVecF32 returns a float vector as float32 elements, converting a
// float64 vector by copy.
func (v PropertyValue) GetVecF32() ([]float32, bool) {
	switch v.kind {
	case KindVecF32:
		return v.vecF32, true
	case KindVecF64:
		out := make([]float32, len(v.vecF64))
		for i, e := range v.vecF64 {
			out[i] = float32(e)
		}
		return out, true
	}
	return nil, false
}

// GetVecF64 returns a float vector as float64 elements, converting a
// float32 vector by copy.
func (v PropertyValue) GetVecF64() ([]float64, bool) {
	switch v.kind {
	case KindVecF64:
		return v.vecF64, true
	case KindVecF32:
		out := make([]float64, len(v.vecF32))
		for i, e := range v.vecF32 {
			out[i] = float64(e)
		}
		return out, true
	}
	return nil, false
}

// GetVecI64 returns an integer vector.
func (v PropertyValue) GetVecI64() ([]int64, bool) {
	if v.kind != KindVecI64 {
		return nil, false
	}
	return v.vecI64, true
}

// PropertyRecord is one named attribute of a Properties70 block.
type PropertyRecord struct {
	TypeName string
	Label    string
	Flags    PropertyFlags
	Value    PropertyValue
}

// PropertyMap maps attribute names to records. At most one record per name;
// a later duplicate overwrites.
type PropertyMap struct {
	records map[string]*PropertyRecord
}

// NewPropertyMap returns an empty map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{records: make(map[string]*PropertyRecord)}
}

func (m *PropertyMap) insert(name string, rec *PropertyRecord) {
	m.records[name] = rec
}

// Get returns the record for name, or nil.
func (m *PropertyMap) Get(name string) *PropertyRecord {
	if m == nil {
		return nil
	}
	return m.records[name]
}

// Len returns the number of records.
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.records)
}

// Names returns all attribute names in sorted order.
func (m *PropertyMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.records))
	for n := range m.records {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetOrDefault resolves name against the instance map first, then the
// template defaults. Either side may be nil. Returns nil when neither has
// the attribute.
func (m *PropertyMap) GetOrDefault(defaults *PropertyMap, name string) *PropertyRecord {
	if rec := m.Get(name); rec != nil {
		return rec
	}
	return defaults.Get(name)
}

// propertiesLoader decodes a Properties70 block into a PropertyMap.
type propertiesLoader struct {
	props *PropertyMap
}

// The version argument tracks the Properties70 naming convention; the
// record layout is the same for every version seen in the wild.
func newPropertiesLoader(version int32) *propertiesLoader {
	return &propertiesLoader{props: NewPropertyMap()}
}

func (l *propertiesLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	if name != "P" {
		logger.Error("unknown property node", "name", name)
		return SkipNode(r)
	}
	it := props.Iter()
	propName, ok := nextString(it)
	if !ok {
		logger.Error("cannot get property name")
		return SkipNode(r)
	}
	rl := newPropertyRecordLoader(it)
	if rl == nil {
		return SkipNode(r)
	}
	rec, err := LoadNode(r, rl)
	if err != nil {
		return err
	}
	if rec != nil {
		l.props.insert(propName, rec)
	}
	return nil
}

func (l *propertiesLoader) Finish() (*PropertyMap, error) {
	return l.props, nil
}

// maxBlobPrealloc caps the capacity reserved from a blob record's declared
// length before any payload bytes have been seen.
const maxBlobPrealloc = 1 << 20

// propertyRecordLoader decodes one P node: three leading identification
// cells (type name, label, flag string), then value cells. The "Blob" label
// declares a byte length up front and collects the payload from BinaryData
// child nodes, possibly split across several of them.
type propertyRecordLoader struct {
	typeName string
	label    string
	flags    PropertyFlags
	value    *PropertyValue // nil: record dropped
}

func newPropertyRecordLoader(it *fbxbin.PropIter) *propertyRecordLoader {
	typeName, ok := nextString(it)
	if !ok {
		logger.Error("cannot get property record type name")
		return nil
	}
	label, ok := nextString(it)
	if !ok {
		logger.Error("cannot get property record label")
		return nil
	}
	flagStr, ok := nextString(it)
	if !ok {
		logger.Error("cannot get property record flags")
		return nil
	}
	l := &propertyRecordLoader{
		typeName: typeName,
		label:    label,
		flags:    ParsePropertyFlags(flagStr),
	}
	if label == "Blob" {
		length, ok := it.Next()
		n, nok := length.AsI64()
		if !ok || !nok {
			logger.Error("cannot get length of a blob property record")
			return nil
		}
		if n < 0 {
			logger.Error("negative blob property length", "len", n)
			return nil
		}
		// The declared length is only a pre-size hint; the payload arrives
		// in BinaryData children and grows by append, so an oversized claim
		// must not reserve memory up front.
		if n > maxBlobPrealloc {
			n = maxBlobPrealloc
		}
		v := blobValue(make([]byte, 0, n))
		l.value = &v
		return l
	}
	l.value = decodeRecordValue(it)
	return l
}

// decodeRecordValue shapes the record from its leading value cell: the first
// integer or float cell pulls in every immediately-following coercible cell
// and yields a scalar or a vector depending on count; a lone string cell
// yields Text; no cell at all yields Empty; anything else drops the record.
func decodeRecordValue(it *fbxbin.PropIter) *PropertyValue {
	first, ok := it.Next()
	if !ok {
		v := emptyValue()
		return &v
	}
	switch first.Type {
	case 'Y', 'I', 'L':
		head, _ := first.AsI64()
		vec := []int64{head}
		for {
			p, ok := it.Peek()
			if !ok {
				break
			}
			n, ok := p.AsI64()
			if !ok {
				break
			}
			it.Next()
			vec = append(vec, n)
		}
		var v PropertyValue
		if len(vec) == 1 {
			v = i64Value(head)
		} else {
			v = vecI64Value(vec)
		}
		return &v
	case 'F':
		head, _ := first.GetF32()
		vec := []float32{head}
		for {
			p, ok := it.Peek()
			if !ok {
				break
			}
			n, ok := p.AsF32()
			if !ok {
				break
			}
			it.Next()
			vec = append(vec, n)
		}
		var v PropertyValue
		if len(vec) == 1 {
			v = f32Value(head)
		} else {
			v = vecF32Value(vec)
		}
		return &v
	case 'D':
		head, _ := first.AsF64()
		vec := []float64{head}
		for {
			p, ok := it.Peek()
			if !ok {
				break
			}
			n, ok := p.AsF64()
			if !ok {
				break
			}
			it.Next()
			vec = append(vec, n)
		}
		var v PropertyValue
		if len(vec) == 1 {
			v = f64Value(head)
		} else {
			v = vecF64Value(vec)
		}
		return &v
	case 'S':
		s, utf8OK, _ := first.GetStringOrRaw()
		v := stringValue(s, utf8OK)
		return &v
	}
	// bool, nested vectors and the like do not occur as record values.
	logger.Error("unsupported property record value cell", "type", string(first.Type))
	return nil
}

func (l *propertyRecordLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	if l.typeName == "Blob" {
		switch name {
		case "BinaryData":
			p, ok := props.Iter().Next()
			data, dok := p.GetBinary()
			if ok && dok {
				if l.value != nil && l.value.kind == KindBlob {
					l.value.blob = append(l.value.blob, data...)
				}
			} else {
				logger.Error("cannot get binary data from P/BinaryData")
			}
		default:
			logger.Warn("unknown node under blob property", "name", name)
		}
	} else {
		logger.Warn("unnecessary child node under property record", "name", name)
	}
	return SkipNode(r)
}

func (l *propertyRecordLoader) Finish() (*PropertyRecord, error) {
	if l.value == nil {
		return nil, nil
	}
	return &PropertyRecord{
		TypeName: l.typeName,
		Label:    l.label,
		Flags:    l.flags,
		Value:    *l.value,
	}, nil
}
