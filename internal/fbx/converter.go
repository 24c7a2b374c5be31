package fbx

// Converter turns the embedded content bytes of a Video object into an
// image result. The decode is generic over the result type and never
// inspects it; a converter signals its own failures inside I.
type Converter[I any] interface {
	Convert(data []byte, filename string) I
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc[I any] func(data []byte, filename string) I

func (f ConverterFunc[I]) Convert(data []byte, filename string) I {
	return f(data, filename)
}
