package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
)

// HeaderExtension carries the identification fields of the
// FBXHeaderExtension section. Its presence is mandatory; its content is
// informational.
type HeaderExtension struct {
	Version    int32
	FBXVersion int32
	Creator    string
}

type headerLoader struct {
	header HeaderExtension
}

func (l *headerLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "FBXHeaderVersion":
		if n, ok := firstI32(props); ok {
			l.header.Version = n
		}
	case "FBXVersion":
		if n, ok := firstI32(props); ok {
			l.header.FBXVersion = n
		}
	case "Creator":
		if s, ok := firstString(props); ok {
			l.header.Creator = s
		}
	default:
		// CreationTimeStamp, SceneInfo and the rest are not consumed.
	}
	return SkipNode(r)
}

func (l *headerLoader) Finish() (HeaderExtension, error) {
	return l.header, nil
}
