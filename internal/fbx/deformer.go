package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
	"fbx-scene-decoder/internal/mathutil"
)

// SkinningType is a skin deformer's blending algorithm.
type SkinningType uint8

const (
	SkinningRigid SkinningType = iota
	SkinningLinear
	SkinningDualQuaternion
	SkinningBlend
)

func parseSkinningType(s string) (SkinningType, bool) {
	switch s {
	case "Rigid":
		return SkinningRigid, true
	case "Linear":
		return SkinningLinear, true
	case "DualQuaternion":
		return SkinningDualQuaternion, true
	case "Blend":
		return SkinningBlend, true
	}
	return 0, false
}

// Skin is one decoded skin deformer.
type Skin struct {
	ID             int64
	Name           string
	DeformAccuracy float64
	SkinningType   SkinningType
}

type skinLoader struct {
	id   int64
	name string

	accuracy *float64
	skinning *SkinningType
}

func (l *skinLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Skin/Version", props, 101)
	case "Link_DeformAcuracy":
		p, ok := props.Iter().Next()
		v, vok := p.AsF64()
		if !ok || !vok {
			logger.Error("cannot get skin deform accuracy", "skin", l.name)
			break
		}
		l.accuracy = &v
	case "SkinningType":
		s, ok := firstString(props)
		if !ok {
			logger.Error("cannot get skinning type", "skin", l.name)
			break
		}
		t, ok := parseSkinningType(s)
		if !ok {
			logger.Error("unknown skinning type", "skin", l.name, "value", s)
			break
		}
		l.skinning = &t
	default:
		logger.Warn("unknown node under skin", "skin", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *skinLoader) Finish() (*Skin, error) {
	if l.accuracy == nil {
		logger.Error("skin missing required field", "skin", l.name, "field", "Link_DeformAcuracy")
		return nil, nil
	}
	if l.skinning == nil {
		logger.Error("skin missing required field", "skin", l.name, "field", "SkinningType")
		return nil, nil
	}
	return &Skin{
		ID:             l.id,
		Name:           l.name,
		DeformAccuracy: *l.accuracy,
		SkinningType:   *l.skinning,
	}, nil
}

// Cluster is one decoded sub-deformer binding control points to a bone.
// Indexes and Weights are always the same length.
type Cluster struct {
	ID            int64
	Name          string
	UserID        string
	UserData      string
	Indexes       []int32
	Weights       []float64
	Transform     mathutil.Mat4
	TransformLink mathutil.Mat4
}

type clusterLoader struct {
	id   int64
	name string

	userID        *string
	userData      *string
	indexes       []int32
	weights       []float64
	transform     *mathutil.Mat4
	transformLink *mathutil.Mat4
}

func (l *clusterLoader) loadMatrix(props *fbxbin.PropertyList, field string) *mathutil.Mat4 {
	flat, ok := firstVecF32(props)
	if !ok {
		logger.Error("cannot get cluster matrix", "cluster", l.name, "field", field)
		return nil
	}
	m, ok := mathutil.Mat4FromSlice(flat)
	if !ok {
		logger.Error("cluster matrix with wrong element count",
			"cluster", l.name, "field", field, "len", len(flat))
		return nil
	}
	return &m
}

func (l *clusterLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("Cluster/Version", props, 100)
	case "UserData":
		it := props.Iter()
		userID, ok1 := nextString(it)
		userData, ok2 := nextString(it)
		if !ok1 || !ok2 {
			logger.Error("cannot get cluster user data", "cluster", l.name)
			break
		}
		l.userID = &userID
		l.userData = &userData
	case "Indexes":
		if v, ok := firstVecI32(props); ok {
			l.indexes = v
		} else {
			logger.Error("cannot get cluster indexes", "cluster", l.name)
		}
	case "Weights":
		if v, ok := firstVecF64(props); ok {
			l.weights = v
		} else {
			logger.Error("cannot get cluster weights", "cluster", l.name)
		}
	case "Transform":
		l.transform = l.loadMatrix(props, "Transform")
	case "TransformLink":
		l.transformLink = l.loadMatrix(props, "TransformLink")
	default:
		logger.Warn("unknown node under cluster", "cluster", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *clusterLoader) Finish() (*Cluster, error) {
	missing := func(field string) (*Cluster, error) {
		logger.Error("cluster missing required field", "cluster", l.name, "field", field)
		return nil, nil
	}
	if l.userID == nil || l.userData == nil {
		return missing("UserData")
	}
	if l.transform == nil {
		return missing("Transform")
	}
	if l.transformLink == nil {
		return missing("TransformLink")
	}
	if len(l.indexes) != len(l.weights) {
		logger.Error("cluster index/weight length mismatch",
			"cluster", l.name, "indexes", len(l.indexes), "weights", len(l.weights))
		return nil, nil
	}
	return &Cluster{
		ID:            l.id,
		Name:          l.name,
		UserID:        *l.userID,
		UserData:      *l.userData,
		Indexes:       l.indexes,
		Weights:       l.weights,
		Transform:     *l.transform,
		TransformLink: *l.transformLink,
	}, nil
}

// BlendShape is one decoded blend-shape deformer. Its channels arrive as
// separate objects wired up through connections.
type BlendShape struct {
	ID   int64
	Name string
}

type blendShapeLoader struct {
	id   int64
	name string
}

func (l *blendShapeLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("BlendShape/Version", props, 100)
	default:
		logger.Warn("unknown node under blend shape", "blendShape", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *blendShapeLoader) Finish() (*BlendShape, error) {
	return &BlendShape{ID: l.id, Name: l.name}, nil
}

// BlendShapeChannel is one decoded morph channel.
type BlendShapeChannel struct {
	ID            int64
	Name          string
	DeformPercent float64
	FullWeights   []float64
}

type blendShapeChannelLoader struct {
	id   int64
	name string

	deformPercent float64
	fullWeights   []float64
}

func (l *blendShapeChannelLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Version":
		checkVersion("BlendShapeChannel/Version", props, 100)
	case "DeformPercent":
		p, ok := props.Iter().Next()
		v, vok := p.AsF64()
		if !ok || !vok {
			logger.Error("cannot get deform percent", "channel", l.name)
			break
		}
		l.deformPercent = v
	case "FullWeights":
		if v, ok := firstVecF64(props); ok {
			l.fullWeights = v
		} else {
			logger.Error("cannot get full weights", "channel", l.name)
		}
	default:
		logger.Warn("unknown node under blend shape channel", "channel", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *blendShapeChannelLoader) Finish() (*BlendShapeChannel, error) {
	if l.fullWeights == nil {
		logger.Error("blend shape channel missing required field",
			"channel", l.name, "field", "FullWeights")
		return nil, nil
	}
	return &BlendShapeChannel{
		ID:            l.id,
		Name:          l.name,
		DeformPercent: l.deformPercent,
		FullWeights:   l.fullWeights,
	}, nil
}
