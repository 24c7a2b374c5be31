package fbx

import (
	"fbx-scene-decoder/internal/fbxbin"
	"fbx-scene-decoder/internal/mathutil"
)

// PoseNode is one bind-pose entry: a model id and its world matrix.
type PoseNode struct {
	Node   int64
	Matrix mathutil.Mat4
}

// Pose is one decoded bind pose. A declared-count/decoded-count mismatch is
// logged but the pose is still emitted with whatever nodes decoded.
type Pose struct {
	ID    int64
	Name  string
	Nodes []PoseNode
}

type poseLoader struct {
	id   int64
	name string

	declared *int32
	nodes    []PoseNode
}

func (l *poseLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Type":
		if s, ok := firstString(props); !ok || s != "BindPose" {
			logger.Warn("unexpected pose type", "pose", l.name, "type", s)
		}
	case "Version":
		checkVersion("Pose/Version", props, 100)
	case "NbPoseNodes":
		if n, ok := firstI32(props); ok {
			l.declared = &n
		} else {
			logger.Error("cannot get pose node count", "pose", l.name)
		}
	case "PoseNode":
		node, err := LoadNode(r, &poseNodeLoader{pose: l.name})
		if err != nil {
			return err
		}
		if node != nil {
			l.nodes = append(l.nodes, *node)
		}
		return nil
	default:
		logger.Warn("unknown node under pose", "pose", l.name, "name", name)
	}
	return SkipNode(r)
}

func (l *poseLoader) Finish() (*Pose, error) {
	if l.declared == nil {
		logger.Error("pose missing required field", "pose", l.name, "field", "NbPoseNodes")
		return nil, nil
	}
	if int(*l.declared) != len(l.nodes) {
		logger.Warn("pose node count mismatch",
			"pose", l.name, "declared", *l.declared, "decoded", len(l.nodes))
	}
	return &Pose{ID: l.id, Name: l.name, Nodes: l.nodes}, nil
}

type poseNodeLoader struct {
	pose string

	node   *int64
	matrix *mathutil.Mat4
}

func (l *poseNodeLoader) LoadChild(r Reader, name string, props *fbxbin.PropertyList) error {
	switch name {
	case "Node":
		if n, ok := firstI64(props); ok {
			l.node = &n
		} else {
			logger.Error("cannot get pose node id", "pose", l.pose)
		}
	case "Matrix":
		flat, ok := firstVecF32(props)
		if !ok {
			logger.Error("cannot get pose node matrix", "pose", l.pose)
			break
		}
		m, ok := mathutil.Mat4FromSlice(flat)
		if !ok {
			logger.Error("pose node matrix with wrong element count",
				"pose", l.pose, "len", len(flat))
			break
		}
		l.matrix = &m
	default:
		logger.Warn("unknown node under pose node", "pose", l.pose, "name", name)
	}
	return SkipNode(r)
}

func (l *poseNodeLoader) Finish() (*PoseNode, error) {
	if l.node == nil || l.matrix == nil {
		logger.Error("pose node missing id or matrix", "pose", l.pose)
		return nil, nil
	}
	return &PoseNode{Node: *l.node, Matrix: *l.matrix}, nil
}
