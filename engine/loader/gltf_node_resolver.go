package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/decoder"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// --- Stage 8: Nodes ---

// resolveNodes builds the node arena in two passes: every node's own fields first, then child handles,
// since children may refer forward to nodes not yet built.
func (r *gltfResolverImpl) resolveNodes() error {
	r.graph.Nodes = make([]*model.Node, len(r.doc.Nodes))
	for i, n := range r.doc.Nodes {
		node, err := r.buildNode(i, n)
		if err != nil {
			return err
		}
		r.graph.Nodes[i] = node
	}

	for i, n := range r.doc.Nodes {
		if len(n.Children) == 0 {
			continue
		}
		children := make([]model.NodeID, len(n.Children))
		for c, child := range n.Children {
			id, err := r.nodeID("nodes", i, "children", child)
			if err != nil {
				return err
			}
			children[c] = id
		}
		r.graph.Nodes[i].Children = children
	}

	r.logger.Debug("resolved nodes", slog.Int("count", len(r.graph.Nodes)))
	return nil
}

// buildNode is pass 1 for nodes[i]: name, mesh, skin index, transform and weights.
func (r *gltfResolverImpl) buildNode(i int, n gltfNode) (*model.Node, error) {
	node := model.NewNode(model.NodeID(i))
	node.Name = n.Name
	node.Weights = n.Weights

	if n.Mesh != nil {
		if !common.InBounds(*n.Mesh, len(r.graph.Meshes)) {
			return nil, danglingReference("nodes", i, "mesh", *n.Mesh)
		}
		node.Mesh = r.graph.Meshes[*n.Mesh]
	}
	if n.Skin != nil {
		node.SkinIndex = *n.Skin
	}

	if n.Matrix != nil {
		if len(n.Matrix) != 16 {
			return nil, transformLengthError(i, "matrix", len(n.Matrix), 16)
		}
		node.HasMatrix = true
		copy(node.Matrix[:], n.Matrix)
	}
	if n.Translation != nil {
		if len(n.Translation) != 3 {
			return nil, transformLengthError(i, "translation", len(n.Translation), 3)
		}
		node.Translation = mgl32.Vec3{n.Translation[0], n.Translation[1], n.Translation[2]}
	}
	if n.Rotation != nil {
		if len(n.Rotation) != 4 {
			return nil, transformLengthError(i, "rotation", len(n.Rotation), 4)
		}
		// glTF stores quaternions as (x, y, z, w).
		node.Rotation = mgl32.Quat{W: n.Rotation[3], V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}
	}
	if n.Scale != nil {
		if len(n.Scale) != 3 {
			return nil, transformLengthError(i, "scale", len(n.Scale), 3)
		}
		node.Scale = mgl32.Vec3{n.Scale[0], n.Scale[1], n.Scale[2]}
	}
	return node, nil
}

func transformLengthError(i int, field string, got, want int) error {
	return fmt.Errorf("nodes[%d]: %s has %d values, want %d: %w", i, field, got, want, common.ErrUnsupportedFormat)
}

// --- Stage 9: Skins ---

func (r *gltfResolverImpl) resolveSkins() error {
	r.graph.Skins = make([]*model.Skin, len(r.doc.Skins))
	for i, s := range r.doc.Skins {
		if len(s.Joints) == 0 {
			return missingField("skins", i, "joints")
		}

		skin := &model.Skin{
			Index:  i,
			Name:   s.Name,
			Joints: make([]model.NodeID, len(s.Joints)),
		}
		for j, joint := range s.Joints {
			id, err := r.nodeID("skins", i, "joints", joint)
			if err != nil {
				return err
			}
			skin.Joints[j] = id
		}

		if s.Skeleton != nil {
			id, err := r.nodeID("skins", i, "skeleton", *s.Skeleton)
			if err != nil {
				return err
			}
			skin.Skeleton = id
			skin.HasSkeleton = true
		}

		if s.InverseBindMatrices != nil {
			matrices, err := r.inverseBindMatrices(i, *s.InverseBindMatrices, len(s.Joints))
			if err != nil {
				return err
			}
			skin.InverseBindMatrices = matrices
		}

		r.graph.Skins[i] = skin
	}
	return nil
}

// inverseBindMatrices eagerly decodes the inverse bind matrices of skins[i].
func (r *gltfResolverImpl) inverseBindMatrices(i, index, joints int) ([]mgl32.Mat4, error) {
	acc, err := r.accessor("skins", i, "inverseBindMatrices", index)
	if err != nil {
		return nil, err
	}
	if acc.Count < joints {
		return nil, fmt.Errorf("skins[%d]: inverseBindMatrices holds %d matrices for %d joints: %w", i, acc.Count, joints, common.ErrInvalidAccessor)
	}
	matrices, err := decoder.DecodeMat4(acc)
	if err != nil {
		return nil, fmt.Errorf("skins[%d]: inverseBindMatrices: %w", i, err)
	}
	return matrices, nil
}

// --- Stage 10: Scenes ---

func (r *gltfResolverImpl) resolveScenes() error {
	r.graph.Scenes = make([]*model.Scene, len(r.doc.Scenes))
	for i, s := range r.doc.Scenes {
		scene := &model.Scene{
			Index: i,
			Name:  s.Name,
			Nodes: make([]model.NodeID, len(s.Nodes)),
		}
		for n, root := range s.Nodes {
			id, err := r.nodeID("scenes", i, "nodes", root)
			if err != nil {
				return err
			}
			scene.Nodes[n] = id
		}
		r.graph.Scenes[i] = scene
	}

	if r.doc.Scene != nil {
		if !common.InBounds(*r.doc.Scene, len(r.graph.Scenes)) {
			return fmt.Errorf("scene %d: %w", *r.doc.Scene, common.ErrDanglingReference)
		}
		r.graph.DefaultScene = *r.doc.Scene
	}
	return nil
}

// --- Stage 12: Node → Skin cross-link ---

// linkNodeSkins points each skinned node at its Skin, once all skins exist.
func (r *gltfResolverImpl) linkNodeSkins() error {
	for i, node := range r.graph.Nodes {
		if node.SkinIndex < 0 {
			continue
		}
		if !common.InBounds(node.SkinIndex, len(r.graph.Skins)) {
			return danglingReference("nodes", i, "skin", node.SkinIndex)
		}
		node.Skin = r.graph.Skins[node.SkinIndex]
	}
	return nil
}
