package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NewNode returns a node with the glTF default transform: identity matrix, zero translation,
// identity rotation and unit scale, and no skin.
//
// Parameters:
//   - id: the node's arena handle
//
// Returns:
//   - *Node: the initialized node
func NewNode(id NodeID) *Node {
	return &Node{
		ID:          id,
		SkinIndex:   -1,
		Matrix:      mgl32.Ident4(),
		Translation: mgl32.Vec3{},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// LocalTransform returns the node's transform relative to its parent.
// When the asset supplied a matrix it is returned as-is; otherwise the matrix is composed as T * R * S.
func (n *Node) LocalTransform() mgl32.Mat4 {
	if n.HasMatrix {
		return n.Matrix
	}
	t := mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// HasSkin reports whether the node is bound to a skin.
func (n *Node) HasSkin() bool {
	return n.Skin != nil
}

// HasMesh reports whether the node instantiates a mesh.
func (n *Node) HasMesh() bool {
	return n.Mesh != nil
}
