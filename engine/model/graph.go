// Package model contains the resolved glTF scene description: entity types, the closed type registries and
// graph traversal helpers. A Graph is built once by the loader and is read-only afterwards.
package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Graph is the root of a resolved glTF document. Every entity is owned by exactly one of its slices;
// all cross-entity fields are shared, non-owning references.
type Graph struct {
	Asset Asset

	// ExtensionsUsed and ExtensionsRequired are recorded as declared, not interpreted.
	ExtensionsUsed     []string
	ExtensionsRequired []string

	Buffers     []*Buffer
	BufferViews []*BufferView
	Accessors   []*Accessor
	Samplers    []*TextureSampler
	Images      []*Image
	Textures    []*Texture
	Materials   []*Material
	Meshes      []*Mesh

	// Nodes is the node arena; NodeID values index into it.
	Nodes []*Node

	Skins      []*Skin
	Scenes     []*Scene
	Animations []*Animation

	// DefaultScene is the index of the document's "scene", or -1 when absent.
	DefaultScene int
}

// Node returns the node with the given handle, or nil if id is out of range.
//
// Parameters:
//   - id: the node handle
//
// Returns:
//   - *Node: the node or nil
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.Nodes) {
		return nil
	}
	return g.Nodes[id]
}

// Children returns the child nodes of n in declaration order.
func (g *Graph) Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		if c := g.Node(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// SceneRoots returns the root nodes of the scene at index i, or nil if i is out of range.
//
// Parameters:
//   - i: the scene index
//
// Returns:
//   - []*Node: the scene's root nodes
func (g *Graph) SceneRoots(i int) []*Node {
	if i < 0 || i >= len(g.Scenes) {
		return nil
	}
	roots := make([]*Node, 0, len(g.Scenes[i].Nodes))
	for _, id := range g.Scenes[i].Nodes {
		if n := g.Node(id); n != nil {
			roots = append(roots, n)
		}
	}
	return roots
}

// Walk visits the subtree rooted at id depth-first, parents before children.
// fn receives each node and its depth (0 for the root); returning false skips that node's children.
// A node reached twice on the same path is not revisited, so malformed cyclic hierarchies terminate.
//
// Parameters:
//   - id: the subtree root
//   - fn: the visitor
func (g *Graph) Walk(id NodeID, fn func(n *Node, depth int) bool) {
	onPath := make(map[NodeID]bool)
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		n := g.Node(id)
		if n == nil || onPath[id] {
			return
		}
		if !fn(n, depth) {
			return
		}
		onPath[id] = true
		for _, c := range n.Children {
			visit(c, depth+1)
		}
		delete(onPath, id)
	}
	visit(id, 0)
}

// Parents returns the parent handle of every node, indexed by NodeID; roots map to -1.
// If a malformed document lists a node as a child of several parents, the first parent in arena order wins.
func (g *Graph) Parents() []NodeID {
	parents := make([]NodeID, len(g.Nodes))
	for i := range parents {
		parents[i] = -1
	}
	for _, n := range g.Nodes {
		for _, c := range n.Children {
			if g.Node(c) != nil && parents[c] < 0 && c != n.ID {
				parents[c] = n.ID
			}
		}
	}
	return parents
}

// WorldTransforms composes local transforms down the hierarchy of scene i, parents before children.
// Nodes not reachable from the scene keep the identity matrix.
//
// Parameters:
//   - i: the scene index
//
// Returns:
//   - []mgl32.Mat4: one world matrix per node, indexed by NodeID
func (g *Graph) WorldTransforms(i int) []mgl32.Mat4 {
	world := make([]mgl32.Mat4, len(g.Nodes))
	for n := range world {
		world[n] = mgl32.Ident4()
	}
	if i < 0 || i >= len(g.Scenes) {
		return world
	}

	for _, root := range g.Scenes[i].Nodes {
		var stack []mgl32.Mat4
		g.Walk(root, func(n *Node, depth int) bool {
			stack = stack[:depth]
			parent := mgl32.Ident4()
			if depth > 0 {
				parent = stack[depth-1]
			}
			world[n.ID] = parent.Mul4(n.LocalTransform())
			stack = append(stack, world[n.ID])
			return true
		})
	}
	return world
}
