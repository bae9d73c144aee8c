package loader

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// defaultPrimitiveMode is TRIANGLES.
const defaultPrimitiveMode = int(model.PrimitiveModeTriangles)

// --- Stage 7: Meshes ---

func (r *gltfResolverImpl) resolveMeshes() error {
	r.graph.Meshes = make([]*model.Mesh, len(r.doc.Meshes))
	primitives := 0
	for i, m := range r.doc.Meshes {
		if len(m.Primitives) == 0 {
			return missingField("meshes", i, "primitives")
		}

		mesh := &model.Mesh{
			Index:      i,
			Name:       m.Name,
			Primitives: make([]*model.Primitive, len(m.Primitives)),
			Weights:    m.Weights,
		}
		for p, prim := range m.Primitives {
			resolved, err := r.resolvePrimitive(prim)
			if err != nil {
				return fmt.Errorf("meshes[%d]: primitives[%d]: %w", i, p, err)
			}
			mesh.Primitives[p] = resolved
		}
		primitives += len(mesh.Primitives)

		r.graph.Meshes[i] = mesh
	}

	r.logger.Debug("resolved meshes", slog.Int("meshes", len(r.graph.Meshes)), slog.Int("primitives", primitives))
	return nil
}

// resolvePrimitive links one primitive. Errors carry the primitive-relative field only; the caller adds the mesh path.
func (r *gltfResolverImpl) resolvePrimitive(prim gltfPrimitive) (*model.Primitive, error) {
	if len(prim.Attributes) == 0 {
		return nil, fmt.Errorf("attributes: %w", common.ErrMissingField)
	}

	attributes, err := r.attributeMap("attributes", prim.Attributes)
	if err != nil {
		return nil, err
	}
	out := &model.Primitive{Attributes: attributes}

	if prim.Indices != nil {
		if !common.InBounds(*prim.Indices, len(r.graph.Accessors)) {
			return nil, fmt.Errorf("indices %d: %w", *prim.Indices, common.ErrDanglingReference)
		}
		out.Indices = r.graph.Accessors[*prim.Indices]
	}

	if prim.Material != nil {
		if !common.InBounds(*prim.Material, len(r.graph.Materials)) {
			return nil, fmt.Errorf("material %d: %w", *prim.Material, common.ErrDanglingReference)
		}
		out.Material = r.graph.Materials[*prim.Material]
	}

	mode, err := model.ParsePrimitiveMode(common.Deref(prim.Mode, defaultPrimitiveMode))
	if err != nil {
		return nil, err
	}
	out.Mode = mode

	if len(prim.Targets) > 0 {
		out.Targets = make([]map[string]*model.Accessor, len(prim.Targets))
		for t, target := range prim.Targets {
			resolved, err := r.attributeMap(fmt.Sprintf("targets[%d]", t), target)
			if err != nil {
				return nil, err
			}
			out.Targets[t] = resolved
		}
	}
	return out, nil
}

// attributeMap resolves a semantic → accessor index map. Semantics are visited in sorted order so that
// the reported error is deterministic.
func (r *gltfResolverImpl) attributeMap(field string, indices map[string]int) (map[string]*model.Accessor, error) {
	semantics := make([]string, 0, len(indices))
	for semantic := range indices {
		semantics = append(semantics, semantic)
	}
	sort.Strings(semantics)

	out := make(map[string]*model.Accessor, len(indices))
	for _, semantic := range semantics {
		index := indices[semantic]
		if !common.InBounds(index, len(r.graph.Accessors)) {
			return nil, fmt.Errorf("%s.%s %d: %w", field, semantic, index, common.ErrDanglingReference)
		}
		out[semantic] = r.graph.Accessors[index]
	}
	return out, nil
}
