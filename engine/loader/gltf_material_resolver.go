package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// glTF material defaults.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material
const (
	defaultAlphaCutoff  float32 = 0.5
	defaultTextureScale float32 = 1
	defaultMetallic     float32 = 1
	defaultRoughness    float32 = 1
	defaultGlossiness   float32 = 1
	defaultWrap                 = model.WrapRepeat
)

// --- Stage 5: Samplers, Images, Textures ---

func (r *gltfResolverImpl) resolveSamplers() error {
	r.graph.Samplers = make([]*model.TextureSampler, len(r.doc.Samplers))
	for i, s := range r.doc.Samplers {
		r.graph.Samplers[i] = &model.TextureSampler{
			Index:     i,
			Name:      s.Name,
			WrapS:     common.Deref(s.WrapS, defaultWrap),
			WrapT:     common.Deref(s.WrapT, defaultWrap),
			MagFilter: s.MagFilter,
			MinFilter: s.MinFilter,
		}
	}
	return nil
}

func (r *gltfResolverImpl) resolveImages() error {
	r.graph.Images = make([]*model.Image, len(r.doc.Images))
	for i, im := range r.doc.Images {
		img := &model.Image{Index: i, Name: im.Name, URI: im.URI}

		switch {
		case im.BufferView != nil:
			if err := r.resolveBufferViewImage(i, im, img); err != nil {
				return err
			}
		case im.URI != "" && isDataURI(im.URI):
			data, err := r.resources.Resolve(im.URI)
			if err != nil {
				return fmt.Errorf("images[%d]: %w", i, err)
			}
			mt, err := model.DetectMimeType(data)
			if err != nil {
				return fmt.Errorf("images[%d]: %w", i, err)
			}
			if im.MimeType != "" && im.MimeType != mt.String() {
				return fmt.Errorf("images[%d]: declared %s but data is %s: %w", i, im.MimeType, mt, common.ErrUnsupportedFormat)
			}
			img.Data = data
			img.MimeType = mt
		case im.URI != "":
			if err := r.resources.Exists(im.URI); err != nil {
				return fmt.Errorf("images[%d]: %w", i, err)
			}
			img.Path = r.resources.Path(im.URI)
		default:
			return missingField("images", i, "uri or bufferView")
		}

		r.graph.Images[i] = img
	}
	return nil
}

// resolveBufferViewImage links an embedded image and verifies its bytes carry the declared signature.
func (r *gltfResolverImpl) resolveBufferViewImage(i int, im gltfImage, img *model.Image) error {
	if !common.InBounds(*im.BufferView, len(r.graph.BufferViews)) {
		return danglingReference("images", i, "bufferView", *im.BufferView)
	}
	if im.MimeType == "" {
		return missingField("images", i, "mimeType")
	}
	mt, err := model.ParseMimeType(im.MimeType)
	if err != nil {
		return fmt.Errorf("images[%d]: %w", i, err)
	}

	img.BufferView = r.graph.BufferViews[*im.BufferView]
	data, err := img.BufferView.Bytes()
	if err != nil {
		return fmt.Errorf("images[%d]: %w", i, err)
	}
	if !mt.Matches(data) {
		return fmt.Errorf("images[%d]: bufferView %d does not hold %s data: %w", i, *im.BufferView, mt, common.ErrUnsupportedFormat)
	}
	img.MimeType = mt
	return nil
}

func (r *gltfResolverImpl) resolveTextures() error {
	r.graph.Textures = make([]*model.Texture, len(r.doc.Textures))
	for i, t := range r.doc.Textures {
		tex := &model.Texture{Index: i, Name: t.Name}

		if t.Sampler != nil {
			if !common.InBounds(*t.Sampler, len(r.graph.Samplers)) {
				return danglingReference("textures", i, "sampler", *t.Sampler)
			}
			tex.Sampler = r.graph.Samplers[*t.Sampler]
		}

		if t.Source == nil {
			return missingField("textures", i, "source")
		}
		if !common.InBounds(*t.Source, len(r.graph.Images)) {
			return danglingReference("textures", i, "source", *t.Source)
		}
		tex.Source = r.graph.Images[*t.Source]

		r.graph.Textures[i] = tex
	}
	return nil
}

// --- Stage 6: Materials ---

func (r *gltfResolverImpl) resolveMaterials() error {
	r.graph.Materials = make([]*model.Material, len(r.doc.Materials))
	for i, m := range r.doc.Materials {
		mat := &model.Material{
			Index:           i,
			Name:            m.Name,
			BaseColorFactor: mgl32.Vec4{1, 1, 1, 1},
			MetallicFactor:  defaultMetallic,
			RoughnessFactor: defaultRoughness,
			AlphaCutoff:     common.Deref(m.AlphaCutoff, defaultAlphaCutoff),
			DoubleSided:     m.DoubleSided,
		}

		alphaMode, err := model.ParseAlphaMode(m.AlphaMode)
		if err != nil {
			return fmt.Errorf("materials[%d]: %w", i, err)
		}
		mat.AlphaMode = alphaMode

		if m.EmissiveFactor != nil {
			mat.EmissiveFactor = mgl32.Vec3(*m.EmissiveFactor)
		}

		if pbr := m.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColorFactor = mgl32.Vec4(*pbr.BaseColorFactor)
			}
			mat.MetallicFactor = common.Deref(pbr.MetallicFactor, defaultMetallic)
			mat.RoughnessFactor = common.Deref(pbr.RoughnessFactor, defaultRoughness)

			if mat.BaseColorTexture, err = r.textureRef(i, "baseColorTexture", pbr.BaseColorTexture, nil); err != nil {
				return err
			}
			if mat.MetallicRoughnessTexture, err = r.textureRef(i, "metallicRoughnessTexture", pbr.MetallicRoughnessTexture, nil); err != nil {
				return err
			}
		}

		if n := m.NormalTexture; n != nil {
			if mat.NormalTexture, err = r.textureRef(i, "normalTexture", &n.gltfTextureInfo, n.Scale); err != nil {
				return err
			}
		}
		if o := m.OcclusionTexture; o != nil {
			if mat.OcclusionTexture, err = r.textureRef(i, "occlusionTexture", &o.gltfTextureInfo, o.Strength); err != nil {
				return err
			}
		}
		if mat.EmissiveTexture, err = r.textureRef(i, "emissiveTexture", m.EmissiveTexture, nil); err != nil {
			return err
		}

		if m.Extensions != nil && m.Extensions.PbrSpecularGlossiness != nil {
			if mat.SpecularGlossiness, err = r.specularGlossiness(i, m.Extensions.PbrSpecularGlossiness); err != nil {
				return err
			}
		}

		r.graph.Materials[i] = mat
	}

	r.logger.Debug("resolved materials",
		slog.Int("samplers", len(r.graph.Samplers)),
		slog.Int("images", len(r.graph.Images)),
		slog.Int("textures", len(r.graph.Textures)),
		slog.Int("materials", len(r.graph.Materials)))
	return nil
}

// specularGlossiness resolves the KHR_materials_pbrSpecularGlossiness block of materials[i].
// Reference: https://github.com/KhronosGroup/glTF/tree/main/extensions/2.0/Archived/KHR_materials_pbrSpecularGlossiness
func (r *gltfResolverImpl) specularGlossiness(i int, sg *gltfPbrSpecularGlossiness) (*model.SpecularGlossiness, error) {
	out := &model.SpecularGlossiness{
		DiffuseFactor:    mgl32.Vec4{1, 1, 1, 1},
		SpecularFactor:   mgl32.Vec3{1, 1, 1},
		GlossinessFactor: common.Deref(sg.GlossinessFactor, defaultGlossiness),
	}
	if sg.DiffuseFactor != nil {
		out.DiffuseFactor = mgl32.Vec4(*sg.DiffuseFactor)
	}
	if sg.SpecularFactor != nil {
		out.SpecularFactor = mgl32.Vec3(*sg.SpecularFactor)
	}

	var err error
	if out.DiffuseTexture, err = r.textureRef(i, "KHR_materials_pbrSpecularGlossiness.diffuseTexture", sg.DiffuseTexture, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// textureRef resolves an optional texture reference of materials[i]. A nil info yields a nil reference.
func (r *gltfResolverImpl) textureRef(i int, field string, info *gltfTextureInfo, scale *float32) (*model.TextureRef, error) {
	if info == nil {
		return nil, nil
	}
	if info.Index == nil {
		return nil, missingField("materials", i, field+".index")
	}
	if !common.InBounds(*info.Index, len(r.graph.Textures)) {
		return nil, danglingReference("materials", i, field, *info.Index)
	}
	return &model.TextureRef{
		Texture:  r.graph.Textures[*info.Index],
		TexCoord: info.TexCoord,
		Scale:    common.Deref(scale, defaultTextureScale),
	}, nil
}
