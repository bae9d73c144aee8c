package loader

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// --- Stage 11: Animations ---

func (r *gltfResolverImpl) resolveAnimations() error {
	r.graph.Animations = make([]*model.Animation, len(r.doc.Animations))
	for i, a := range r.doc.Animations {
		anim := &model.Animation{
			Index:    i,
			Name:     a.Name,
			Samplers: make([]*model.AnimationSampler, len(a.Samplers)),
			Channels: make([]*model.AnimationChannel, len(a.Channels)),
		}

		for s, sampler := range a.Samplers {
			resolved, err := r.resolveAnimationSampler(i, s, sampler)
			if err != nil {
				return err
			}
			anim.Samplers[s] = resolved
		}

		for c, channel := range a.Channels {
			resolved, err := r.resolveAnimationChannel(i, c, channel, anim.Samplers)
			if err != nil {
				return err
			}
			anim.Channels[c] = resolved
		}

		r.graph.Animations[i] = anim
	}

	r.logger.Debug("resolved animations", slog.Int("count", len(r.graph.Animations)))
	return nil
}

func (r *gltfResolverImpl) resolveAnimationSampler(i, s int, sampler gltfAnimSampler) (*model.AnimationSampler, error) {
	field := fmt.Sprintf("samplers[%d]", s)
	if sampler.Input == nil {
		return nil, missingField("animations", i, field+".input")
	}
	if sampler.Output == nil {
		return nil, missingField("animations", i, field+".output")
	}

	input, err := r.accessor("animations", i, field+".input", *sampler.Input)
	if err != nil {
		return nil, err
	}
	output, err := r.accessor("animations", i, field+".output", *sampler.Output)
	if err != nil {
		return nil, err
	}

	interpolation, ok := model.ParseInterpolation(sampler.Interpolation)
	if !ok {
		r.logger.Warn("unknown animation interpolation, using LINEAR",
			slog.Int("animation", i),
			slog.Int("sampler", s),
			slog.String("interpolation", sampler.Interpolation))
	}

	return &model.AnimationSampler{
		Input:         input,
		Output:        output,
		Interpolation: interpolation,
	}, nil
}

func (r *gltfResolverImpl) resolveAnimationChannel(i, c int, channel gltfAnimChannel, samplers []*model.AnimationSampler) (*model.AnimationChannel, error) {
	field := fmt.Sprintf("channels[%d]", c)
	if channel.Sampler == nil {
		return nil, missingField("animations", i, field+".sampler")
	}
	if *channel.Sampler < 0 || *channel.Sampler >= len(samplers) {
		return nil, danglingReference("animations", i, field+".sampler", *channel.Sampler)
	}

	if channel.Target.Node == nil {
		return nil, missingField("animations", i, field+".target.node")
	}
	node, err := r.nodeID("animations", i, field+".target.node", *channel.Target.Node)
	if err != nil {
		return nil, err
	}

	if channel.Target.Path == "" {
		return nil, missingField("animations", i, field+".target.path")
	}
	path, err := model.ParseTargetPath(channel.Target.Path)
	if err != nil {
		return nil, fmt.Errorf("animations[%d]: %s: %w", i, field, err)
	}

	return &model.AnimationChannel{
		Sampler: samplers[*channel.Sampler],
		Target:  model.AnimationChannelTarget{Node: node, Path: path},
	}, nil
}
