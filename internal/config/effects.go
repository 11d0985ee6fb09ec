package config

import (
	"encoding/json"

	"synthgraph/internal/graph"
	"synthgraph/internal/graph/effect"
)

// ADSRConfig builds an effect.ADSR over one child. Grounded on
// original_source/src/node/effect/adsr.rs and config/defaults.rs's
// attack()/decay()/sustain()/release() defaults.
type ADSRConfig struct {
	idRef
	AttackSecs   *float32        `json:"attack,omitempty"`
	DecaySecs    *float32        `json:"decay,omitempty"`
	Sustain      *float32        `json:"sustain,omitempty"`
	ReleaseSecs  *float32        `json:"release,omitempty"`
	ConsumerRaw  json.RawMessage `json:"consumer"`
	consumerCfg  NodeConfig
}

func (c *ADSRConfig) hydrateChildren(reg *Registry) error {
	cfg, err := reg.Decode(c.ConsumerRaw)
	if err != nil {
		return err
	}
	c.consumerCfg = cfg
	return nil
}

func (c *ADSRConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	consumer, err := c.consumerCfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	return effect.NewADSR(c.resolve(), f32Or(c.AttackSecs, defaultAttackSeconds), f32Or(c.DecaySecs, defaultDecaySeconds), f32Or(c.Sustain, defaultSustainLevel), f32Or(c.ReleaseSecs, defaultReleaseSeconds), consumer, ctx.SampleRate, ctx.BufferFrames), nil
}

func (c *ADSRConfig) CloneChildConfigs() []NodeConfig { return []NodeConfig{c.consumerCfg} }
func (c *ADSRConfig) AssetSource() string             { return "" }
func (c *ADSRConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfg = c.consumerCfg.Duplicate()
	return &cp
}

// FaderConfig builds an effect.Fader over one child.
type FaderConfig struct {
	idRef
	InitialVolume *float32        `json:"initial_volume,omitempty"`
	ConsumerRaw   json.RawMessage `json:"consumer"`
	consumerCfg   NodeConfig
}

func (c *FaderConfig) hydrateChildren(reg *Registry) error {
	cfg, err := reg.Decode(c.ConsumerRaw)
	if err != nil {
		return err
	}
	c.consumerCfg = cfg
	return nil
}

func (c *FaderConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	consumer, err := c.consumerCfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	return effect.NewFader(c.resolve(), f32Or(c.InitialVolume, 1.0), consumer, ctx.SampleRate, ctx.BufferFrames), nil
}

func (c *FaderConfig) CloneChildConfigs() []NodeConfig { return []NodeConfig{c.consumerCfg} }
func (c *FaderConfig) AssetSource() string             { return "" }
func (c *FaderConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfg = c.consumerCfg.Duplicate()
	return &cp
}

// modulationInit is the optional initial Lfo/Transition event a config
// document may bundle so the modulator starts running immediately on
// construction, instead of waiting for a runtime event (spec.md §4.3.3,
// §4.3.4 describe both as event-activated; this supplements a
// construction-time convenience matching how example documents in
// original_source/examples/{lfo,automation}.rs start modulation as
// part of scene setup).
type modulationInit struct {
	Property string   `json:"property"`
	Low      float32  `json:"low,omitempty"`
	High     float32  `json:"high,omitempty"`
	From     float32  `json:"from,omitempty"`
	To       float32  `json:"to,omitempty"`
	Seconds  float32  `json:"seconds,omitempty"`
	Steps    uint32   `json:"steps,omitempty"`
}

// LFOConfig builds an effect.LFO over one child, optionally starting
// it immediately via an embedded "initial" modulation block.
type LFOConfig struct {
	idRef
	Initial     *modulationInit `json:"initial,omitempty"`
	ConsumerRaw json.RawMessage `json:"consumer"`
	consumerCfg NodeConfig
}

func (c *LFOConfig) hydrateChildren(reg *Registry) error {
	cfg, err := reg.Decode(c.ConsumerRaw)
	if err != nil {
		return err
	}
	c.consumerCfg = cfg
	return nil
}

func (c *LFOConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	consumer, err := c.consumerCfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	node := effect.NewLFO(c.resolve(), consumer, ctx.SampleRate)
	if c.Initial != nil {
		prop, err := resolveModProperty(c.Initial.Property)
		if err != nil {
			return nil, err
		}
		msg := &graph.Message{Target: graph.SpecificTarget(node.ID()), Data: graph.Event{
			Kind: graph.EventLfo, LfoProperty: prop, LfoLow: c.Initial.Low, LfoHigh: c.Initial.High,
			LfoPeriodSecs: c.Initial.Seconds, LfoSteps: c.Initial.Steps,
		}}
		graph.Dispatch(node, msg)
	}
	return node, nil
}

func (c *LFOConfig) CloneChildConfigs() []NodeConfig { return []NodeConfig{c.consumerCfg} }
func (c *LFOConfig) AssetSource() string             { return "" }
func (c *LFOConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfg = c.consumerCfg.Duplicate()
	return &cp
}

// TransitionConfig builds an effect.Transition over one child,
// optionally starting it immediately via an embedded "initial" block.
type TransitionConfig struct {
	idRef
	Initial     *modulationInit `json:"initial,omitempty"`
	ConsumerRaw json.RawMessage `json:"consumer"`
	consumerCfg NodeConfig
}

func (c *TransitionConfig) hydrateChildren(reg *Registry) error {
	cfg, err := reg.Decode(c.ConsumerRaw)
	if err != nil {
		return err
	}
	c.consumerCfg = cfg
	return nil
}

func (c *TransitionConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	consumer, err := c.consumerCfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	node := effect.NewTransition(c.resolve(), consumer, ctx.SampleRate)
	if c.Initial != nil {
		prop, err := resolveModProperty(c.Initial.Property)
		if err != nil {
			return nil, err
		}
		msg := &graph.Message{Target: graph.SpecificTarget(node.ID()), Data: graph.Event{
			Kind: graph.EventTransition, TransitionProperty: prop, TransitionFrom: c.Initial.From, TransitionTo: c.Initial.To,
			TransitionSeconds: c.Initial.Seconds, TransitionSteps: c.Initial.Steps,
		}}
		graph.Dispatch(node, msg)
	}
	return node, nil
}

func (c *TransitionConfig) CloneChildConfigs() []NodeConfig { return []NodeConfig{c.consumerCfg} }
func (c *TransitionConfig) AssetSource() string             { return "" }
func (c *TransitionConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfg = c.consumerCfg.Duplicate()
	return &cp
}

// FilterConfig builds an effect.Filter over one child. Omitting
// "filter" entirely yields a transparent pass-through filter (spec.md
// §4.3.5).
type FilterConfig struct {
	idRef
	Filter      *filterDoc      `json:"filter,omitempty"`
	ConsumerRaw json.RawMessage `json:"consumer"`
	consumerCfg NodeConfig
}

func (c *FilterConfig) hydrateChildren(reg *Registry) error {
	cfg, err := reg.Decode(c.ConsumerRaw)
	if err != nil {
		return err
	}
	c.consumerCfg = cfg
	return nil
}

func (c *FilterConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	consumer, err := c.consumerCfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	if c.Filter == nil {
		return effect.NewFilter(c.resolve(), false, graph.FilterSpec{}, consumer, ctx.SampleRate, ctx.BufferFrames), nil
	}
	spec, err := c.Filter.resolve()
	if err != nil {
		return nil, err
	}
	return effect.NewFilter(c.resolve(), true, spec, consumer, ctx.SampleRate, ctx.BufferFrames), nil
}

func (c *FilterConfig) CloneChildConfigs() []NodeConfig { return []NodeConfig{c.consumerCfg} }
func (c *FilterConfig) AssetSource() string             { return "" }
func (c *FilterConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfg = c.consumerCfg.Duplicate()
	return &cp
}
