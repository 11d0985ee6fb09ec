package config

import (
	"encoding/json"

	"synthgraph/internal/graph"
	"synthgraph/internal/graph/group"
)

// rangeDoc pairs an inclusive note range with a nested child document,
// the JSON shape of spec.md §4.4 Font's "ordered list of (NoteRange,
// child) pairs".
type rangeDoc struct {
	Low    uint8           `json:"low"`
	High   uint8           `json:"high"`
	Source json.RawMessage `json:"source"`
}

// FontConfig builds a group.Font over an ordered list of note ranges.
// Grounded on original_source/src/node/group/font.rs; the SoundFont2
// (Sf2FilePath) variant of the original's FontSource is handled by
// SoundFontConfig in sf2_config.go instead, since it resolves an
// entirely different shape (instrument zones from a shared sample
// pool) than a flat list of child configs.
type FontConfig struct {
	idRef
	Ranges      []rangeDoc `json:"ranges"`
	rangeConfigs []NodeConfig
}

func (c *FontConfig) hydrateChildren(reg *Registry) error {
	c.rangeConfigs = make([]NodeConfig, len(c.Ranges))
	for i, r := range c.Ranges {
		cfg, err := reg.Decode(r.Source)
		if err != nil {
			return err
		}
		c.rangeConfigs[i] = cfg
	}
	return nil
}

func (c *FontConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	ranges := make([]group.Range, len(c.Ranges))
	for i, r := range c.Ranges {
		node, err := c.rangeConfigs[i].ToNode(ctx)
		if err != nil {
			return nil, err
		}
		ranges[i] = group.Range{Notes: graph.NoteRange{Low: r.Low, High: r.High}, Consumer: node}
	}
	return group.NewFont(c.resolve(), ranges), nil
}

func (c *FontConfig) CloneChildConfigs() []NodeConfig { return c.rangeConfigs }
func (c *FontConfig) AssetSource() string             { return "" }
func (c *FontConfig) Duplicate() NodeConfig {
	cp := *c
	cp.rangeConfigs = make([]NodeConfig, len(c.rangeConfigs))
	for i, rc := range c.rangeConfigs {
		cp.rangeConfigs[i] = rc.Duplicate()
	}
	return &cp
}

// MixerConfig builds a group.Mixer over exactly two children.
type MixerConfig struct {
	idRef
	Balance      *float32        `json:"balance,omitempty"`
	Consumer0Raw json.RawMessage `json:"consumer_0"`
	Consumer1Raw json.RawMessage `json:"consumer_1"`
	consumer0Cfg NodeConfig
	consumer1Cfg NodeConfig
}

func (c *MixerConfig) hydrateChildren(reg *Registry) error {
	cfg0, err := reg.Decode(c.Consumer0Raw)
	if err != nil {
		return err
	}
	cfg1, err := reg.Decode(c.Consumer1Raw)
	if err != nil {
		return err
	}
	c.consumer0Cfg, c.consumer1Cfg = cfg0, cfg1
	return nil
}

func (c *MixerConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	n0, err := c.consumer0Cfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	n1, err := c.consumer1Cfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	return group.NewMixer(c.resolve(), f32Or(c.Balance, defaultMixerBalance), n0, n1, ctx.BufferFrames), nil
}

func (c *MixerConfig) CloneChildConfigs() []NodeConfig {
	return []NodeConfig{c.consumer0Cfg, c.consumer1Cfg}
}
func (c *MixerConfig) AssetSource() string { return "" }
func (c *MixerConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumer0Cfg = c.consumer0Cfg.Duplicate()
	cp.consumer1Cfg = c.consumer1Cfg.Duplicate()
	return &cp
}

// CombinerConfig builds a group.Combiner over N children.
type CombinerConfig struct {
	idRef
	ConsumersRaw []json.RawMessage `json:"consumers"`
	consumerCfgs []NodeConfig
}

func (c *CombinerConfig) hydrateChildren(reg *Registry) error {
	c.consumerCfgs = make([]NodeConfig, len(c.ConsumersRaw))
	for i, raw := range c.ConsumersRaw {
		cfg, err := reg.Decode(raw)
		if err != nil {
			return err
		}
		c.consumerCfgs[i] = cfg
	}
	return nil
}

func (c *CombinerConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	nodes := make([]graph.Node, len(c.consumerCfgs))
	for i, cfg := range c.consumerCfgs {
		n, err := cfg.ToNode(ctx)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return group.NewCombiner(c.resolve(), nodes, ctx.BufferFrames), nil
}

func (c *CombinerConfig) CloneChildConfigs() []NodeConfig { return c.consumerCfgs }
func (c *CombinerConfig) AssetSource() string             { return "" }
func (c *CombinerConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfgs = make([]NodeConfig, len(c.consumerCfgs))
	for i, cc := range c.consumerCfgs {
		cp.consumerCfgs[i] = cc.Duplicate()
	}
	return &cp
}

// PolyphonyConfig builds a group.Polyphony voice pool over one
// prototype child, duplicated max_voices times.
type PolyphonyConfig struct {
	idRef
	MaxVoices   *int            `json:"max_voices,omitempty"`
	ConsumerRaw json.RawMessage `json:"consumer"`
	consumerCfg NodeConfig
}

func (c *PolyphonyConfig) hydrateChildren(reg *Registry) error {
	cfg, err := reg.Decode(c.ConsumerRaw)
	if err != nil {
		return err
	}
	c.consumerCfg = cfg
	return nil
}

func (c *PolyphonyConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	consumer, err := c.consumerCfg.ToNode(ctx)
	if err != nil {
		return nil, err
	}
	return group.NewPolyphony(c.resolve(), intOr(c.MaxVoices, defaultMaxVoices), consumer)
}

func (c *PolyphonyConfig) CloneChildConfigs() []NodeConfig { return []NodeConfig{c.consumerCfg} }
func (c *PolyphonyConfig) AssetSource() string             { return "" }
func (c *PolyphonyConfig) Duplicate() NodeConfig {
	cp := *c
	cp.consumerCfg = c.consumerCfg.Duplicate()
	return &cp
}
