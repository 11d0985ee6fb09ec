package config

import (
	"encoding/json"
	"strconv"

	"synthgraph/internal/graph"
	"synthgraph/internal/midi"
)

// MidiConfig builds the MIDI timeline driver node of spec.md §4.5: a
// file path resolved through the asset loader, plus a channel-number
// keyed map of child subgraphs. JSON object keys are always strings,
// so the channel map is keyed by the decimal channel number as text.
type MidiConfig struct {
	idRef
	MidiFilePath string                     `json:"midi_file_path"`
	Channels     map[string]json.RawMessage `json:"channels"`
	channelCfgs  map[uint8]NodeConfig
}

func (c *MidiConfig) hydrateChildren(reg *Registry) error {
	c.channelCfgs = make(map[uint8]NodeConfig, len(c.Channels))
	for key, raw := range c.Channels {
		channel, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return graph.UserErrorf("MIDI channel key %q is not a small integer", key)
		}
		cfg, err := reg.Decode(raw)
		if err != nil {
			return err
		}
		c.channelCfgs[uint8(channel)] = cfg
	}
	return nil
}

func (c *MidiConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	payload, err := ctx.Assets.LoadAssetData(c.MidiFilePath)
	if err != nil {
		return nil, err
	}
	if payload.Raw == nil {
		return nil, graph.UserErrorf("MIDI asset %q did not return raw bytes to parse", c.MidiFilePath)
	}
	track, err := midi.LoadTrack(payload.Raw, ctx.SampleRate)
	if err != nil {
		return nil, err
	}
	channels := make(map[uint8]graph.Node, len(c.channelCfgs))
	for ch, cfg := range c.channelCfgs {
		node, err := cfg.ToNode(ctx)
		if err != nil {
			return nil, err
		}
		channels[ch] = node
	}
	ctx.log("built MIDI driver from %q with %d channel(s)", c.MidiFilePath, len(channels))
	return midi.NewDriver(c.resolve(), track, channels), nil
}

func (c *MidiConfig) CloneChildConfigs() []NodeConfig {
	cfgs := make([]NodeConfig, 0, len(c.channelCfgs))
	for _, cfg := range c.channelCfgs {
		cfgs = append(cfgs, cfg)
	}
	return cfgs
}
func (c *MidiConfig) AssetSource() string { return c.MidiFilePath }
func (c *MidiConfig) Duplicate() NodeConfig {
	cp := *c
	cp.channelCfgs = make(map[uint8]NodeConfig, len(c.channelCfgs))
	for ch, cfg := range c.channelCfgs {
		cp.channelCfgs[ch] = cfg.Duplicate()
	}
	return &cp
}
