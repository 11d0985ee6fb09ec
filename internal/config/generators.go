package config

import (
	"synthgraph/internal/graph"
	"synthgraph/internal/graph/generator"
)

// SquareConfig builds a generator.Square. Grounded on
// original_source/src/node/generator/square.rs's Deserialize impl and
// config/defaults.rs's amplitude()/duty_cycle() defaults.
type SquareConfig struct {
	idRef
	Amplitude *float32   `json:"amplitude,omitempty"`
	DutyCycle *float32   `json:"duty_cycle,omitempty"`
	Balance   balanceDoc `json:"balance,omitempty"`
}

func (c *SquareConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	balance, err := c.Balance.resolve()
	if err != nil {
		return nil, err
	}
	return generator.NewSquare(c.resolve(), balance, f32Or(c.Amplitude, defaultAmplitude), f32Or(c.DutyCycle, defaultDutyCycle), ctx.SampleRate), nil
}

func (c *SquareConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *SquareConfig) AssetSource() string             { return "" }
func (c *SquareConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// TriangleConfig builds a generator.Triangle.
type TriangleConfig struct {
	idRef
	Amplitude *float32   `json:"amplitude,omitempty"`
	Balance   balanceDoc `json:"balance,omitempty"`
}

func (c *TriangleConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	balance, err := c.Balance.resolve()
	if err != nil {
		return nil, err
	}
	return generator.NewTriangle(c.resolve(), balance, f32Or(c.Amplitude, defaultAmplitude), ctx.SampleRate), nil
}

func (c *TriangleConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *TriangleConfig) AssetSource() string             { return "" }
func (c *TriangleConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// SawtoothConfig builds a generator.Sawtooth.
type SawtoothConfig struct {
	idRef
	Amplitude *float32   `json:"amplitude,omitempty"`
	Balance   balanceDoc `json:"balance,omitempty"`
}

func (c *SawtoothConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	balance, err := c.Balance.resolve()
	if err != nil {
		return nil, err
	}
	return generator.NewSawtooth(c.resolve(), balance, f32Or(c.Amplitude, defaultAmplitude), ctx.SampleRate), nil
}

func (c *SawtoothConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *SawtoothConfig) AssetSource() string             { return "" }
func (c *SawtoothConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// NoiseConfig builds a generator.Noise (spec.md §4.2's LFSR noise).
type NoiseConfig struct {
	idRef
	Amplitude      *float32   `json:"amplitude,omitempty"`
	InsideFeedback bool       `json:"inside_feedback,omitempty"`
	NoteFor16Shifts *uint8    `json:"note_for_16_shifts,omitempty"`
	Balance        balanceDoc `json:"balance,omitempty"`
}

func (c *NoiseConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	balance, err := c.Balance.resolve()
	if err != nil {
		return nil, err
	}
	return generator.NewNoise(c.resolve(), balance, f32Or(c.Amplitude, defaultAmplitude), c.InsideFeedback, u8Or(c.NoteFor16Shifts, defaultNoteFor16Shifts), ctx.SampleRate), nil
}

func (c *NoiseConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *NoiseConfig) AssetSource() string             { return "" }
func (c *NoiseConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// NullConfig builds a generator.Null.
type NullConfig struct {
	idRef
}

func (c *NullConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	return generator.NewNull(c.resolve()), nil
}
func (c *NullConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *NullConfig) AssetSource() string             { return "" }
func (c *NullConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// OneShotConfig builds a generator.OneShot from a WAV-or-SF2-decoded
// asset (spec.md SUPPLEMENTED FEATURES #2). file_path is resolved
// through ctx.Assets at ToNode time.
type OneShotConfig struct {
	idRef
	FilePath string     `json:"file_path"`
	Balance  balanceDoc `json:"balance,omitempty"`
}

func (c *OneShotConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	balance, err := c.Balance.resolve()
	if err != nil {
		return nil, err
	}
	buf, err := loadWholeAsset(ctx, c.FilePath)
	if err != nil {
		return nil, err
	}
	return generator.NewOneShotFromSamples(c.resolve(), generator.SourceFormat{Channels: buf.Channels, SampleRate: buf.SampleRate}, balance, buf.Data)
}

func (c *OneShotConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *OneShotConfig) AssetSource() string             { return c.FilePath }
func (c *OneShotConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// SampleLoopConfig builds a generator.SampleLoop: the non-trivial
// sampler of spec.md §4.2, with explicit loop points and a source base
// note for pitch tracking.
type SampleLoopConfig struct {
	idRef
	FilePath   string     `json:"file_path"`
	BaseNote   uint8      `json:"base_note"`
	Balance    balanceDoc `json:"balance,omitempty"`
	LoopStart  *int       `json:"loop_start_frame,omitempty"`
	LoopEnd    *int       `json:"loop_end_frame,omitempty"`
}

func (c *SampleLoopConfig) ToNode(ctx *BuildContext) (graph.Node, error) {
	if err := validateID(c.resolve()); err != nil {
		return nil, err
	}
	balance, err := c.Balance.resolve()
	if err != nil {
		return nil, err
	}
	buf, err := loadWholeAsset(ctx, c.FilePath)
	if err != nil {
		return nil, err
	}
	var loopRange *graph.LoopRange
	if c.LoopStart != nil || c.LoopEnd != nil {
		loopRange = &graph.LoopRange{
			StartFrame: intOr(c.LoopStart, 0),
			EndFrame:   intOr(c.LoopEnd, len(buf.Data)/buf.Channels),
		}
	}
	return generator.NewSampleLoopFromSamples(c.resolve(), generator.SourceFormat{Channels: buf.Channels, SampleRate: buf.SampleRate}, uint32(ctx.SampleRate), c.BaseNote, balance, buf.Data, loopRange)
}

func (c *SampleLoopConfig) CloneChildConfigs() []NodeConfig { return nil }
func (c *SampleLoopConfig) AssetSource() string             { return c.FilePath }
func (c *SampleLoopConfig) Duplicate() NodeConfig {
	cp := *c
	return &cp
}

// loadWholeAsset resolves a plain (non-SoundFont) decoded-PCM asset
// through the asset loader. WAV byte decoding is an external
// collaborator out of scope for this package (spec.md §1); the asset
// loader is expected to hand back already-decoded Prepared data for a
// sample file path (internal/sf2 is the one in-repo example of such a
// decoder, for SoundFont assets). A Raw payload here means no decoder
// ran upstream, which is a configuration error, not something this
// package can recover from by guessing a byte format.
func loadWholeAsset(ctx *BuildContext, path string) (*SampleBuffer, error) {
	payload, err := ctx.Assets.LoadAssetData(path)
	if err != nil {
		return nil, err
	}
	if !payload.Prepared || payload.Samples == nil {
		return nil, graph.UserErrorf("asset %q has no decoded PCM available; WAV/SF2 byte decoding is out of scope for the config loader and must run upstream of the asset loader", path)
	}
	return payload.Samples, nil
}
