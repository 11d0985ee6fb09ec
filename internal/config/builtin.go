package config

// registerBuiltinTypes wires every built-in NodeConfig under the exact
// type-name string original_source/src/config/builtin.rs registers it
// under, so existing config documents from the original tool decode
// unchanged (spec.md §4.6 "Built-in types are registered by default").
func registerBuiltinTypes(r *Registry) {
	registerTyped(r, "SquareWave", func() *SquareConfig { return &SquareConfig{} })
	registerTyped(r, "TriangleWave", func() *TriangleConfig { return &TriangleConfig{} })
	registerTyped(r, "SawtoothWave", func() *SawtoothConfig { return &SawtoothConfig{} })
	registerTyped(r, "LfsrNoise", func() *NoiseConfig { return &NoiseConfig{} })
	registerTyped(r, "Null", func() *NullConfig { return &NullConfig{} })
	registerTyped(r, "OneShot", func() *OneShotConfig { return &OneShotConfig{} })
	registerTyped(r, "SampleLoop", func() *SampleLoopConfig { return &SampleLoopConfig{} })
	registerTyped(r, "SoundFont", func() *SoundFontConfig { return &SoundFontConfig{} })

	registerTyped(r, "AdsrEnvelope", func() *ADSRConfig { return &ADSRConfig{} })
	registerTyped(r, "Fader", func() *FaderConfig { return &FaderConfig{} })
	registerTyped(r, "Lfo", func() *LFOConfig { return &LFOConfig{} })
	registerTyped(r, "Transition", func() *TransitionConfig { return &TransitionConfig{} })
	registerTyped(r, "Filter", func() *FilterConfig { return &FilterConfig{} })

	registerTyped(r, "Font", func() *FontConfig { return &FontConfig{} })
	registerTyped(r, "Mixer", func() *MixerConfig { return &MixerConfig{} })
	registerTyped(r, "Combiner", func() *CombinerConfig { return &CombinerConfig{} })
	registerTyped(r, "Polyphony", func() *PolyphonyConfig { return &PolyphonyConfig{} })

	registerTyped(r, "Midi", func() *MidiConfig { return &MidiConfig{} })
	registerTyped(r, "Subtree", func() *SubtreeConfig { return &SubtreeConfig{} })
}
