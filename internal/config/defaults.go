package config

import "synthgraph/internal/graph"

// Default values applied when a config document omits a field,
// supplemented verbatim from original_source/src/config/defaults.rs
// (spec.md SUPPLEMENTED FEATURES #6).
const (
	defaultAmplitude        float32 = 0.5
	defaultDutyCycle        float32 = 0.5
	defaultNoteFor16Shifts  uint8   = 64
	defaultAttackSeconds    float32 = 0.125
	defaultDecaySeconds     float32 = 0.25
	defaultSustainLevel     float32 = 0.5
	defaultReleaseSeconds   float32 = 0.125
	defaultMixerBalance     float32 = 0.5
	defaultMaxVoices        int     = 4
	defaultSoundFontVoices  int     = 4
)

func defaultBalance() graph.Balance { return graph.Balance{Kind: graph.BalanceBoth} }

func f32Or(p *float32, def float32) float32 {
	if p != nil {
		return *p
	}
	return def
}

func u8Or(p *uint8, def uint8) uint8 {
	if p != nil {
		return *p
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
