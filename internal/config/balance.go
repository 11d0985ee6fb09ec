package config

import (
	"encoding/json"

	"synthgraph/internal/graph"
)

// balanceDoc mirrors graph.Balance as a tagged-variant JSON value:
// either the bare string "Both"/"Left"/"Right", or {"Pan": 0.25}. This
// follows the same shape the config document uses for every other
// tagged union in spec.md §6.
type balanceDoc struct {
	raw json.RawMessage
}

func (b *balanceDoc) UnmarshalJSON(data []byte) error {
	b.raw = append([]byte(nil), data...)
	return nil
}

func (b balanceDoc) resolve() (graph.Balance, error) {
	if len(b.raw) == 0 {
		return defaultBalance(), nil
	}
	var asString string
	if err := json.Unmarshal(b.raw, &asString); err == nil {
		switch asString {
		case "", "Both":
			return graph.Balance{Kind: graph.BalanceBoth}, nil
		case "Left":
			return graph.Balance{Kind: graph.BalanceLeft}, nil
		case "Right":
			return graph.Balance{Kind: graph.BalanceRight}, nil
		default:
			return graph.Balance{}, graph.ParseErrorf("unrecognized Balance variant %q", asString)
		}
	}
	var asPan struct {
		Pan *float32 `json:"Pan"`
	}
	if err := json.Unmarshal(b.raw, &asPan); err != nil || asPan.Pan == nil {
		return graph.Balance{}, graph.ParseErrorf("invalid Balance value %s", string(b.raw))
	}
	return graph.Balance{Kind: graph.BalancePan, Pan: *asPan.Pan}, nil
}

// filterKindNames maps the config document's filter-kind strings to
// graph.FilterKind, matching spec.md §3's IirFilter kind enumeration.
var filterKindNames = map[string]graph.FilterKind{
	"LowPass":                   graph.FilterLowPass,
	"HighPass":                  graph.FilterHighPass,
	"BandPass":                  graph.FilterBandPass,
	"Notch":                     graph.FilterNotch,
	"AllPass":                   graph.FilterAllPass,
	"LowShelf":                  graph.FilterLowShelf,
	"HighShelf":                 graph.FilterHighShelf,
	"PeakingEQ":                 graph.FilterPeakingEQ,
	"SinglePoleLowPass":         graph.FilterSinglePoleLowPass,
	"SinglePoleLowPassApprox":   graph.FilterSinglePoleLowPassApprox,
}

// filterDoc is the JSON shape of a FilterSpec: {"kind": "LowPass",
// "cutoff": 880.0, "gain_db": 6.0}. gain_db only matters for the shelf
// and peaking kinds.
type filterDoc struct {
	Kind     string   `json:"kind"`
	CutoffHz float32  `json:"cutoff"`
	GainDB   *float32 `json:"gain_db,omitempty"`
}

func (f filterDoc) resolve() (graph.FilterSpec, error) {
	kind, ok := filterKindNames[f.Kind]
	if !ok {
		return graph.FilterSpec{}, graph.UserErrorf("unrecognized filter kind %q", f.Kind)
	}
	return graph.FilterSpec{Kind: kind, CutoffHz: f.CutoffHz, GainDB: f32Or(f.GainDB, 0)}, nil
}

// modPropertyNames maps the config/event document's modulation-property
// strings to graph.ModulationProperty (spec.md §4.3.3/.4's LFO/Transition
// "property" field).
var modPropertyNames = map[string]graph.ModulationProperty{
	"Volume":          graph.ModVolume,
	"Pan":             graph.ModPan,
	"PitchMultiplier": graph.ModPitchMultiplier,
	"MixBalance":      graph.ModMixBalance,
	"TimeDilation":    graph.ModTimeDilation,
}

func resolveModProperty(name string) (graph.ModulationProperty, error) {
	p, ok := modPropertyNames[name]
	if !ok {
		return 0, graph.UserErrorf("unrecognized modulation property %q", name)
	}
	return p, nil
}
