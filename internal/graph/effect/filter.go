package effect

import (
	"math"

	"synthgraph/internal/graph"
)

// qButterworth is the Q factor for a maximally-flat (Butterworth)
// second-order section, 1/sqrt(2). spec.md §4.3.5 fixes Q to this value
// for every filter kind this node supports.
const qButterworth = float32(0.7071067811865476)

// biquadCoefficients holds a Direct-Form-I biquad's normalized
// coefficients (a0 already divided out). Grounded on the RBJ
// Audio-EQ-Cookbook formulas, the same formula set the Rust `biquad`
// crate used by original_source/src/node/effect/filter.rs implements;
// no third-party Go biquad/IIR-filter library was found anywhere in the
// retrieval pack (see DESIGN.md), so this repository implements the
// cookbook directly rather than fabricate a dependency.
type biquadCoefficients struct {
	b0, b1, b2 float32
	a1, a2     float32
}

func coefficientsForFilter(spec graph.FilterSpec, sampleRate float32) biquadCoefficients {
	f0 := spec.CutoffHz
	if f0 <= 0 {
		f0 = 1.0
	}
	if f0 >= sampleRate/2 {
		f0 = sampleRate/2 - 1
	}
	w0 := 2 * math.Pi * float64(f0) / float64(sampleRate)
	cosw0 := float32(math.Cos(w0))
	sinw0 := float32(math.Sin(w0))
	alpha := sinw0 / (2 * qButterworth)

	switch spec.Kind {
	case graph.FilterLowPass:
		b0 := (1 - cosw0) / 2
		b1 := 1 - cosw0
		b2 := (1 - cosw0) / 2
		a0 := 1 + alpha
		a1 := -2 * cosw0
		a2 := 1 - alpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterHighPass:
		b0 := (1 + cosw0) / 2
		b1 := -(1 + cosw0)
		b2 := (1 + cosw0) / 2
		a0 := 1 + alpha
		a1 := -2 * cosw0
		a2 := 1 - alpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterBandPass:
		b0 := alpha
		b1 := float32(0)
		b2 := -alpha
		a0 := 1 + alpha
		a1 := -2 * cosw0
		a2 := 1 - alpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterNotch:
		b0 := float32(1)
		b1 := -2 * cosw0
		b2 := float32(1)
		a0 := 1 + alpha
		a1 := -2 * cosw0
		a2 := 1 - alpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterAllPass:
		b0 := 1 - alpha
		b1 := -2 * cosw0
		b2 := 1 + alpha
		a0 := 1 + alpha
		a1 := -2 * cosw0
		a2 := 1 - alpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterLowShelf:
		a := float32(math.Pow(10, float64(spec.GainDB)/40))
		twoSqrtAAlpha := 2 * float32(math.Sqrt(float64(a))) * alpha
		b0 := a * ((a + 1) - (a-1)*cosw0 + twoSqrtAAlpha)
		b1 := 2 * a * ((a - 1) - (a+1)*cosw0)
		b2 := a * ((a + 1) - (a-1)*cosw0 - twoSqrtAAlpha)
		a0 := (a + 1) + (a-1)*cosw0 + twoSqrtAAlpha
		a1 := -2 * ((a - 1) + (a+1)*cosw0)
		a2 := (a + 1) + (a-1)*cosw0 - twoSqrtAAlpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterHighShelf:
		a := float32(math.Pow(10, float64(spec.GainDB)/40))
		twoSqrtAAlpha := 2 * float32(math.Sqrt(float64(a))) * alpha
		b0 := a * ((a + 1) + (a-1)*cosw0 + twoSqrtAAlpha)
		b1 := -2 * a * ((a - 1) + (a+1)*cosw0)
		b2 := a * ((a + 1) + (a-1)*cosw0 - twoSqrtAAlpha)
		a0 := (a + 1) - (a-1)*cosw0 + twoSqrtAAlpha
		a1 := 2 * ((a - 1) - (a+1)*cosw0)
		a2 := (a + 1) - (a-1)*cosw0 - twoSqrtAAlpha
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterPeakingEQ:
		a := float32(math.Pow(10, float64(spec.GainDB)/40))
		b0 := 1 + alpha*a
		b1 := -2 * cosw0
		b2 := 1 - alpha*a
		a0 := 1 + alpha/a
		a1 := -2 * cosw0
		a2 := 1 - alpha/a
		return normalize(b0, b1, b2, a0, a1, a2)
	case graph.FilterSinglePoleLowPass, graph.FilterSinglePoleLowPassApprox:
		// One-pole IIR: y[n] = y[n-1] + a*(x[n]-y[n-1]), expressed as a
		// degenerate biquad (b2 = a2 = 0) so it shares directForm1.run.
		wc := float32(2*math.Pi) * f0 / sampleRate
		a := wc / (wc + 1)
		if spec.Kind == graph.FilterSinglePoleLowPassApprox {
			a = wc
		}
		return biquadCoefficients{b0: a, b1: 0, b2: 0, a1: -(1 - a), a2: 0}
	default:
		return biquadCoefficients{b0: 1}
	}
}

func normalize(b0, b1, b2, a0, a1, a2 float32) biquadCoefficients {
	return biquadCoefficients{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// directForm1 is a single Direct-Form-I biquad section's running state.
type directForm1 struct {
	coeffs         biquadCoefficients
	x1, x2, y1, y2 float32
}

func (d *directForm1) run(x float32) float32 {
	c := d.coeffs
	y := c.b0*x + c.b1*d.x1 + c.b2*d.x2 - c.a1*d.y1 - c.a2*d.y2
	d.x2, d.x1 = d.x1, x
	d.y2, d.y1 = d.y1, y
	return y
}

func (d *directForm1) updateCoefficients(c biquadCoefficients) {
	d.coeffs = c
}

// Filter is a stereo IIR filter realized as two independent Direct-Form-I
// biquads, one per channel. With no filter configured it passes the
// child's output through unchanged (additively). Grounded on
// original_source/src/node/effect/filter.rs; this port uses the
// system's actual sample rate for coefficient derivation rather than
// the Rust source's hardcoded 24kHz constant.
type Filter struct {
	nodeID uint64

	hasFilter bool
	kind      graph.FilterKind
	gainDB    float32

	consumer           graph.Node
	intermediateBuffer []float32
	baseFrequency      float32
	sampleRate         float32

	left, right directForm1
}

// NewFilter builds a Filter. Pass hasFilter=false for a transparent
// pass-through filter (spec.md §4.3.5).
func NewFilter(nodeID *uint64, hasFilter bool, spec graph.FilterSpec, consumer graph.Node, sampleRate float32, bufferFrames int) *Filter {
	baseFrequency := spec.CutoffHz
	if !hasFilter {
		baseFrequency = 1000.0
	}
	kind := spec.Kind
	if !hasFilter {
		kind = graph.FilterLowPass
	}
	coeffs := coefficientsForFilter(graph.FilterSpec{Kind: kind, CutoffHz: baseFrequency, GainDB: spec.GainDB}, sampleRate)
	f := &Filter{
		nodeID:             resolveID(nodeID),
		hasFilter:          hasFilter,
		kind:               kind,
		gainDB:             spec.GainDB,
		consumer:           consumer,
		intermediateBuffer: make([]float32, bufferFrames*graph.ChannelCount),
		baseFrequency:      baseFrequency,
		sampleRate:         sampleRate,
	}
	f.left.updateCoefficients(coeffs)
	f.right.updateCoefficients(coeffs)
	return f
}

func (f *Filter) ID() uint64      { return f.nodeID }
func (f *Filter) SetID(id uint64) { f.nodeID = id }

func (f *Filter) Duplicate() (graph.Node, error) {
	consumerDup, err := f.consumer.Duplicate()
	if err != nil {
		return nil, err
	}
	spec := graph.FilterSpec{Kind: f.kind, CutoffHz: f.baseFrequency, GainDB: f.gainDB}
	return NewFilter(&f.nodeID, f.hasFilter, spec, consumerDup, f.sampleRate, len(f.intermediateBuffer)/graph.ChannelCount), nil
}

func (f *Filter) setFilter(spec graph.FilterSpec) {
	f.hasFilter = true
	f.kind = spec.Kind
	f.gainDB = spec.GainDB
	f.baseFrequency = spec.CutoffHz
	coeffs := coefficientsForFilter(spec, f.sampleRate)
	f.left.updateCoefficients(coeffs)
	f.right.updateCoefficients(coeffs)
}

func (f *Filter) setFrequencyShift(shift float32) {
	if !f.hasFilter {
		return
	}
	f.setFilter(graph.FilterSpec{Kind: f.kind, CutoffHz: f.baseFrequency + shift, GainDB: f.gainDB})
}

func (f *Filter) TryConsumeEvent(msg *graph.Message) bool {
	switch msg.Data.Kind {
	case graph.EventFilter:
		f.setFilter(msg.Data.Filter)
		return true
	case graph.EventFilterFrequencyShift:
		f.setFrequencyShift(msg.Data.FilterFrequencyShift)
		return true
	}
	return false
}

func (f *Filter) Propagate(msg *graph.Message) {
	graph.Dispatch(f.consumer, msg)
}

func (f *Filter) FillBuffer(buffer []float32) {
	if !f.hasFilter {
		f.consumer.FillBuffer(buffer)
		return
	}
	sampleCount := len(buffer) / graph.ChannelCount
	intermediate := f.intermediateBuffer[:len(buffer)]
	for i := range intermediate {
		intermediate[i] = 0
	}
	f.consumer.FillBuffer(intermediate)
	for i := 0; i < sampleCount; i++ {
		idx := i * 2
		buffer[idx] += f.left.run(intermediate[idx])
		buffer[idx+1] += f.right.run(intermediate[idx+1])
	}
}

func (f *Filter) ReplaceChildren(children []graph.Node) error {
	if len(children) != 1 {
		return graph.UserErrorf("Filter requires exactly one child")
	}
	dup, err := children[0].Duplicate()
	if err != nil {
		return err
	}
	f.consumer = dup
	return nil
}
