// Package runtime implements the audio-thread-facing mixer of spec.md
// §4.7: a program table, a lock-free swappable root pointer, and the
// unbounded event queue drained once per callback. Grounded on
// original_source/src/mix/{base,swap}.rs, which pairs an
// Arc<AtomicPtr<Box<dyn Node>>> (swap.rs) with a cpal output stream
// (base.rs); this package renders the same split as a generic
// atomic.Pointer[graph.Node] plus an AudioSink interface so the mixer
// itself stays independent of the SDL2 boundary in internal/output.
package runtime

import (
	"synthgraph/internal/debug"
	"synthgraph/internal/graph"
)

// AudioSink is the output device boundary the Runtime drives: anything
// that can accept a pre-zeroed, filled interleaved stereo buffer.
// internal/output.Device satisfies this.
type AudioSink interface {
	Push(frames []float32) error
}

// Runtime holds the swappable root, the program table, and the event
// queue described by spec.md §4.7. It has no output-device dependency
// itself; Run drives an injected AudioSink.
type Runtime struct {
	root SwappableRoot

	Programs *ProgramTable
	Events   *EventQueue

	sampleRate   float32
	bufferFrames int
	logger       *debug.Logger
}

// New builds a Runtime with an empty program table and event queue.
// root may be nil; no audio is produced until Activate publishes one.
func New(sampleRate float32, bufferFrames int, logger *debug.Logger) *Runtime {
	return &Runtime{
		Programs:     NewProgramTable(),
		Events:       NewEventQueue(),
		sampleRate:   sampleRate,
		bufferFrames: bufferFrames,
		logger:       logger,
	}
}

// Activate looks up a stored program by id and publishes it as the
// current root via an atomic pointer exchange (spec.md §4.7 "Program
// change"). The audio thread observes the new root on its next
// callback; the previous root is simply dropped by the garbage
// collector once the callback's load of it goes out of scope, which
// is this rendering's equivalent of the original's off-thread free.
func (r *Runtime) Activate(programID uint64) bool {
	root, ok := r.Programs.Load(programID)
	if !ok {
		return false
	}
	r.root.Swap(root)
	if r.logger != nil {
		r.logger.LogRuntimef(debug.LogLevelInfo, "activated program %d", programID)
	}
	return true
}

// ActivateNode publishes root directly, bypassing the program table.
// Useful for ad hoc or one-shot graphs that are never registered.
func (r *Runtime) ActivateNode(root graph.Node) {
	r.root.Swap(root)
}

// Send enqueues msg for delivery on the next audio callback. Safe to
// call from any goroutine; never blocks.
func (r *Runtime) Send(msg *graph.Message) {
	r.Events.Push(msg)
}

// Callback implements the three-step audio-thread contract of spec.md
// §4.7 and the `pull(out []float32)` contract of §6: the caller is
// responsible for zeroing out (Run zeroes its reused buffer before each
// call; the unit tests pass freshly allocated buffers). Drain happens before any FillBuffer call,
// so every queued event is visible to the whole graph before audio for
// this callback is produced (spec.md §5 ordering guarantee).
func (r *Runtime) Callback(out []float32) {
	root := r.root.Load()
	for _, msg := range r.Events.Drain() {
		if root == nil {
			continue
		}
		graph.Dispatch(root, msg)
	}
	if root == nil {
		return
	}
	root.FillBuffer(out)
}

// Run pulls buffers of r.bufferFrames stereo frames and pushes them to
// sink until stop is closed. Each iteration allocates nothing beyond
// the reused buffer declared here once (I4: no audio-thread allocation
// once the loop starts).
func (r *Runtime) Run(sink AudioSink, stop <-chan struct{}) error {
	buffer := make([]float32, r.bufferFrames*graph.ChannelCount)
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		for i := range buffer {
			buffer[i] = 0
		}
		r.Callback(buffer)
		if err := sink.Push(buffer); err != nil {
			return err
		}
	}
}
