// Package output is the audio device boundary of spec.md §4.7/§6:
// opening the platform output stream and pushing filled buffers to it.
// Grounded on original_source/src/mix/base.rs's BaseMixer, which opens
// a cpal output stream and fills it from a callback; the retrieval
// pack's only real-audio-output dependency is
// github.com/veandco/go-sdl2, so this package drives an SDL2 audio
// device in queue mode (sdl.QueueAudio from internal/runtime.Run's own
// pull loop) rather than a native callback, sidestepping a cgo
// callback boundary for the same "push filled buffers" shape.
package output

import (
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"synthgraph/internal/graph"
)

// Device is an open SDL2 audio output stream accepting interleaved
// float32 stereo frames.
type Device struct {
	id sdl.AudioDeviceID
}

// Open initializes SDL2's audio subsystem and opens the default output
// device at sampleRate with bufferFrames per queued chunk. Returns a
// graph.DeviceError on failure (spec.md §7).
func Open(sampleRate int, bufferFrames int) (*Device, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, graph.DeviceErrorf(err, "initializing SDL2 audio subsystem")
	}
	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32,
		Channels: graph.ChannelCount,
		Samples:  uint16(bufferFrames),
	}
	id, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, graph.DeviceErrorf(err, "opening default SDL2 output device")
	}
	sdl.PauseAudioDevice(id, false)
	return &Device{id: id}, nil
}

// Push queues one buffer of interleaved float32 stereo frames for
// playback. Satisfies internal/runtime.AudioSink.
func (d *Device) Push(frames []float32) error {
	if len(frames) == 0 {
		return nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&frames[0])), len(frames)*4)
	if err := sdl.QueueAudio(d.id, bytes); err != nil {
		return graph.DeviceErrorf(err, "queuing audio buffer")
	}
	return nil
}

// QueuedBytes reports how many bytes of queued audio remain unplayed;
// callers can use it to throttle how far ahead Run buffers.
func (d *Device) QueuedBytes() uint32 {
	return sdl.GetQueuedAudioSize(d.id)
}

// Close stops playback and releases the device.
func (d *Device) Close() {
	sdl.CloseAudioDevice(d.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
}
