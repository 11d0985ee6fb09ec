package graph

// ChannelCount is the invariant channel count (I1, I3): every buffer
// passed to FillBuffer has a length divisible by ChannelCount, carrying
// interleaved left/right frames.
const ChannelCount = 2

// DefaultSampleRate is the system sample rate used when a caller does
// not override it (spec.md §3 "e.g., 48000 Hz").
const DefaultSampleRate = 48000

// DefaultBufferFrames is the default per-callback buffer size, in
// frames (spec.md §3 "e.g., 1024 frames").
const DefaultBufferFrames = 1024
