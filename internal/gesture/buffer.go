package gesture

import "github.com/naka6ryo/yubi-soccer/internal/detector"

// SampleBuffer is a fixed-capacity, time-ordered history of landmark frames.
// When full, pushing a new frame silently drops the oldest one. Frames are
// expected to arrive in timestamp order; the buffer does not reorder them.
type SampleBuffer struct {
	frames   []detector.Frame
	capacity int
	lastSeen float64
	seen     bool
}

// NewSampleBuffer creates a buffer holding at most capacity frames.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleBuffer{
		frames:   make([]detector.Frame, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a frame, evicting the oldest when at capacity.
func (b *SampleBuffer) Push(frame detector.Frame) {
	if len(b.frames) >= b.capacity {
		copy(b.frames, b.frames[1:])
		b.frames = b.frames[:b.capacity-1]
	}
	b.frames = append(b.frames, frame)
	b.lastSeen = frame.T
	b.seen = true
}

// Window returns the buffered frames within the trailing horizon, oldest
// first. The returned slice aliases the buffer and is only valid until the
// next Push. An empty buffer yields an empty window.
func (b *SampleBuffer) Window(now, horizon float64) []detector.Frame {
	i := 0
	for i < len(b.frames) && now-b.frames[i].T > horizon {
		i++
	}
	return b.frames[i:]
}

// Len returns the number of buffered frames.
func (b *SampleBuffer) Len() int {
	return len(b.frames)
}

// LastSeen returns the timestamp of the most recent push and whether any
// frame has been pushed at all.
func (b *SampleBuffer) LastSeen() (float64, bool) {
	return b.lastSeen, b.seen
}

// Reset discards all buffered frames.
func (b *SampleBuffer) Reset() {
	b.frames = b.frames[:0]
	b.seen = false
	b.lastSeen = 0
}
