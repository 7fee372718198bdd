package audio

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotOpen is returned by Write on an output that is not open.
	ErrNotOpen = errors.New("audio: output not open")
	// ErrNoAudio is returned when a track produced no stream at all.
	ErrNoAudio = errors.New("audio: track produced no audio")
)

// Output interface for audio output implementations. Samples are
// interleaved signed 16-bit frames of the opened channel count.
type Output interface {
	Open(sampleRate, channels, bufferSize int) error
	Close() error
	Write(samples []int16) error
	IsPlaying() bool
}

// BufferOutput accumulates everything written to it in memory
type BufferOutput struct {
	buffer     []int16
	sampleRate int
	channels   int
	open       bool
	mu         sync.Mutex
}

// NewBufferOutput creates a new buffer output
func NewBufferOutput() *BufferOutput {
	return &BufferOutput{}
}

// Open opens the buffer output and drops earlier content
func (b *BufferOutput) Open(sampleRate, channels, bufferSize int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sampleRate = sampleRate
	b.channels = channels
	b.buffer = make([]int16, 0, sampleRate*channels*10) // 10 seconds buffer
	b.open = true
	return nil
}

// Close closes the buffer output. The content stays readable.
func (b *BufferOutput) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.open = false
	return nil
}

// Write appends samples to the buffer
func (b *BufferOutput) Write(samples []int16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return ErrNotOpen
	}
	b.buffer = append(b.buffer, samples...)
	return nil
}

// IsPlaying returns true while the output is open
func (b *BufferOutput) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// GetBuffer returns a copy of the accumulated audio
func (b *BufferOutput) GetBuffer() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]int16, len(b.buffer))
	copy(result, b.buffer)
	return result
}

// Format returns the rate and channel count the output was opened with
func (b *BufferOutput) Format() (sampleRate, channels int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sampleRate, b.channels
}

// Clear clears the buffer
func (b *BufferOutput) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buffer = b.buffer[:0]
}

// NullOutput discards all audio at playback speed
type NullOutput struct {
	sampleRate int
	channels   int
}

func (n *NullOutput) Open(sampleRate, channels, bufferSize int) error {
	n.sampleRate = sampleRate
	n.channels = channels
	return nil
}

func (n *NullOutput) Close() error {
	return nil
}

func (n *NullOutput) Write(samples []int16) error {
	if n.sampleRate <= 0 || n.channels <= 0 {
		return ErrNotOpen
	}
	// Simulate write delay
	time.Sleep(blockDuration(len(samples), n.sampleRate, n.channels))
	return nil
}

func (n *NullOutput) IsPlaying() bool {
	return n.sampleRate > 0
}

// blockDuration is how long samples take to play.
func blockDuration(samples, sampleRate, channels int) time.Duration {
	return time.Duration(samples/channels) * time.Second / time.Duration(sampleRate)
}

// encodeS16LE converts samples to little-endian bytes
func encodeS16LE(samples []int16) []byte {
	bytes := make([]byte, len(samples)*2)
	for i, sample := range samples {
		bytes[i*2] = byte(sample)
		bytes[i*2+1] = byte(sample >> 8)
	}
	return bytes
}
