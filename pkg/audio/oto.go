package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ContextRate is the rate of the shared Oto context. Oto allows one context
// per process, so streams at other rates are resampled to it.
const ContextRate = 44100

var (
	// Global Oto context singleton
	globalOtoMutex sync.Mutex
	globalContext  *oto.Context
	globalPlayers  int
)

// StreamingOtoOutput uses Oto v3 for cross-platform audio
type StreamingOtoOutput struct {
	player     *oto.Player
	writer     *io.PipeWriter
	reader     *io.PipeReader
	sampleRate int
	channels   int
	bufferSize int
	resampler  *resampler
	mu         sync.Mutex
	closed     bool
	wg         sync.WaitGroup
}

// NewStreamingOtoOutput creates a new streaming Oto output
func NewStreamingOtoOutput() (*StreamingOtoOutput, error) {
	return &StreamingOtoOutput{}, nil
}

// Open opens the streaming audio output
func (s *StreamingOtoOutput) Open(sampleRate, channels, bufferSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		return fmt.Errorf("stream already open")
	}
	if channels != 2 {
		return fmt.Errorf("unsupported channel count %d", channels)
	}

	s.sampleRate = sampleRate
	s.channels = channels
	s.bufferSize = bufferSize
	s.resampler = nil
	if sampleRate != ContextRate {
		s.resampler = newResampler(sampleRate, ContextRate, channels)
	}

	// Create pipe for streaming
	s.reader, s.writer = io.Pipe()

	// Get or create the global context
	globalOtoMutex.Lock()
	if globalContext == nil {
		op := &oto.NewContextOptions{
			SampleRate:   ContextRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
		}

		context, ready, err := oto.NewContext(op)
		if err != nil {
			globalOtoMutex.Unlock()
			return fmt.Errorf("failed to create oto context: %w", err)
		}

		<-ready
		globalContext = context
	}
	globalPlayers++
	context := globalContext
	globalOtoMutex.Unlock()

	s.player = context.NewPlayer(s.reader)
	s.closed = false

	// Start playing in background
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.player.Play()
	}()

	return nil
}

// Close closes the streaming output
func (s *StreamingOtoOutput) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	// Close writer first to signal EOF
	if s.writer != nil {
		s.writer.Close()
		s.writer = nil
	}

	// Wait a bit for buffer to flush
	time.Sleep(100 * time.Millisecond)

	if s.player != nil {
		s.player.Close()
		s.player = nil
	}

	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}

	globalOtoMutex.Lock()
	globalPlayers--
	// Don't suspend context - keep it alive for reuse
	globalOtoMutex.Unlock()

	s.wg.Wait()
	return nil
}

// Write writes samples to the stream
func (s *StreamingOtoOutput) Write(samples []int16) error {
	s.mu.Lock()
	if s.closed || s.writer == nil {
		s.mu.Unlock()
		return ErrNotOpen
	}
	writer := s.writer
	rs := s.resampler
	s.mu.Unlock()

	if rs != nil {
		samples = rs.process(samples)
	}
	_, err := writer.Write(encodeS16LE(samples))
	return err
}

// IsPlaying returns true if playing
func (s *StreamingOtoOutput) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.player != nil
}

// resampler converts interleaved frames between rates by linear
// interpolation, carrying the last input frame across blocks.
type resampler struct {
	step     float64
	channels int
	pos      float64
	last     []int16
	out      []int16
}

func newResampler(from, to, channels int) *resampler {
	return &resampler{
		step:     float64(from) / float64(to),
		channels: channels,
		last:     make([]int16, channels),
	}
}

func (r *resampler) process(in []int16) []int16 {
	frames := len(in) / r.channels
	r.out = r.out[:0]

	// Position 0 is the carried frame, 1..frames are the new ones.
	frame := func(i int) []int16 {
		if i == 0 {
			return r.last
		}
		return in[(i-1)*r.channels : i*r.channels]
	}

	for r.pos < float64(frames) {
		i := int(r.pos)
		frac := r.pos - float64(i)
		a, b := frame(i), frame(i+1)
		for c := 0; c < r.channels; c++ {
			v := float64(a[c]) + (float64(b[c])-float64(a[c]))*frac
			r.out = append(r.out, int16(v))
		}
		r.pos += r.step
	}
	r.pos -= float64(frames)

	if frames > 0 {
		copy(r.last, frame(frames))
	}
	return r.out
}

// FallbackOutput uses time.Sleep for systems where audio doesn't work
type FallbackOutput struct {
	sampleRate int
	channels   int
	closed     bool
	mu         sync.Mutex
}

func NewFallbackOutput() (*FallbackOutput, error) {
	return &FallbackOutput{}, nil
}

func (f *FallbackOutput) Open(sampleRate, channels, bufferSize int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sampleRate = sampleRate
	f.channels = channels
	f.closed = false
	return nil
}

func (f *FallbackOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *FallbackOutput) Write(samples []int16) error {
	f.mu.Lock()
	if f.closed || f.sampleRate <= 0 {
		f.mu.Unlock()
		return fmt.Errorf("output closed")
	}
	sampleRate, channels := f.sampleRate, f.channels
	f.mu.Unlock()

	time.Sleep(blockDuration(len(samples), sampleRate, channels))
	return nil
}

func (f *FallbackOutput) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

// NewSystemOutput returns an Oto output, or a timing-only fallback when the
// platform has no audio device.
func NewSystemOutput() (Output, error) {
	out, err := NewStreamingOtoOutput()
	if err != nil {
		return NewFallbackOutput()
	}
	return out, nil
}
