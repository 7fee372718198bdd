// Package mocks provides test doubles for the decoder's collaborators.
package mocks

import (
	"errors"
	"sync"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

// MockEmulator records every call made on it and fills rendered blocks with
// a constant sample value.
type MockEmulator struct {
	SampleRate int
	Fill       int16

	// UploadError is returned by Upload.
	UploadError error
	// RenderError is returned by the render call numbered FailOnRender
	// (1-based, counting every call). Zero fails every call when set.
	RenderError  error
	FailOnRender int

	Uploaded    [][]byte
	Compare     bool
	FIFOFull    bool
	RenderCalls int
	Rendered    int
	Discarded   []int
	Restarts    int
	Closed      bool
}

// NewMockEmulator returns an emulator running at rate.
func NewMockEmulator(rate int) *MockEmulator {
	return &MockEmulator{SampleRate: rate, Fill: 10000}
}

func (m *MockEmulator) Upload(section []byte) error {
	if m.UploadError != nil {
		return m.UploadError
	}
	m.Uploaded = append(m.Uploaded, append([]byte(nil), section...))
	return nil
}

func (m *MockEmulator) SetCompare(enable bool)  { m.Compare = enable }
func (m *MockEmulator) SetFIFOFull(enable bool) { m.FIFOFull = enable }

func (m *MockEmulator) Render(buf []int16, frames int) (int, error) {
	m.RenderCalls++
	if m.RenderError != nil && (m.FailOnRender == 0 || m.FailOnRender == m.RenderCalls) {
		return 0, m.RenderError
	}
	switch {
	case buf == nil && frames > 0:
		m.Discarded = append(m.Discarded, frames)
	case buf != nil:
		for i := 0; i < frames*decoder.Channels && i < len(buf); i++ {
			buf[i] = m.Fill
		}
		m.Rendered += frames
	}
	return m.SampleRate, nil
}

func (m *MockEmulator) Restart() { m.Restarts++ }

func (m *MockEmulator) Close() error {
	if m.Closed {
		return errors.New("mock emulator closed twice")
	}
	m.Closed = true
	return nil
}

// EmulatorFactory hands out MockEmulators and tracks allocations.
type EmulatorFactory struct {
	mu sync.Mutex

	SampleRate int
	Error      error
	Configure  func(*MockEmulator)

	Created []*MockEmulator
}

// NewEmulatorFactory returns a factory producing emulators at rate.
func NewEmulatorFactory(rate int) *EmulatorFactory {
	return &EmulatorFactory{SampleRate: rate}
}

// New satisfies decoder.EmulatorFactory.
func (f *EmulatorFactory) New() (decoder.Emulator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Error != nil {
		return nil, f.Error
	}
	m := NewMockEmulator(f.SampleRate)
	if f.Configure != nil {
		f.Configure(m)
	}
	f.Created = append(f.Created, m)
	return m, nil
}

// Allocations returns how many emulators were handed out.
func (f *EmulatorFactory) Allocations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created)
}

// Leaked returns how many emulators were never closed.
func (f *EmulatorFactory) Leaked() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, m := range f.Created {
		if !m.Closed {
			n++
		}
	}
	return n
}

// Last returns the most recent emulator, or nil.
func (f *EmulatorFactory) Last() *MockEmulator {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}
