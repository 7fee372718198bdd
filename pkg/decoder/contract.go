package decoder

import (
	"time"

	"github.com/olivierh59500/usf-player/pkg/psf"
)

// Command is the host's answer to a submitted block.
type Command int

const (
	CommandNone Command = iota
	CommandSeek
	CommandStop
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandSeek:
		return "seek"
	case CommandStop:
		return "stop"
	}
	return "unknown"
}

// Client is the host side of a decode call.
type Client interface {
	// Ready announces the output format, seekability and total duration
	// (zero when the track loops forever).
	Ready(format AudioFormat, seekable bool, duration time.Duration)
	// SubmitData hands one interleaved stereo block to the host and returns
	// the command pending after the delivery.
	SubmitData(samples []int16) Command
	// SeekTime returns the target of a pending seek.
	SeekTime() time.Duration
	// CommandFinished acknowledges a seek.
	CommandFinished()
	// SeekError reports a seek that could not be carried out.
	SeekError()
	// SubmitTimestamp reports the playback position after a seek.
	SubmitTimestamp(t time.Duration)
}

// TagHandler receives the results of a scan.
type TagHandler interface {
	OnTag(tag TagType, value string)
	OnDuration(d time.Duration)
}

// Emulator is the sound-chip emulator state owned by one decode call.
type Emulator interface {
	// Upload feeds one reserved section to the emulator memory.
	Upload(section []byte) error
	SetCompare(enable bool)
	SetFIFOFull(enable bool)
	// Render produces frames stereo frames into buf, or discards them when
	// buf is nil, and returns the native sample rate. Render(nil, 0) only
	// queries the rate.
	Render(buf []int16, frames int) (sampleRate int, err error)
	// Restart rewinds to the freshly uploaded state.
	Restart()
	// Close releases the state. It must be safe after any failure.
	Close() error
}

// EmulatorFactory allocates and clears a new emulator state.
type EmulatorFactory func() (Emulator, error)

// Container parses PSF-family files into chunk records.
type Container interface {
	Load(path string, opts psf.LoadOptions) (*psf.File, error)
}
