package decoder

import "fmt"

const (
	// Channels is the fixed channel count of the emulator output.
	Channels = 2
	// SampleBits is the fixed sample width of the emulator output.
	SampleBits = 16

	maxSampleRate = 1 << 30
)

// AudioFormat describes the PCM stream handed to the host.
type AudioFormat struct {
	SampleRate int
	Bits       int
	Channels   int
}

// NewAudioFormat returns the signed 16-bit stereo format at rate.
func NewAudioFormat(rate int) AudioFormat {
	return AudioFormat{SampleRate: rate, Bits: SampleBits, Channels: Channels}
}

// Valid reports whether the format can be played.
func (f AudioFormat) Valid() bool {
	return f.SampleRate > 0 && f.SampleRate < maxSampleRate &&
		f.Bits == SampleBits && f.Channels > 0
}

func (f AudioFormat) String() string {
	return fmt.Sprintf("%d:%d:%d", f.SampleRate, f.Bits, f.Channels)
}
