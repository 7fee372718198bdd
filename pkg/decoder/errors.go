package decoder

import "errors"

var (
	// ErrUnexpectedExecutable is returned when a USF file carries a bare
	// executable section. Only the reserved section holds the ROM image.
	ErrUnexpectedExecutable = errors.New("usf: unexpected executable section")

	// ErrSampleRate is returned when the emulator reports no usable rate.
	ErrSampleRate = errors.New("usf: invalid sample rate")
)
