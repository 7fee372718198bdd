//go:build cgo && lazyusf

package usf

/*
#cgo LDFLAGS: -llazyusf -lz -lm

#include <stdint.h>
#include <stdlib.h>
#include <usf.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// State owns one lazyusf2 state block.
type State struct {
	ptr unsafe.Pointer
}

// New allocates and clears a state block.
func New() (*State, error) {
	ptr := C.malloc(C.usf_get_state_size())
	if ptr == nil {
		return nil, ErrAlloc
	}
	C.usf_clear(ptr)
	return &State{ptr: ptr}, nil
}

// Upload feeds one reserved section (the ROM/RAM image) to the emulator.
func (s *State) Upload(section []byte) error {
	if s.ptr == nil {
		return ErrClosed
	}

	var data *C.uint8_t
	if len(section) > 0 {
		cdata := C.CBytes(section)
		defer C.free(cdata)
		data = (*C.uint8_t)(cdata)
	}

	if rc := C.usf_upload_section(s.ptr, data, C.size_t(len(section))); rc < 0 {
		return fmt.Errorf("%w: code %d", ErrUpload, int(rc))
	}
	return nil
}

// SetCompare toggles the _enablecompare accuracy mode.
func (s *State) SetCompare(enable bool) {
	if s.ptr != nil {
		C.usf_set_compare(s.ptr, cbool(enable))
	}
}

// SetFIFOFull toggles the _enableFIFOfull accuracy mode.
func (s *State) SetFIFOFull(enable bool) {
	if s.ptr != nil {
		C.usf_set_fifo_full(s.ptr, cbool(enable))
	}
}

// Render produces frames stereo frames into buf, or discards them when buf
// is nil. It returns the native sample rate.
func (s *State) Render(buf []int16, frames int) (int, error) {
	if s.ptr == nil {
		return 0, ErrClosed
	}
	if buf != nil && len(buf) < frames*2 {
		return 0, fmt.Errorf("usf: buffer holds %d samples, need %d", len(buf), frames*2)
	}

	var out *C.int16_t
	if len(buf) > 0 {
		out = (*C.int16_t)(unsafe.Pointer(&buf[0]))
	}

	var rate C.int32_t
	if msg := C.usf_render(s.ptr, out, C.size_t(frames), &rate); msg != nil {
		return 0, fmt.Errorf("usf_render: %s", C.GoString(msg))
	}
	return int(rate), nil
}

// Restart rewinds the emulator to the state right after the uploads.
func (s *State) Restart() {
	if s.ptr != nil {
		C.usf_restart(s.ptr)
	}
}

// Close shuts the emulator down and frees the state block. It is safe to
// call more than once.
func (s *State) Close() error {
	if s.ptr == nil {
		return nil
	}
	C.usf_shutdown(s.ptr)
	C.free(s.ptr)
	s.ptr = nil
	return nil
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
