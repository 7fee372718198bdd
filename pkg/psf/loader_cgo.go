//go:build cgo && lazyusf

package psf

/*
#cgo LDFLAGS: -lpsflib -lz

#include <stdint.h>
#include <stdlib.h>

int psf_bridge_load(const char *path, uint8_t version, int want_payload, uintptr_t ctx);
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"
)

// Loader is the psflib-backed container parser. It reads files with stdio
// and collects every callback into Chunk records.
type Loader struct {
	// psflib keeps no global state, but the bridge trampolines are shared.
	mu sync.Mutex
}

// NewLoader returns a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

type collector struct {
	chunks []Chunk
}

// Load parses path and returns its records.
func (l *Loader) Load(path string, opts LoadOptions) (*File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	c := &collector{}
	h := cgo.NewHandle(c)
	defer h.Delete()

	payload := C.int(0)
	if opts.Payload {
		payload = 1
	}

	version := int(C.psf_bridge_load(cpath, C.uint8_t(opts.Version), payload, C.uintptr_t(h)))
	if version < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLoad, path)
	}
	if opts.Version != 0 && version != int(opts.Version) {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrVersion, version, opts.Version)
	}

	return NewFile(version, c.chunks), nil
}

//export goPsfLoad
func goPsfLoad(ctx C.uintptr_t, exe *C.uint8_t, exeSize C.size_t, reserved *C.uint8_t, reservedSize C.size_t) C.int {
	c := cgo.Handle(ctx).Value().(*collector)

	chunk := Chunk{Kind: ChunkProgram}
	if exe != nil && exeSize > 0 {
		chunk.Exe = C.GoBytes(unsafe.Pointer(exe), C.int(exeSize))
	}
	if reserved != nil && reservedSize > 0 {
		chunk.Reserved = C.GoBytes(unsafe.Pointer(reserved), C.int(reservedSize))
	}
	c.chunks = append(c.chunks, chunk)
	return 0
}

//export goPsfInfo
func goPsfInfo(ctx C.uintptr_t, name *C.char, value *C.char) C.int {
	c := cgo.Handle(ctx).Value().(*collector)

	c.chunks = append(c.chunks, Chunk{
		Kind:  ChunkTag,
		Name:  C.GoString(name),
		Value: C.GoString(value),
	})
	return 0
}
