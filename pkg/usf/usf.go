// Package usf binds the lazyusf2 Nintendo 64 RSP/AI emulator as an owned
// resource: New allocates and clears the state block, Close shuts the
// emulator down and frees it.
package usf

import "errors"

var (
	// ErrUnavailable is returned by builds without lazyusf2.
	ErrUnavailable = errors.New("usf: lazyusf2 support not compiled in (build with -tags lazyusf)")
	// ErrAlloc is returned when the state block cannot be allocated.
	ErrAlloc = errors.New("usf: state allocation failed")
	// ErrUpload is returned when the emulator rejects a memory section.
	ErrUpload = errors.New("usf: section upload failed")
	// ErrClosed is returned by calls on a released state.
	ErrClosed = errors.New("usf: state closed")
)
