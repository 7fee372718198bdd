// Package psf describes the chunk records produced by a PSF-family container
// parser (USF, miniUSF and their _lib chains) and binds psflib to produce
// them.
package psf

import (
	"errors"
	"iter"
)

// VersionUSF is the PSF version byte of USF and miniUSF files.
const VersionUSF = 0x21

// PathSeparators are the characters psflib treats as directory separators
// when resolving _lib references.
const PathSeparators = `\/:`

var (
	// ErrLoad is returned when the container parser rejects a file.
	ErrLoad = errors.New("psf: load failed")
	// ErrVersion is returned when the file carries an unexpected version byte.
	ErrVersion = errors.New("psf: version mismatch")
	// ErrUnavailable is returned by builds without the native parser.
	ErrUnavailable = errors.New("psf: psflib support not compiled in (build with -tags lazyusf)")
)

// ChunkKind identifies what a Chunk carries
type ChunkKind int

const (
	// ChunkProgram holds the binary sections of one file in the _lib chain.
	ChunkProgram ChunkKind = iota
	// ChunkTag holds one key/value pair from a tag block.
	ChunkTag
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkProgram:
		return "program"
	case ChunkTag:
		return "tag"
	}
	return "unknown"
}

// Chunk is one record discovered by the parser, in file order.
type Chunk struct {
	Kind ChunkKind

	// Program sections (ChunkProgram)
	Exe      []byte
	Reserved []byte

	// Tag pair (ChunkTag)
	Name  string
	Value string
}

// LoadOptions selects what the parser should report.
type LoadOptions struct {
	// Version is the accepted version byte; 0 accepts any version.
	Version byte
	// Payload requests ChunkProgram records. Tag-only scans leave it false.
	Payload bool
}

// File is the result of a successful load.
type File struct {
	Version int
	chunks  []Chunk
}

// NewFile builds a File from already decoded chunks.
func NewFile(version int, chunks []Chunk) *File {
	return &File{Version: version, chunks: chunks}
}

// Chunks returns the records in the order the parser reported them.
func (f *File) Chunks() iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		for _, c := range f.chunks {
			if !yield(c) {
				return
			}
		}
	}
}

// Len returns the number of records.
func (f *File) Len() int {
	return len(f.chunks)
}
