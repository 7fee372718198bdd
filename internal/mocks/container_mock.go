package mocks

import (
	"github.com/olivierh59500/usf-player/pkg/psf"
)

// MockContainer returns a fixed file for every load.
type MockContainer struct {
	Version int
	Chunks  []psf.Chunk
	Error   error

	Loads []psf.LoadOptions
}

// NewMockContainer returns a USF container yielding chunks.
func NewMockContainer(chunks ...psf.Chunk) *MockContainer {
	return &MockContainer{Version: psf.VersionUSF, Chunks: chunks}
}

// Load returns the configured chunks. Program chunks are dropped when opts
// does not ask for the payload, as psflib does.
func (c *MockContainer) Load(path string, opts psf.LoadOptions) (*psf.File, error) {
	c.Loads = append(c.Loads, opts)
	if c.Error != nil {
		return nil, c.Error
	}

	var chunks []psf.Chunk
	for _, chunk := range c.Chunks {
		if chunk.Kind == psf.ChunkProgram && !opts.Payload {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return psf.NewFile(c.Version, chunks), nil
}

// Tag builds a tag chunk.
func Tag(name, value string) psf.Chunk {
	return psf.Chunk{Kind: psf.ChunkTag, Name: name, Value: value}
}

// Program builds a program chunk.
func Program(exe, reserved []byte) psf.Chunk {
	return psf.Chunk{Kind: psf.ChunkProgram, Exe: exe, Reserved: reserved}
}
