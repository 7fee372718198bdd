package mocks

import (
	"time"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

// Block is what the mock client saw for one submitted block.
type Block struct {
	First  int16
	Last   int16
	Frames int
}

// MockClient is a host that answers each block from a script.
type MockClient struct {
	// Script returns the command for block n (0-based). Nil means none.
	Script func(n int) decoder.Command
	// SeekTo is returned by SeekTime.
	SeekTo time.Duration
	// MaxBlocks stops runaway loops; zero means 100000.
	MaxBlocks int

	ReadyCalls int
	Format     decoder.AudioFormat
	Seekable   bool
	Duration   time.Duration

	Blocks     []Block
	Finished   int
	SeekErrors int
	Timestamps []time.Duration
}

func (c *MockClient) Ready(format decoder.AudioFormat, seekable bool, duration time.Duration) {
	c.ReadyCalls++
	c.Format = format
	c.Seekable = seekable
	c.Duration = duration
}

func (c *MockClient) SubmitData(samples []int16) decoder.Command {
	b := Block{Frames: len(samples) / decoder.Channels}
	if len(samples) > 0 {
		b.First = samples[0]
		b.Last = samples[len(samples)-1]
	}
	n := len(c.Blocks)
	c.Blocks = append(c.Blocks, b)

	limit := c.MaxBlocks
	if limit == 0 {
		limit = 100000
	}
	if n+1 >= limit {
		return decoder.CommandStop
	}
	if c.Script == nil {
		return decoder.CommandNone
	}
	return c.Script(n)
}

func (c *MockClient) SeekTime() time.Duration { return c.SeekTo }
func (c *MockClient) CommandFinished()        { c.Finished++ }
func (c *MockClient) SeekError()              { c.SeekErrors++ }

func (c *MockClient) SubmitTimestamp(t time.Duration) {
	c.Timestamps = append(c.Timestamps, t)
}

// StopAt returns a script that stops at block n.
func StopAt(n int) func(int) decoder.Command {
	return func(i int) decoder.Command {
		if i == n {
			return decoder.CommandStop
		}
		return decoder.CommandNone
	}
}

// TagRecord is one OnTag call.
type TagRecord struct {
	Type  decoder.TagType
	Value string
}

// MockTagHandler records scan results.
type MockTagHandler struct {
	Tags      []TagRecord
	Durations []time.Duration
}

func (h *MockTagHandler) OnTag(tag decoder.TagType, value string) {
	h.Tags = append(h.Tags, TagRecord{Type: tag, Value: value})
}

func (h *MockTagHandler) OnDuration(d time.Duration) {
	h.Durations = append(h.Durations, d)
}
