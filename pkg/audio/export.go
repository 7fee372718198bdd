package audio

import (
	"time"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

// DefaultExportLimit caps the rendering of tracks that loop forever.
const DefaultExportLimit = 3 * time.Minute

// Export renders path into out as fast as the emulator runs. Rendering
// stops at the tagged end of the track or after limit, whichever comes
// first; a zero limit means DefaultExportLimit.
func Export(plugin *decoder.Plugin, path string, out Output, limit time.Duration) (time.Duration, error) {
	if limit <= 0 {
		limit = DefaultExportLimit
	}
	c := &exportClient{out: out, limit: limit, bufferFrames: plugin.Config().BufferFrames}
	plugin.Decode(c, path)

	if c.opened {
		if err := out.Close(); err != nil && c.err == nil {
			c.err = err
		}
	}
	if !c.opened && c.err == nil {
		c.err = ErrNoAudio
	}
	return c.rendered(), c.err
}

type exportClient struct {
	out          Output
	limit        time.Duration
	bufferFrames int

	opened    bool
	rate      int
	frames    int64
	maxFrames int64
	err       error
}

func (c *exportClient) rendered() time.Duration {
	if c.rate <= 0 {
		return 0
	}
	return time.Duration(c.frames) * time.Second / time.Duration(c.rate)
}

func (c *exportClient) Ready(format decoder.AudioFormat, seekable bool, duration time.Duration) {
	if err := c.out.Open(format.SampleRate, format.Channels, c.bufferFrames); err != nil {
		c.err = err
		return
	}
	c.opened = true
	c.rate = format.SampleRate
	c.maxFrames = int64(c.limit.Seconds() * float64(format.SampleRate))
}

func (c *exportClient) SubmitData(samples []int16) decoder.Command {
	if !c.opened {
		return decoder.CommandStop
	}

	frames := int64(len(samples) / decoder.Channels)
	if left := c.maxFrames - c.frames; frames > left {
		frames = left
	}
	if err := c.out.Write(samples[:frames*decoder.Channels]); err != nil {
		c.err = err
		return decoder.CommandStop
	}
	c.frames += frames

	if c.frames >= c.maxFrames {
		return decoder.CommandStop
	}
	return decoder.CommandNone
}

func (c *exportClient) SeekTime() time.Duration       { return 0 }
func (c *exportClient) CommandFinished()              {}
func (c *exportClient) SeekError()                    {}
func (c *exportClient) SubmitTimestamp(time.Duration) {}
