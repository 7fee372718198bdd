package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

// MaxVolume is the highest accepted volume multiplier.
const MaxVolume = 10.0

// Player plays one track at a time through an Output. It is the host side
// of a decode call: the decoder pulls commands from it after every block.
type Player struct {
	plugin *decoder.Plugin
	output Output
	log    zerolog.Logger

	mu       sync.Mutex
	wake     *sync.Cond
	playing  bool
	paused   bool
	opened   bool
	closing  bool
	volume   float64
	format   decoder.AudioFormat
	duration time.Duration
	position time.Duration
	pending  decoder.Command
	target   time.Duration
	err      error
	done     chan struct{}
}

// NewPlayer creates a new audio player
func NewPlayer(plugin *decoder.Plugin, output Output, log zerolog.Logger) *Player {
	p := &Player{
		plugin: plugin,
		output: output,
		log:    log,
		volume: 1,
		done:   closedChan(),
	}
	p.wake = sync.NewCond(&p.mu)
	return p
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

// Play starts playback of path in the background. A paused player starts
// paused.
func (p *Player) Play(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A track that ended on its own may still be releasing the output.
	for p.playing && p.closing {
		done := p.done
		p.mu.Unlock()
		<-done
		p.mu.Lock()
	}
	if p.playing {
		return errors.New("already playing")
	}

	p.playing = true
	p.opened = false
	p.format = decoder.AudioFormat{}
	p.duration = 0
	p.position = 0
	p.pending = decoder.CommandNone
	p.err = nil
	p.done = make(chan struct{})

	go p.decodeLoop(path, p.done)
	return nil
}

func (p *Player) decodeLoop(path string, done chan struct{}) {
	defer close(done)

	p.plugin.Decode(p, path)

	p.mu.Lock()
	opened := p.opened
	if !opened && p.err == nil {
		p.err = ErrNoAudio
	}
	p.closing = true
	p.opened = false
	p.mu.Unlock()

	// The output is shared with the next track: it must be closed before
	// Play can reopen it.
	if opened {
		if err := p.output.Close(); err != nil {
			p.log.Warn().Err(err).Msg("Failed to close audio output")
		}
	}

	p.mu.Lock()
	p.playing = false
	p.paused = false
	p.closing = false
	p.mu.Unlock()
}

// Stop stops playback and waits for the decoder to return
func (p *Player) Stop() {
	p.mu.Lock()
	if p.playing {
		p.pending = decoder.CommandStop
		p.wake.Broadcast()
	}
	done := p.done
	p.mu.Unlock()

	<-done
}

// Wait blocks until the current track ends
func (p *Player) Wait() error {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Done is closed when the current track ends
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Seek requests a jump to t. Targets are clamped to the track.
func (p *Player) Seek(t time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.pending == decoder.CommandStop {
		return
	}
	t = max(t, 0)
	if p.duration > 0 {
		t = min(t, p.duration)
	}
	p.target = t
	p.pending = decoder.CommandSeek
	p.wake.Broadcast()
}

// Pause pauses playback
func (p *Player) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume resumes playback
func (p *Player) Resume() {
	p.mu.Lock()
	p.paused = false
	p.wake.Broadcast()
	p.mu.Unlock()
}

// TogglePause flips the pause state and returns the new one
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = !p.paused
	p.wake.Broadcast()
	return p.paused
}

// IsPaused returns true if paused
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// IsPlaying returns true while a track is being decoded
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// SetVolume sets the volume multiplier, from 0 to MaxVolume
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = min(max(v, 0), MaxVolume)
	p.mu.Unlock()
}

// Volume returns the volume multiplier
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Position returns the playback position
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Duration returns the tagged length, zero for endless tracks
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// Format returns the stream format once the decoder announced it
func (p *Player) Format() decoder.AudioFormat {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.format
}

// Ready opens the output for the announced format.
func (p *Player) Ready(format decoder.AudioFormat, seekable bool, duration time.Duration) {
	err := p.output.Open(format.SampleRate, format.Channels, p.plugin.Config().BufferFrames)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.format = format
	p.duration = duration
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to open audio output")
		p.err = err
		p.pending = decoder.CommandStop
		return
	}
	p.opened = true
}

// SubmitData writes one block, then blocks while paused.
func (p *Player) SubmitData(samples []int16) decoder.Command {
	p.mu.Lock()
	if p.pending == decoder.CommandStop || !p.opened {
		p.mu.Unlock()
		return decoder.CommandStop
	}
	volume := p.volume
	p.mu.Unlock()

	applyGain(samples, volume)
	if err := p.output.Write(samples); err != nil {
		p.log.Warn().Err(err).Msg("Audio write error")
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		return decoder.CommandStop
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.position += blockDuration(len(samples), p.format.SampleRate, p.format.Channels)
	for p.paused && p.pending == decoder.CommandNone {
		p.wake.Wait()
	}
	return p.pending
}

func (p *Player) SeekTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

func (p *Player) CommandFinished() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == decoder.CommandSeek {
		p.pending = decoder.CommandNone
	}
}

func (p *Player) SeekError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.Warn().Dur("target", p.target).Msg("Seek failed")
	if p.pending == decoder.CommandSeek {
		p.pending = decoder.CommandNone
	}
}

func (p *Player) SubmitTimestamp(t time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = max(t, 0)
}

// applyGain scales samples by gain with saturation
func applyGain(samples []int16, gain float64) {
	if gain == 1 {
		return
	}
	for i := range samples {
		sample := float64(samples[i]) * gain
		if sample > 32767 {
			samples[i] = 32767
		} else if sample < -32768 {
			samples[i] = -32768
		} else {
			samples[i] = int16(sample)
		}
	}
}
