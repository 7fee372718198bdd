package decoder

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// session is one pass of the render loop over a loaded emulator.
type session struct {
	cfg    Config
	log    zerolog.Logger
	emu    Emulator
	client Client
	length Length
}

// run initializes the output, then renders, fades and seeks until the host
// stops it, the track ends or the emulator fails.
func (s *session) run() {
	rate, err := s.emu.Render(nil, 0)
	if err != nil {
		s.log.Warn().Err(err).Msg("usf_render failed")
		return
	}
	format := NewAudioFormat(rate)
	if !format.Valid() {
		s.log.Warn().Err(ErrSampleRate).Int("rate", rate).Msg("Unsupported audio format")
		return
	}

	s.client.Ready(format, true, s.length.Total)
	s.log.Debug().
		Stringer("format", format).
		Dur("length", s.length.Total).
		Dur("fade", s.length.Fade).
		Msg("Ready")

	// Without a length the track loops until the host stops it.
	loop := s.length.Loops()
	var totalFrames, fadeFrames int64
	if !loop {
		totalFrames = framesFor(s.length.Total, rate)
		fadeFrames = framesFor(s.length.Fade, rate)
	}
	fadeStart := max(totalFrames-fadeFrames, 0)
	graceFrames := framesFor(s.cfg.StopGrace, rate)

	frames := s.cfg.BufferFrames
	buf := make([]int16, frames*Channels)
	var decoded int64

	for {
		if _, err := s.emu.Render(buf, frames); err != nil {
			s.log.Warn().Err(err).Msg("usf_render failed")
			return
		}
		decoded += int64(frames)

		if !loop && fadeFrames > 0 && decoded > fadeStart {
			applyVolume(buf, fadeVolume(decoded, fadeStart, fadeFrames))
		}

		switch s.client.SubmitData(buf) {
		case CommandStop:
			return

		case CommandSeek:
			target := s.client.SeekTime()
			targetFrames := framesFor(target, rate)

			// Seeking into the fade keeps the track playing forever.
			if !loop && targetFrames >= fadeStart {
				loop = true
				s.log.Debug().Dur("target", target).Msg("Seek past fade start, looping")
			}

			// There is no direct seek: restart and render up to the target.
			s.emu.Restart()
			if targetFrames > 0 {
				if _, err := s.emu.Render(nil, int(targetFrames)); err != nil {
					s.log.Warn().Err(err).Msg("usf_render failed while seeking")
					s.client.SeekError()
					return
				}
			}
			decoded = targetFrames

			s.client.CommandFinished()
			s.client.SubmitTimestamp(target + s.cfg.SeekCorrection)
			continue
		}

		if !loop && decoded > totalFrames+graceFrames {
			return
		}
	}
}

// framesFor converts d to a frame count at rate, with millisecond precision.
func framesFor(d time.Duration, rate int) int64 {
	if d <= 0 {
		return 0
	}
	return d.Milliseconds() * int64(rate) / 1000
}

// fadeVolume is the linear fade gain after decoded frames. It is 1 before
// fadeStart and reaches 0 at fadeStart+fadeFrames.
func fadeVolume(decoded, fadeStart, fadeFrames int64) float64 {
	if fadeFrames <= 0 || decoded <= fadeStart {
		return 1
	}
	vol := 1 - float64(decoded-fadeStart)/float64(fadeFrames)
	return lo.Clamp(vol, 0, 1)
}

// applyVolume scales every sample of every channel by vol.
func applyVolume(buf []int16, vol float64) {
	for i := range buf {
		buf[i] = int16(float64(buf[i]) * vol)
	}
}
