// Package decoder plays USF and miniUSF files: it walks the container
// records, uploads the ROM image into the emulator, turns the length and
// fade tags into a sample-accurate end of track, and renders fixed-size
// PCM blocks for a host with linear fade-out and restart-based seeking.
package decoder

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/olivierh59500/usf-player/pkg/psf"
	"github.com/olivierh59500/usf-player/pkg/usf"
)

// Domain is the logging domain of the plugin.
const Domain = "usf"

// DefaultBufferFrames is the size of one rendered block in stereo frames.
const DefaultBufferFrames = 2048

var suffixes = []string{"usf", "miniusf"}

// Config holds the tunable constants of the render loop.
type Config struct {
	// BufferFrames is the number of stereo frames per submitted block.
	BufferFrames int
	// StopGrace is how far past the tagged length playback may run before
	// it stops on its own.
	StopGrace time.Duration
	// SeekCorrection is added to the seek target when reporting the new
	// position to the host.
	SeekCorrection time.Duration
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		BufferFrames: DefaultBufferFrames,
	}
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithConfig sets the render loop configuration.
func WithConfig(cfg Config) Option {
	return func(p *Plugin) { p.cfg = cfg }
}

// WithLogger sets the logger. The plugin tags it with its domain.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Plugin) { p.log = log }
}

// WithContainer replaces the psflib container parser.
func WithContainer(c Container) Option {
	return func(p *Plugin) { p.container = c }
}

// WithEmulatorFactory replaces the lazyusf2 emulator.
func WithEmulatorFactory(f EmulatorFactory) Option {
	return func(p *Plugin) { p.newEmulator = f }
}

// Plugin is the USF decoder plugin.
type Plugin struct {
	cfg         Config
	log         zerolog.Logger
	container   Container
	newEmulator EmulatorFactory
}

// New creates a Plugin backed by psflib and lazyusf2 unless options say
// otherwise.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		cfg:       DefaultConfig(),
		log:       zerolog.Nop(),
		container: psf.NewLoader(),
		newEmulator: func() (Emulator, error) {
			return usf.New()
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg.BufferFrames <= 0 {
		p.cfg.BufferFrames = DefaultBufferFrames
	}
	p.log = p.log.With().Str("domain", Domain).Logger()
	return p
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Domain
}

// Suffixes returns the file suffixes the plugin handles.
func (p *Plugin) Suffixes() []string {
	return append([]string(nil), suffixes...)
}

// Config returns the active configuration.
func (p *Plugin) Config() Config {
	return p.cfg
}

// SupportsFile reports whether path has a USF suffix.
func (p *Plugin) SupportsFile(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return lo.Contains(suffixes, ext)
}

// Decode plays path through client. Failures are logged and end the call;
// the emulator is released on every path.
func (p *Plugin) Decode(client Client, path string) {
	log := p.log.With().Str("file", filepath.Base(path)).Logger()

	emu, err := p.newEmulator()
	if err != nil {
		log.Warn().Err(err).Msg("Error creating usf emulator")
		return
	}
	defer func() {
		if err := emu.Close(); err != nil {
			log.Warn().Err(err).Msg("Error releasing usf emulator")
		}
	}()

	file, err := p.container.Load(path, psf.LoadOptions{Version: psf.VersionUSF, Payload: true})
	if err != nil {
		log.Warn().Err(err).Msg("Error loading usf file")
		return
	}
	if file.Version < 0 {
		log.Warn().Int("version", file.Version).Msg("Error loading usf file")
		return
	}

	tags := NewCollector(nil)
	for chunk := range file.Chunks() {
		switch chunk.Kind {
		case psf.ChunkProgram:
			if err := uploadProgram(emu, chunk); err != nil {
				log.Warn().Err(err).Msg("Error loading usf file")
				return
			}
		case psf.ChunkTag:
			tags.Add(chunk.Name, chunk.Value)
		}
	}

	emu.SetCompare(tags.Flags.EnableCompare)
	emu.SetFIFOFull(tags.Flags.EnableFIFOFull)

	s := &session{
		cfg:    p.cfg,
		log:    log,
		emu:    emu,
		client: client,
		length: tags.Length,
	}
	s.run()
}

// Scan reports the tags and the duration of path without touching the
// emulator. It returns false when the container cannot be read. A nil
// handler only checks that the file loads.
func (p *Plugin) Scan(path string, handler TagHandler) bool {
	file, err := p.container.Load(path, psf.LoadOptions{})
	if err != nil {
		p.log.Debug().Err(err).Str("file", filepath.Base(path)).Msg("Scan failed")
		return false
	}
	if file.Version < 0 {
		return false
	}

	tags := NewCollector(handler)
	for chunk := range file.Chunks() {
		if chunk.Kind == psf.ChunkTag {
			tags.Add(chunk.Name, chunk.Value)
		}
	}

	if handler != nil {
		handler.OnDuration(tags.Length.Total)
	}
	return true
}
