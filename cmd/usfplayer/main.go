package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/olivierh59500/usf-player/pkg/audio"
	"github.com/olivierh59500/usf-player/pkg/decoder"
)

var (
	bufferSize     = flag.Int("buffer", decoder.DefaultBufferFrames, "Render block size in stereo frames")
	volume         = flag.Float64("volume", 1.0, "Volume (0.0 to 10.0)")
	info           = flag.Bool("info", false, "Show file info only")
	output         = flag.String("output", "oto", "Output backend (oto, wav, null)")
	wavFile        = flag.String("wav", "", "Output WAV file (when using wav output)")
	stopGrace      = flag.Duration("grace", 0, "Extra playback past the tagged length")
	seekCorrection = flag.Duration("seek-correction", 0, "Offset added to reported seek positions")
	seekStep       = flag.Duration("seek-step", 10*time.Second, "Seek step for the arrow keys")
	verbose        = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <usf-file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "USF Player - Play Nintendo 64 USF/miniUSF music files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	usfFile := flag.Arg(0)

	if _, err := os.Stat(usfFile); os.IsNotExist(err) {
		log.Fatal().Str("file", usfFile).Msg("File not found")
	}

	plugin := decoder.New(
		decoder.WithLogger(log),
		decoder.WithConfig(decoder.Config{
			BufferFrames:   *bufferSize,
			StopGrace:      *stopGrace,
			SeekCorrection: *seekCorrection,
		}),
	)
	if !plugin.SupportsFile(usfFile) {
		log.Warn().Str("file", usfFile).Msg("Unexpected file suffix, trying anyway")
	}

	tags := &tagPrinter{}
	if !plugin.Scan(usfFile, tags) {
		log.Fatal().Str("file", usfFile).Msg("Failed to read USF file")
	}
	fmt.Printf("\n")
	tags.print()
	fmt.Printf("\n")

	if *info {
		// Info only mode
		return
	}

	audioOut, err := createOutput(usfFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create audio output")
	}

	player := audio.NewPlayer(plugin, audioOut, log)
	player.SetVolume(*volume)

	if err := player.Play(usfFile); err != nil {
		log.Fatal().Err(err).Msg("Failed to start playback")
	}

	fmt.Printf("Playing %s... (space: pause, arrows: seek, q: quit)\n", filepath.Base(usfFile))
	if tags.duration == 0 {
		fmt.Printf("No length tag, looping until stopped\n")
	}
	fmt.Printf("\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	keys, restore := readKeys(log)
	defer restore()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			fmt.Printf("\r\n\r\nStopping...\r\n")
			player.Stop()
			return

		case key := <-keys:
			switch key {
			case keyQuit:
				fmt.Printf("\r\n\r\nStopping...\r\n")
				player.Stop()
				return
			case keyPause:
				player.TogglePause()
			case keyForward:
				player.Seek(player.Position() + *seekStep)
			case keyBack:
				player.Seek(player.Position() - *seekStep)
			case keyVolumeUp:
				player.SetVolume(player.Volume() + 0.1)
			case keyVolumeDown:
				player.SetVolume(player.Volume() - 0.1)
			}

		case <-player.Done():
			restore()
			if err := player.Wait(); err != nil {
				log.Error().Err(err).Msg("Playback failed")
				os.Exit(1)
			}
			fmt.Printf("\n\nPlayback finished.\n")
			return

		case <-ticker.C:
			fmt.Printf("\r%s", progressLine(player))
		}
	}
}

func createOutput(usfFile string) (audio.Output, error) {
	switch *output {
	case "oto":
		return audio.NewSystemOutput()
	case "wav":
		if *wavFile == "" {
			*wavFile = strings.TrimSuffix(usfFile, filepath.Ext(usfFile)) + ".wav"
		}
		return audio.NewWAVOutput(*wavFile)
	case "null":
		return &audio.NullOutput{}, nil
	}
	return nil, fmt.Errorf("unknown output backend: %s", *output)
}

func progressLine(player *audio.Player) string {
	pos := player.Position()
	total := player.Duration()
	state := "  "
	if player.IsPaused() {
		state = "||"
	}

	if total <= 0 {
		return fmt.Sprintf("%s %s (loop) vol %.1f ", state, formatDuration(pos), player.Volume())
	}

	percent := min(float64(pos)/float64(total)*100, 100)
	return fmt.Sprintf("%s [%s] %s / %s (%.1f%%) vol %.1f ",
		state,
		makeProgressBar(percent, 30),
		formatDuration(pos),
		formatDuration(total),
		percent,
		player.Volume())
}

func formatDuration(d time.Duration) string {
	seconds := int(d / time.Second)
	minutes := seconds / 60
	seconds %= 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func makeProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("=", filled)
	if filled < width {
		bar += ">"
		bar += strings.Repeat(" ", width-filled-1)
	}

	return bar
}

// tagPrinter collects scan results for display
type tagPrinter struct {
	tags     []decoder.TagType
	values   map[decoder.TagType]string
	duration time.Duration
}

func (t *tagPrinter) OnTag(tag decoder.TagType, value string) {
	if t.values == nil {
		t.values = make(map[decoder.TagType]string)
	}
	if _, ok := t.values[tag]; !ok {
		t.tags = append(t.tags, tag)
	}
	t.values[tag] = value
}

func (t *tagPrinter) OnDuration(d time.Duration) {
	t.duration = d
}

func (t *tagPrinter) print() {
	for _, tag := range t.tags {
		fmt.Printf("%-9s %s\n", tag.String()+":", t.values[tag])
	}
	if t.duration > 0 {
		fmt.Printf("%-9s %s\n", "Duration:", decoder.FormatDuration(t.duration))
	} else {
		fmt.Printf("%-9s %s\n", "Duration:", "endless")
	}
}
