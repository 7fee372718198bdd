package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

type globalFlags struct {
	verbose        bool
	bufferFrames   int
	stopGrace      time.Duration
	seekCorrection time.Duration
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "usftool",
		Short:        "Inspect and render USF/miniUSF files",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose logging")
	root.PersistentFlags().IntVar(&flags.bufferFrames, "buffer", decoder.DefaultBufferFrames, "Render block size in stereo frames")
	root.PersistentFlags().DurationVar(&flags.stopGrace, "grace", 0, "Extra rendering past the tagged length")
	root.PersistentFlags().DurationVar(&flags.seekCorrection, "seek-correction", 0, "Offset added to reported seek positions")

	root.AddCommand(scanCmd(flags), renderCmd(flags))
	return root
}

func (f *globalFlags) plugin() *decoder.Plugin {
	level := zerolog.InfoLevel
	if f.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	return decoder.New(
		decoder.WithLogger(log),
		decoder.WithConfig(decoder.Config{
			BufferFrames:   f.bufferFrames,
			StopGrace:      f.stopGrace,
			SeekCorrection: f.seekCorrection,
		}),
	)
}
