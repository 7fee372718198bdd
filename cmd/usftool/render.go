package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/usf-player/pkg/audio"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		outPath string
		limit   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a USF file to WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			if outPath == "" {
				outPath = wavPath(in)
			}

			out, err := audio.NewWAVOutput(outPath)
			if err != nil {
				return err
			}
			rendered, err := audio.Export(flags.plugin(), in, out, limit)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", in, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", outPath, rendered.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output WAV file (default: input name with .wav)")
	cmd.Flags().DurationVar(&limit, "max", audio.DefaultExportLimit, "Maximum length to render for endless tracks")
	return cmd
}

func wavPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".wav"
}
