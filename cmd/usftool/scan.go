package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

func scanCmd(flags *globalFlags) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "scan <file-or-dir>...",
		Short: "Print the tags and lengths of USF files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plugin := flags.plugin()
			files, err := collectFiles(plugin, args, recursive)
			if err != nil {
				return err
			}
			rows := scanFiles(plugin, files)
			renderScanTable(cmd.OutOrStdout(), rows)

			if failed := lo.CountBy(rows, func(r scanRow) bool { return !r.ok }); failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	return cmd
}

// scanRow is the scan result of one file.
type scanRow struct {
	path     string
	ok       bool
	tags     map[decoder.TagType]string
	duration time.Duration
}

func (r *scanRow) OnTag(tag decoder.TagType, value string) {
	r.tags[tag] = value
}

func (r *scanRow) OnDuration(d time.Duration) {
	r.duration = d
}

func scanFiles(plugin *decoder.Plugin, files []string) []scanRow {
	return lo.Map(files, func(path string, _ int) scanRow {
		row := scanRow{path: path, tags: make(map[decoder.TagType]string)}
		row.ok = plugin.Scan(path, &row)
		return row
	})
}

// collectFiles expands directories into the USF files they contain.
func collectFiles(plugin *decoder.Plugin, args []string, recursive bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if plugin.SupportsFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func renderScanTable(w io.Writer, rows []scanRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Title", "Game", "Artist", "Year", "Length"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Length", Align: text.AlignRight},
	})

	for _, r := range rows {
		length := "endless"
		switch {
		case !r.ok:
			length = "error"
		case r.duration > 0:
			length = decoder.FormatDuration(r.duration)
		}
		t.AppendRow(table.Row{
			filepath.Base(r.path),
			r.tags[decoder.TagTitle],
			r.tags[decoder.TagAlbum],
			r.tags[decoder.TagArtist],
			r.tags[decoder.TagDate],
			length,
		})
	}

	total := lo.SumBy(rows, func(r scanRow) time.Duration { return r.duration })
	t.AppendFooter(table.Row{fmt.Sprintf("%d files", len(rows)), "", "", "", "", decoder.FormatDuration(total)})
	t.Render()
}
