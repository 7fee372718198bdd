//go:build gui

package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/olivierh59500/usf-player/pkg/decoder"
)

// itemTags collects scan results into a playlist item.
type itemTags struct {
	item *PlaylistItem
}

func (t itemTags) OnTag(tag decoder.TagType, value string) {
	switch tag {
	case decoder.TagTitle:
		t.item.Title = value
	case decoder.TagArtist:
		t.item.Artist = value
	case decoder.TagAlbum:
		t.item.Game = value
	}
}

func (t itemTags) OnDuration(d time.Duration) {
	t.item.Duration = d.Milliseconds()
}

// scanItem builds a playlist item from the tags of path.
func scanItem(plugin *decoder.Plugin, path string) (*PlaylistItem, error) {
	item := &PlaylistItem{Path: path}
	if !plugin.Scan(path, itemTags{item}) {
		return nil, fmt.Errorf("cannot read %s", filepath.Base(path))
	}
	if item.Title == "" {
		item.Title = trackName(path)
	}
	if item.Artist == "" {
		item.Artist = "Unknown"
	}
	return item, nil
}

// randomIndex picks a track other than current when there is a choice.
func randomIndex(n, current int) int {
	if n <= 1 {
		return 0
	}
	i := rand.IntN(n - 1)
	if i >= current && current >= 0 {
		i++
	}
	return i
}

// folderWatcher reports USF files created in watched folders.
type folderWatcher struct {
	watcher *fsnotify.Watcher
	plugin  *decoder.Plugin
	log     zerolog.Logger
	onItem  func(*PlaylistItem)
	// settle is how long a new file is left alone before it is scanned,
	// so that copies in progress are read complete.
	settle time.Duration
}

func newFolderWatcher(plugin *decoder.Plugin, log zerolog.Logger, onItem func(*PlaylistItem)) (*folderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &folderWatcher{
		watcher: w,
		plugin:  plugin,
		log:     log,
		onItem:  onItem,
		settle:  500 * time.Millisecond,
	}
	go fw.run()
	return fw, nil
}

func (fw *folderWatcher) Add(dir string) error {
	return fw.watcher.Add(dir)
}

func (fw *folderWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *folderWatcher) run() {
	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	quit := make(chan struct{})
	defer close(quit)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				for _, t := range pending {
					t.Stop()
				}
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !fw.plugin.SupportsFile(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(fw.settle)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(fw.settle, func() {
				select {
				case ready <- name:
				case <-quit:
				}
			})

		case name := <-ready:
			delete(pending, name)
			item, err := scanItem(fw.plugin, name)
			if err != nil {
				fw.log.Debug().Err(err).Str("file", name).Msg("Skipping new file")
				continue
			}
			fw.onItem(item)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				fw.log.Warn().Msg("Folder watch overflowed, some files were missed")
				continue
			}
			fw.log.Warn().Err(err).Msg("Folder watch error")
		}
	}
}
