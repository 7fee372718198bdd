//go:build gui

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/olivierh59500/usf-player/pkg/audio"
	"github.com/olivierh59500/usf-player/pkg/decoder"
)

const seekSteps = 1000

type USFPlayerGUI struct {
	app    fyne.App
	window fyne.Window
	log    zerolog.Logger

	// Player
	plugin *decoder.Plugin
	player *audio.Player
	// generation changes on every start and stop so a finished track can
	// tell whether it still owns the player.
	generation int

	// Playlist
	playlist       *Playlist
	currentIndex   int
	selectedIndex  int
	playlistWidget *widget.List
	shuffle        bool
	repeatMode     RepeatMode
	watcher        *folderWatcher

	// UI Elements
	titleLabel     *widget.Label
	gameLabel      *widget.Label
	artistLabel    *widget.Label
	timeLabel      *widget.Label
	seekSlider     *widget.Slider
	volumeSlider   *widget.Slider
	playButton     *widget.Button
	pauseButton    *widget.Button
	stopButton     *widget.Button
	prevButton     *widget.Button
	nextButton     *widget.Button
	shuffleCheck   *widget.Check
	repeatButton   *widget.Button
	statusLabel    *widget.Label
	removeButton   *widget.Button
	moveUpButton   *widget.Button
	moveDownButton *widget.Button
	playlistLabel  *widget.Label

	ticker *time.Ticker
	done   chan struct{}
}

// RepeatMode defines playlist repeat behavior
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatOne
	RepeatAll
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOne:
		return "Repeat: One"
	case RepeatAll:
		return "Repeat: All"
	}
	return "Repeat: Off"
}

func NewUSFPlayerGUI(log zerolog.Logger) *USFPlayerGUI {
	plugin := decoder.New(decoder.WithLogger(log))

	out, err := audio.NewSystemOutput()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create audio output")
	}

	p := &USFPlayerGUI{
		app:           app.NewWithID("io.github.olivierh59500.usfplayer"),
		log:           log,
		plugin:        plugin,
		player:        audio.NewPlayer(plugin, out, log),
		playlist:      NewPlaylist("Default"),
		currentIndex:  -1,
		selectedIndex: -1,
		done:          make(chan struct{}),
	}
	p.createUI()
	return p
}

func (p *USFPlayerGUI) createUI() {
	p.window = p.app.NewWindow("USF Player")
	p.window.Resize(fyne.NewSize(900, 600))

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Add Files...", p.addFiles),
		fyne.NewMenuItem("Add Folder...", p.addFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Playlist...", p.savePlaylist),
		fyne.NewMenuItem("Load Playlist...", p.loadPlaylist),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Current to WAV...", p.exportWAV),
	)

	playlistMenu := fyne.NewMenu("Playlist",
		fyne.NewMenuItem("Clear All", p.clearPlaylist),
		fyne.NewMenuItem("Sort by Title", func() { p.sortPlaylist(SortByTitle) }),
		fyne.NewMenuItem("Sort by Game", func() { p.sortPlaylist(SortByGame) }),
		fyne.NewMenuItem("Sort by Artist", func() { p.sortPlaylist(SortByArtist) }),
		fyne.NewMenuItem("Sort by Duration", func() { p.sortPlaylist(SortByDuration) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Shuffle", p.shufflePlaylist),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", p.showAbout),
	)

	p.window.SetMainMenu(fyne.NewMainMenu(fileMenu, playlistMenu, helpMenu))

	split := container.NewHSplit(p.createMainContent(), p.createPlaylistContent())
	split.SetOffset(0.6)

	p.window.SetContent(split)
	p.window.SetOnClosed(p.cleanup)

	p.startUpdateTicker()
}

func (p *USFPlayerGUI) createMainContent() fyne.CanvasObject {
	p.titleLabel = widget.NewLabel("No file loaded")
	p.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.gameLabel = widget.NewLabel("")
	p.artistLabel = widget.NewLabel("")

	infoCard := widget.NewCard("Now Playing", "", container.NewVBox(
		p.titleLabel,
		p.gameLabel,
		p.artistLabel,
	))

	p.timeLabel = widget.NewLabel("00:00 / 00:00")
	p.timeLabel.Alignment = fyne.TextAlignCenter

	p.seekSlider = widget.NewSlider(0, seekSteps)
	p.seekSlider.OnChangeEnded = p.seekTo

	p.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), p.playPrevious)
	p.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), p.play)
	p.pauseButton = widget.NewButtonWithIcon("", theme.MediaPauseIcon(), p.pause)
	p.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), p.stop)
	p.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), p.playNext)

	p.playButton.Disable()
	p.pauseButton.Disable()
	p.stopButton.Disable()
	p.prevButton.Disable()
	p.nextButton.Disable()

	buttons := container.NewHBox(
		layout.NewSpacer(),
		p.prevButton,
		p.playButton,
		p.pauseButton,
		p.stopButton,
		p.nextButton,
		layout.NewSpacer(),
	)

	p.volumeSlider = widget.NewSlider(0, 2)
	p.volumeSlider.Value = 1.0
	p.volumeSlider.Step = 0.01
	volumeLabel := widget.NewLabel("100%")
	p.volumeSlider.OnChanged = func(value float64) {
		p.player.SetVolume(value)
		volumeLabel.SetText(fmt.Sprintf("%.0f%%", value*100))
	}

	volume := container.NewBorder(
		nil, nil,
		container.NewHBox(widget.NewIcon(theme.VolumeUpIcon()), widget.NewLabel("Volume:")),
		volumeLabel,
		p.volumeSlider,
	)

	p.shuffleCheck = widget.NewCheck("Shuffle", func(checked bool) {
		p.shuffle = checked
	})
	p.repeatButton = widget.NewButton(RepeatNone.String(), p.toggleRepeatMode)

	p.statusLabel = widget.NewLabel("Ready")
	statusBar := container.NewBorder(widget.NewSeparator(), nil, nil, p.statusLabel, nil)

	content := container.NewVBox(
		infoCard,
		widget.NewSeparator(),
		p.seekSlider,
		p.timeLabel,
		buttons,
		widget.NewSeparator(),
		volume,
		container.NewHBox(p.shuffleCheck, p.repeatButton),
		layout.NewSpacer(),
		statusBar,
	)
	return container.NewPadded(content)
}

func (p *USFPlayerGUI) createPlaylistContent() fyne.CanvasObject {
	p.playlistLabel = widget.NewLabel("Playlist (0 items)")
	p.playlistLabel.TextStyle = fyne.TextStyle{Bold: true}

	p.playlistWidget = widget.NewList(
		func() int {
			return p.playlist.Size()
		},
		func() fyne.CanvasObject {
			title := widget.NewLabel("")
			title.Truncation = fyne.TextTruncateEllipsis
			duration := widget.NewLabel("")
			return container.NewBorder(nil, nil, nil, duration, title)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			title := box.Objects[0].(*widget.Label)
			duration := box.Objects[1].(*widget.Label)

			item, err := p.playlist.Get(id)
			if err != nil {
				return
			}
			title.SetText(itemLabel(item))
			duration.SetText(formatLength(item.Length()))
			if id == p.currentIndex {
				title.TextStyle = fyne.TextStyle{Bold: true}
			} else {
				title.TextStyle = fyne.TextStyle{}
			}
		},
	)

	p.playlistWidget.OnSelected = func(id widget.ListItemID) {
		p.selectedIndex = id
		p.removeButton.Enable()
		p.moveUpButton.Enable()
		p.moveDownButton.Enable()
		if id != p.currentIndex {
			p.playFromIndex(id)
		}
	}
	p.playlistWidget.OnUnselected = func(widget.ListItemID) {
		p.selectedIndex = -1
		p.removeButton.Disable()
		p.moveUpButton.Disable()
		p.moveDownButton.Disable()
	}

	addButton := widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), p.addFiles)
	p.removeButton = widget.NewButtonWithIcon("Remove", theme.ContentRemoveIcon(), p.removeSelected)
	clearButton := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), p.clearPlaylist)
	p.moveUpButton = widget.NewButtonWithIcon("", theme.MoveUpIcon(), p.moveSelectedUp)
	p.moveDownButton = widget.NewButtonWithIcon("", theme.MoveDownIcon(), p.moveSelectedDown)

	p.removeButton.Disable()
	p.moveUpButton.Disable()
	p.moveDownButton.Disable()

	buttonBar := container.NewHBox(
		addButton,
		p.removeButton,
		clearButton,
		layout.NewSpacer(),
		p.moveUpButton,
		p.moveDownButton,
	)

	return widget.NewCard("", "", container.NewBorder(
		container.NewVBox(p.playlistLabel, widget.NewSeparator()),
		buttonBar,
		nil, nil,
		container.NewScroll(p.playlistWidget),
	))
}

func (p *USFPlayerGUI) startUpdateTicker() {
	p.ticker = time.NewTicker(200 * time.Millisecond)

	go func() {
		for {
			select {
			case <-p.ticker.C:
				fyne.Do(p.refreshProgress)
			case <-p.done:
				return
			}
		}
	}()
}

func (p *USFPlayerGUI) refreshProgress() {
	pos := p.player.Position()
	total := p.player.Duration()

	switch {
	case p.player.IsPaused() && p.player.IsPlaying():
		p.statusLabel.SetText("Paused")
	case p.player.IsPlaying():
		p.statusLabel.SetText("Playing " + p.player.Format().String())
	default:
		p.statusLabel.SetText("Ready")
	}

	if !p.player.IsPlaying() {
		return
	}
	p.timeLabel.SetText(fmt.Sprintf("%s / %s", formatTime(pos), formatLength(total)))
	if total > 0 {
		// Set directly so OnChangeEnded does not fire a seek
		p.seekSlider.Value = min(float64(pos)/float64(total), 1) * seekSteps
		p.seekSlider.Refresh()
	}
}

func (p *USFPlayerGUI) seekTo(value float64) {
	total := p.player.Duration()
	if total <= 0 || !p.player.IsPlaying() {
		return
	}
	p.player.Seek(time.Duration(value / seekSteps * float64(total)))
}

func (p *USFPlayerGUI) addFiles() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		p.addFileToPlaylist(reader.URI().Path())
	}, p.window)
}

func (p *USFPlayerGUI) addFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}

		files, err := uri.List()
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}

		added := 0
		for _, file := range files {
			if p.plugin.SupportsFile(file.Path()) && p.addFileToPlaylist(file.Path()) {
				added++
			}
		}
		p.watchFolder(uri.Path())

		if added > 0 {
			dialog.ShowInformation("Files Added",
				fmt.Sprintf("Added %d USF files to playlist", added), p.window)
		}
	}, p.window)
}

// watchFolder adds USF files that later appear in dir.
func (p *USFPlayerGUI) watchFolder(dir string) {
	if p.watcher == nil {
		w, err := newFolderWatcher(p.plugin, p.log, func(item *PlaylistItem) {
			fyne.Do(func() { p.addItem(item) })
		})
		if err != nil {
			p.log.Warn().Err(err).Msg("Folder watching unavailable")
			return
		}
		p.watcher = w
	}
	if err := p.watcher.Add(dir); err != nil {
		p.log.Warn().Err(err).Str("dir", dir).Msg("Failed to watch folder")
	}
}

func (p *USFPlayerGUI) addFileToPlaylist(path string) bool {
	item, err := scanItem(p.plugin, path)
	if err != nil {
		p.log.Warn().Err(err).Str("file", path).Msg("Failed to load")
		return false
	}
	return p.addItem(item)
}

func (p *USFPlayerGUI) addItem(item *PlaylistItem) bool {
	if !p.playlist.Add(item) {
		return false
	}
	p.updatePlaylistLabel()
	p.playlistWidget.Refresh()

	if p.playlist.Size() == 1 {
		p.playButton.Enable()
		p.currentIndex = 0
	}
	if p.playlist.Size() > 1 {
		p.prevButton.Enable()
		p.nextButton.Enable()
	}
	return true
}

func (p *USFPlayerGUI) showItem(item *PlaylistItem) {
	p.titleLabel.SetText(item.Title)
	p.gameLabel.SetText(item.Game)
	if item.Artist != "" {
		p.artistLabel.SetText("by " + item.Artist)
	} else {
		p.artistLabel.SetText("")
	}
	p.seekSlider.Value = 0
	p.seekSlider.Refresh()
	p.timeLabel.SetText(fmt.Sprintf("00:00 / %s", formatLength(item.Length())))
}

func (p *USFPlayerGUI) play() {
	if p.player.IsPlaying() {
		return
	}
	item, err := p.playlist.Get(p.currentIndex)
	if err != nil {
		return
	}

	p.showItem(item)
	if err := p.player.Play(item.Path); err != nil {
		dialog.ShowError(err, p.window)
		return
	}
	p.generation++
	p.watchTrack(p.generation)

	p.playButton.Disable()
	p.pauseButton.Enable()
	p.stopButton.Enable()
	p.playlistWidget.Refresh()
}

// watchTrack advances the playlist when the track started at generation
// ends by itself.
func (p *USFPlayerGUI) watchTrack(generation int) {
	done := p.player.Done()
	go func() {
		<-done
		err := p.player.Wait()
		fyne.Do(func() {
			if generation != p.generation {
				return
			}
			p.trackEnded(err)
		})
	}()
}

func (p *USFPlayerGUI) trackEnded(err error) {
	p.resetControls()
	if err != nil {
		p.statusLabel.SetText("Error: " + err.Error())
		p.log.Warn().Err(err).Msg("Playback failed")
		return
	}

	switch {
	case p.repeatMode == RepeatOne:
		p.playFromIndex(p.currentIndex)
	case p.repeatMode == RepeatAll || p.shuffle || p.currentIndex < p.playlist.Size()-1:
		p.playNext()
	}
}

func (p *USFPlayerGUI) pause() {
	if !p.player.IsPlaying() {
		return
	}
	if p.player.TogglePause() {
		p.pauseButton.SetIcon(theme.MediaPlayIcon())
	} else {
		p.pauseButton.SetIcon(theme.MediaPauseIcon())
	}
}

func (p *USFPlayerGUI) stop() {
	p.generation++
	p.player.Stop()
	p.resetControls()
	p.seekSlider.Value = 0
	p.seekSlider.Refresh()
}

func (p *USFPlayerGUI) resetControls() {
	p.playButton.Enable()
	p.pauseButton.Disable()
	p.pauseButton.SetIcon(theme.MediaPauseIcon())
	p.stopButton.Disable()
	if p.player.IsPaused() {
		p.player.Resume()
	}
}

func (p *USFPlayerGUI) playFromIndex(index int) {
	if index < 0 || index >= p.playlist.Size() {
		return
	}
	p.stop()
	p.currentIndex = index
	p.play()
}

func (p *USFPlayerGUI) playNext() {
	n := p.playlist.Size()
	if n == 0 {
		return
	}
	if p.shuffle {
		p.playFromIndex(randomIndex(n, p.currentIndex))
		return
	}

	next := (p.currentIndex + 1) % n
	if next == 0 && p.repeatMode == RepeatNone {
		p.stop()
		return
	}
	p.playFromIndex(next)
}

func (p *USFPlayerGUI) playPrevious() {
	if p.playlist.Size() == 0 {
		return
	}
	prev := p.currentIndex - 1
	if prev < 0 {
		prev = p.playlist.Size() - 1
	}
	p.playFromIndex(prev)
}

func (p *USFPlayerGUI) removeSelected() {
	index := p.selectedIndex
	if index == p.currentIndex {
		p.stop()
		p.currentIndex = -1
	}
	if err := p.playlist.Remove(index); err != nil {
		return
	}
	if p.currentIndex > index {
		p.currentIndex--
	}
	p.playlistWidget.UnselectAll()
	p.updatePlaylistLabel()
	p.playlistWidget.Refresh()
	if p.playlist.Size() == 0 {
		p.playButton.Disable()
	}
}

func (p *USFPlayerGUI) moveSelectedUp() {
	index := p.selectedIndex
	if p.playlist.MoveUp(index) != nil {
		return
	}
	p.followMove(index, index-1)
}

func (p *USFPlayerGUI) moveSelectedDown() {
	index := p.selectedIndex
	if p.playlist.MoveDown(index) != nil {
		return
	}
	p.followMove(index, index+1)
}

// followMove keeps the current and selected indexes on the moved items.
func (p *USFPlayerGUI) followMove(from, to int) {
	switch p.currentIndex {
	case from:
		p.currentIndex = to
	case to:
		p.currentIndex = from
	}
	p.selectedIndex = to
	p.playlistWidget.Refresh()
}

func (p *USFPlayerGUI) clearPlaylist() {
	dialog.ShowConfirm("Clear Playlist",
		"Are you sure you want to clear the entire playlist?",
		func(ok bool) {
			if !ok {
				return
			}
			p.stop()
			p.playlist.Clear()
			p.currentIndex = -1
			p.playlistWidget.UnselectAll()
			p.updatePlaylistLabel()
			p.playlistWidget.Refresh()
			p.playButton.Disable()
		}, p.window)
}

func (p *USFPlayerGUI) savePlaylist() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()

		path := writer.URI().Path()
		var saveErr error
		if strings.HasSuffix(strings.ToLower(path), ".m3u") {
			saveErr = p.playlist.SaveM3U(path)
		} else {
			if !strings.HasSuffix(path, ".json") {
				os.Remove(path)
				path += ".json"
			}
			saveErr = p.playlist.Save(path)
		}

		if saveErr != nil {
			dialog.ShowError(saveErr, p.window)
		} else {
			dialog.ShowInformation("Success", "Playlist saved successfully", p.window)
		}
	}, p.window)
}

func (p *USFPlayerGUI) loadPlaylist() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()

		path := reader.URI().Path()
		var loaded *Playlist
		if strings.HasSuffix(strings.ToLower(path), ".m3u") {
			loaded, err = LoadM3U(path)
		} else {
			loaded, err = LoadPlaylist(path)
		}
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}

		p.stop()
		p.playlist = loaded
		p.currentIndex = -1
		p.playlistWidget.UnselectAll()
		p.updatePlaylistLabel()
		p.playlistWidget.Refresh()

		if p.playlist.Size() > 0 {
			p.playButton.Enable()
			p.currentIndex = 0
		}
	}, p.window)
}

func (p *USFPlayerGUI) sortPlaylist(by SortBy) {
	current, _ := p.playlist.Get(p.currentIndex)
	p.playlist.Sort(by)
	p.relocateCurrent(current)
}

func (p *USFPlayerGUI) shufflePlaylist() {
	current, _ := p.playlist.Get(p.currentIndex)
	p.playlist.Shuffle()
	p.relocateCurrent(current)
}

func (p *USFPlayerGUI) relocateCurrent(current *PlaylistItem) {
	if current != nil {
		for i, item := range p.playlist.Items {
			if item == current {
				p.currentIndex = i
			}
		}
	}
	p.playlistWidget.UnselectAll()
	p.playlistWidget.Refresh()
}

func (p *USFPlayerGUI) toggleRepeatMode() {
	p.repeatMode = (p.repeatMode + 1) % 3
	p.repeatButton.SetText(p.repeatMode.String())
}

func (p *USFPlayerGUI) updatePlaylistLabel() {
	p.playlistLabel.SetText(fmt.Sprintf("Playlist (%d items, %s)",
		p.playlist.Size(), formatTime(p.playlist.TotalDuration())))
}

func (p *USFPlayerGUI) exportWAV() {
	item, err := p.playlist.Get(p.currentIndex)
	if err != nil {
		dialog.ShowInformation("No file loaded", "Please load a USF file first", p.window)
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()

		progress := dialog.NewCustomWithoutButtons("Exporting to WAV",
			widget.NewProgressBarInfinite(), p.window)
		progress.Show()

		go func() {
			out, _ := audio.NewWAVOutput(path)
			rendered, err := audio.Export(p.plugin, item.Path, out, audio.DefaultExportLimit)

			fyne.Do(func() {
				progress.Hide()
				if err != nil {
					dialog.ShowError(err, p.window)
					return
				}
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Exported %s of %s", formatTime(rendered), filepath.Base(item.Path)), p.window)
			})
		}()
	}, p.window)
}

func (p *USFPlayerGUI) showAbout() {
	about := container.NewVBox(
		widget.NewLabelWithStyle("USF Player", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Plays Nintendo 64 USF and miniUSF rips"),
		widget.NewLabel("Emulation by lazyusf2, container parsing by psflib"),
		widget.NewLabel("Playlists, folder watching, WAV export"),
	)
	dialog.ShowCustom("About USF Player", "OK", about, p.window)
}

func (p *USFPlayerGUI) cleanup() {
	if p.ticker != nil {
		p.ticker.Stop()
		close(p.done)
		p.ticker = nil
	}
	if p.watcher != nil {
		p.watcher.Close()
	}
	p.generation++
	p.player.Stop()
}

func (p *USFPlayerGUI) Run() {
	p.window.ShowAndRun()
}

func itemLabel(item *PlaylistItem) string {
	switch {
	case item.Game != "" && item.Artist != "":
		return fmt.Sprintf("%s - %s (%s)", item.Title, item.Artist, item.Game)
	case item.Game != "":
		return fmt.Sprintf("%s (%s)", item.Title, item.Game)
	case item.Artist != "":
		return fmt.Sprintf("%s - %s", item.Title, item.Artist)
	}
	return item.Title
}

func formatTime(d time.Duration) string {
	seconds := int(d / time.Second)
	minutes := seconds / 60
	seconds %= 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func formatLength(d time.Duration) string {
	if d <= 0 {
		return "∞"
	}
	return formatTime(d)
}
