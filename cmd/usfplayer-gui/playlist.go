//go:build gui

package main

import (
	"bufio"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

var errIndexRange = errors.New("index out of range")

// PlaylistItem represents a single track in the playlist
type PlaylistItem struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Game     string `json:"game,omitempty"`
	Duration int64  `json:"duration"` // in milliseconds, 0 for endless tracks
}

// Length returns the tagged track length
func (i *PlaylistItem) Length() time.Duration {
	return time.Duration(i.Duration) * time.Millisecond
}

// Playlist manages a collection of USF files
type Playlist struct {
	Name  string          `json:"name"`
	Items []*PlaylistItem `json:"items"`
}

// NewPlaylist creates a new empty playlist
func NewPlaylist(name string) *Playlist {
	return &Playlist{
		Name:  name,
		Items: make([]*PlaylistItem, 0),
	}
}

// Add appends an item unless its path is already listed
func (p *Playlist) Add(item *PlaylistItem) bool {
	if p.Contains(item.Path) {
		return false
	}
	p.Items = append(p.Items, item)
	return true
}

// Contains reports whether path is in the playlist
func (p *Playlist) Contains(path string) bool {
	return lo.ContainsBy(p.Items, func(it *PlaylistItem) bool { return it.Path == path })
}

// Remove removes an item at the specified index
func (p *Playlist) Remove(index int) error {
	if index < 0 || index >= len(p.Items) {
		return errIndexRange
	}
	p.Items = slices.Delete(p.Items, index, index+1)
	return nil
}

// MoveUp moves an item up in the playlist
func (p *Playlist) MoveUp(index int) error {
	if index <= 0 || index >= len(p.Items) {
		return fmt.Errorf("cannot move item up")
	}
	p.Items[index], p.Items[index-1] = p.Items[index-1], p.Items[index]
	return nil
}

// MoveDown moves an item down in the playlist
func (p *Playlist) MoveDown(index int) error {
	if index < 0 || index >= len(p.Items)-1 {
		return fmt.Errorf("cannot move item down")
	}
	p.Items[index], p.Items[index+1] = p.Items[index+1], p.Items[index]
	return nil
}

// Clear removes all items from the playlist
func (p *Playlist) Clear() {
	p.Items = make([]*PlaylistItem, 0)
}

// Size returns the number of items in the playlist
func (p *Playlist) Size() int {
	return len(p.Items)
}

// Get returns the item at the specified index
func (p *Playlist) Get(index int) (*PlaylistItem, error) {
	if index < 0 || index >= len(p.Items) {
		return nil, errIndexRange
	}
	return p.Items[index], nil
}

// Save saves the playlist to a JSON file
func (p *Playlist) Save(filename string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadPlaylist loads a playlist from a JSON file
func LoadPlaylist(filename string) (*Playlist, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var playlist Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, fmt.Errorf("invalid playlist %s: %w", filepath.Base(filename), err)
	}
	if playlist.Items == nil {
		playlist.Items = make([]*PlaylistItem, 0)
	}
	return &playlist, nil
}

// SaveM3U exports the playlist as extended M3U. Endless tracks get -1.
func (p *Playlist) SaveM3U(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "#EXTM3U")
	fmt.Fprintf(w, "#PLAYLIST:%s\n", p.Name)

	for _, item := range p.Items {
		seconds := int64(-1)
		if item.Duration > 0 {
			seconds = item.Duration / 1000
		}
		fmt.Fprintf(w, "#EXTINF:%d,%s - %s\n", seconds, item.Artist, item.Title)
		fmt.Fprintln(w, item.Path)
	}
	return w.Flush()
}

// LoadM3U loads a playlist from M3U. Relative entries are resolved against
// the playlist's directory and only USF files are kept.
func LoadM3U(filename string) (*Playlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	playlist := NewPlaylist(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	dir := filepath.Dir(filename)

	var pending *PlaylistItem
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#PLAYLIST:"):
			playlist.Name = strings.TrimPrefix(line, "#PLAYLIST:")
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			pending = parseExtInf(strings.TrimPrefix(line, "#EXTINF:"))
			continue
		case line[0] == '#':
			continue
		}

		path := line
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if isUSFPath(path) {
			item := pending
			if item == nil {
				item = &PlaylistItem{Artist: "Unknown"}
			}
			item.Path = path
			if item.Title == "" {
				item.Title = trackName(path)
			}
			playlist.Add(item)
		}
		pending = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return playlist, nil
}

// parseExtInf reads "seconds,Artist - Title".
func parseExtInf(s string) *PlaylistItem {
	item := &PlaylistItem{Artist: "Unknown"}
	secs, label, ok := strings.Cut(s, ",")
	if n, err := strconv.ParseInt(strings.TrimSpace(secs), 10, 64); err == nil && n > 0 {
		item.Duration = n * 1000
	}
	if !ok {
		return item
	}
	if artist, title, ok := strings.Cut(label, " - "); ok {
		item.Artist = artist
		item.Title = title
	} else {
		item.Title = label
	}
	return item
}

// TotalDuration returns the total length of all tracks with a length
func (p *Playlist) TotalDuration() time.Duration {
	return lo.SumBy(p.Items, func(it *PlaylistItem) time.Duration { return it.Length() })
}

// Shuffle randomizes the order of items in the playlist
func (p *Playlist) Shuffle() {
	rand.Shuffle(len(p.Items), func(i, j int) {
		p.Items[i], p.Items[j] = p.Items[j], p.Items[i]
	})
}

// SortBy selects the field used by Sort
type SortBy int

const (
	SortByTitle SortBy = iota
	SortByArtist
	SortByGame
	SortByDuration
	SortByPath
)

func (p *Playlist) Sort(by SortBy) {
	slices.SortStableFunc(p.Items, func(a, b *PlaylistItem) int {
		switch by {
		case SortByTitle:
			return strings.Compare(a.Title, b.Title)
		case SortByArtist:
			return strings.Compare(a.Artist, b.Artist)
		case SortByGame:
			return strings.Compare(a.Game, b.Game)
		case SortByDuration:
			return cmp.Compare(a.Duration, b.Duration)
		}
		return strings.Compare(a.Path, b.Path)
	})
}

func isUSFPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".usf" || ext == ".miniusf"
}

func trackName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
