//go:build gui

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olivierh59500/usf-player/internal/mocks"
	"github.com/olivierh59500/usf-player/pkg/decoder"
)

func samplePlaylist() *Playlist {
	p := NewPlaylist("N64")
	p.Add(&PlaylistItem{Path: "/music/b.miniusf", Title: "Slider", Artist: "Koji Kondo", Game: "Super Mario 64", Duration: 150000})
	p.Add(&PlaylistItem{Path: "/music/a.miniusf", Title: "Dire Dire Docks", Artist: "Koji Kondo", Game: "Super Mario 64", Duration: 0})
	p.Add(&PlaylistItem{Path: "/music/c.miniusf", Title: "Gerudo Valley", Artist: "Koji Kondo", Game: "Zelda 64", Duration: 90000})
	return p
}

func TestPlaylistAddSkipsDuplicates(t *testing.T) {
	p := samplePlaylist()
	if p.Add(&PlaylistItem{Path: "/music/a.miniusf"}) {
		t.Error("expected a duplicate path to be rejected")
	}
	if p.Size() != 3 {
		t.Errorf("expected 3 items, got %d", p.Size())
	}
}

func TestPlaylistEditing(t *testing.T) {
	p := samplePlaylist()

	if err := p.MoveUp(1); err != nil {
		t.Fatal(err)
	}
	if first, _ := p.Get(0); first.Title != "Dire Dire Docks" {
		t.Errorf("unexpected first item %q", first.Title)
	}
	if err := p.MoveUp(0); err == nil {
		t.Error("expected an error moving the first item up")
	}
	if err := p.MoveDown(2); err == nil {
		t.Error("expected an error moving the last item down")
	}

	if err := p.Remove(0); err != nil {
		t.Fatal(err)
	}
	if err := p.Remove(5); err == nil {
		t.Error("expected an error for an out of range index")
	}
	if p.Size() != 2 {
		t.Errorf("expected 2 items, got %d", p.Size())
	}

	p.Clear()
	if p.Size() != 0 {
		t.Error("expected an empty playlist")
	}
}

func TestPlaylistTotalDuration(t *testing.T) {
	if d := samplePlaylist().TotalDuration(); d != 240*time.Second {
		t.Errorf("expected 4 minutes, got %v", d)
	}
}

func TestPlaylistSort(t *testing.T) {
	p := samplePlaylist()

	p.Sort(SortByTitle)
	if p.Items[0].Title != "Dire Dire Docks" || p.Items[2].Title != "Slider" {
		t.Errorf("unexpected title order %v", titles(p))
	}

	p.Sort(SortByDuration)
	if p.Items[0].Duration != 0 || p.Items[2].Duration != 150000 {
		t.Errorf("unexpected duration order %v", titles(p))
	}

	p.Sort(SortByGame)
	if p.Items[2].Game != "Zelda 64" {
		t.Errorf("unexpected game order %v", titles(p))
	}
}

func TestPlaylistShuffleKeepsItems(t *testing.T) {
	p := samplePlaylist()
	p.Shuffle()
	for _, path := range []string{"/music/a.miniusf", "/music/b.miniusf", "/music/c.miniusf"} {
		if !p.Contains(path) {
			t.Errorf("shuffle lost %s", path)
		}
	}
}

func TestPlaylistJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	if err := samplePlaylist().Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadPlaylist(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "N64" || loaded.Size() != 3 || loaded.Items[0].Game != "Super Mario 64" {
		t.Errorf("unexpected playlist %+v", loaded)
	}
}

func TestLoadPlaylistInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0o644)
	if _, err := LoadPlaylist(path); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestPlaylistM3U(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.m3u")
	if err := samplePlaylist().SaveM3U(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadM3U(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "N64" || loaded.Size() != 3 {
		t.Fatalf("unexpected playlist %+v", loaded)
	}
	first := loaded.Items[0]
	if first.Title != "Slider" || first.Artist != "Koji Kondo" || first.Duration != 150000 {
		t.Errorf("unexpected first item %+v", first)
	}
	if loaded.Items[1].Duration != 0 {
		t.Errorf("expected an endless track to stay endless, got %d", loaded.Items[1].Duration)
	}
}

func TestLoadM3UResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.m3u")
	os.WriteFile(path, []byte("01 Intro.miniusf\r\nnotes.txt\r\n# comment\r\n\r\n/abs/02.usf\r\n"), 0o644)

	loaded, err := LoadM3U(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("expected 2 items, got %d", loaded.Size())
	}
	if loaded.Items[0].Path != filepath.Join(dir, "01 Intro.miniusf") || loaded.Items[0].Title != "01 Intro" {
		t.Errorf("unexpected item %+v", loaded.Items[0])
	}
	if loaded.Items[1].Path != "/abs/02.usf" {
		t.Errorf("unexpected item %+v", loaded.Items[1])
	}
}

func TestScanItem(t *testing.T) {
	container := mocks.NewMockContainer(
		mocks.Tag("title", "Koopa's Road"),
		mocks.Tag("game", "Super Mario 64"),
		mocks.Tag("length", "1:05"),
	)
	plugin := decoder.New(decoder.WithContainer(container))

	item, err := scanItem(plugin, "/music/koopa.miniusf")
	if err != nil {
		t.Fatal(err)
	}
	if item.Title != "Koopa's Road" || item.Game != "Super Mario 64" || item.Artist != "Unknown" || item.Duration != 65000 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestRandomIndexAvoidsCurrent(t *testing.T) {
	for range 100 {
		if i := randomIndex(3, 1); i == 1 || i < 0 || i > 2 {
			t.Fatalf("unexpected index %d", i)
		}
	}
	if randomIndex(1, 0) != 0 {
		t.Error("expected the only track")
	}
}

func titles(p *Playlist) []string {
	var out []string
	for _, it := range p.Items {
		out = append(out, it.Title)
	}
	return out
}
