package decoder_test

import (
	"testing"
	"time"

	"github.com/olivierh59500/usf-player/internal/mocks"
	"github.com/olivierh59500/usf-player/pkg/decoder"
)

func TestCollectorClassification(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  decoder.Class
	}{
		{"_enablecompare", "", decoder.ClassControl},
		{"_enableFIFOfull", "1", decoder.ClassControl},
		{"length", "2:30", decoder.ClassLength},
		{"fade", "10", decoder.ClassLength},
		{"Length", "1:00", decoder.ClassLength},
		{"title", "Bob-omb Battlefield", decoder.ClassMetadata},
		{"Title", "Bob-omb Battlefield", decoder.ClassMetadata},
		{"game", "Super Mario 64", decoder.ClassMetadata},
		{"_lib", "sm64.usflib", decoder.ClassIgnored},
		{"usfby", "Lasko", decoder.ClassIgnored},
		{"_enableFIFOFULL", "", decoder.ClassIgnored},
	}

	for _, tc := range tests {
		c := decoder.NewCollector(nil)
		if got := c.Add(tc.name, tc.value); got != tc.want {
			t.Errorf("Add(%q) classified as %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestCollectorControlFlags(t *testing.T) {
	c := decoder.NewCollector(nil)
	if c.Flags.EnableCompare || c.Flags.EnableFIFOFull {
		t.Fatal("expected flags to start cleared")
	}

	c.Add("_enablecompare", "")
	if !c.Flags.EnableCompare {
		t.Error("expected compare flag to be set")
	}
	if c.Flags.EnableFIFOFull {
		t.Error("expected FIFO flag to stay cleared")
	}

	c.Add("_enableFIFOfull", "")
	if !c.Flags.EnableFIFOFull {
		t.Error("expected FIFO flag to be set")
	}
}

func TestCollectorLength(t *testing.T) {
	c := decoder.NewCollector(nil)
	c.Add("fade", "10")
	c.Add("length", "1:30.5")

	if c.Length.Total != 90*time.Second+500*time.Millisecond {
		t.Errorf("unexpected total %v", c.Length.Total)
	}
	if c.Length.Fade != 10*time.Second {
		t.Errorf("unexpected fade %v", c.Length.Fade)
	}
	if c.Length.Loops() {
		t.Error("expected a tagged length not to loop")
	}
}

func TestCollectorMalformedLengthLoops(t *testing.T) {
	c := decoder.NewCollector(nil)
	c.Add("length", "about three minutes")
	c.Add("fade", "??")

	if c.Length.Total != 0 || c.Length.Fade != 0 {
		t.Errorf("expected malformed tags to be treated as absent, got %+v", c.Length)
	}
	if !c.Length.Loops() {
		t.Error("expected a malformed length to loop forever")
	}
}

func TestCollectorEmitsMappedTags(t *testing.T) {
	h := &mocks.MockTagHandler{}
	c := decoder.NewCollector(h)

	pairs := [][2]string{
		{"title", "Dire, Dire Docks"},
		{"artist", "Koji Kondo"},
		{"composer", "Koji Kondo"},
		{"game", "Super Mario 64"},
		{"year", "1996"},
		{"genre", "Game"},
		{"track", "12"},
		{"copyright", "Nintendo"},
		{"length", "2:40"},
		{"_enablecompare", ""},
	}
	for _, p := range pairs {
		c.Add(p[0], p[1])
	}

	want := []mocks.TagRecord{
		{Type: decoder.TagTitle, Value: "Dire, Dire Docks"},
		{Type: decoder.TagArtist, Value: "Koji Kondo"},
		{Type: decoder.TagComposer, Value: "Koji Kondo"},
		{Type: decoder.TagAlbum, Value: "Super Mario 64"},
		{Type: decoder.TagDate, Value: "1996"},
		{Type: decoder.TagGenre, Value: "Game"},
		{Type: decoder.TagTrack, Value: "12"},
	}
	if len(h.Tags) != len(want) {
		t.Fatalf("expected %d tags, got %d: %+v", len(want), len(h.Tags), h.Tags)
	}
	for i := range want {
		if h.Tags[i] != want[i] {
			t.Errorf("tag %d: expected %+v, got %+v", i, want[i], h.Tags[i])
		}
	}
	if len(h.Durations) != 0 {
		t.Error("collector must not report durations itself")
	}
}

func TestCollectorDecodesShiftJIS(t *testing.T) {
	h := &mocks.MockTagHandler{}
	c := decoder.NewCollector(h)

	// "マリオ" in Shift-JIS
	c.Add("title", "\x83\x7d\x83\x8a\x83\x49")

	if len(h.Tags) != 1 {
		t.Fatalf("expected one tag, got %d", len(h.Tags))
	}
	if h.Tags[0].Value != "マリオ" {
		t.Errorf("expected Shift-JIS title to be decoded, got %q", h.Tags[0].Value)
	}
}

func TestTagTypeString(t *testing.T) {
	if decoder.TagAlbum.String() != "Album" {
		t.Errorf("unexpected name %q", decoder.TagAlbum.String())
	}
	if decoder.TagType(99).String() != "Unknown" {
		t.Errorf("unexpected name %q", decoder.TagType(99).String())
	}
}
