package decoder

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// TagType is a song metadata field understood by the host.
type TagType int

const (
	TagTitle TagType = iota
	TagArtist
	TagComposer
	TagAlbum
	TagDate
	TagGenre
	TagTrack
)

var tagNames = [...]string{
	TagTitle:    "Title",
	TagArtist:   "Artist",
	TagComposer: "Composer",
	TagAlbum:    "Album",
	TagDate:     "Date",
	TagGenre:    "Genre",
	TagTrack:    "Track",
}

func (t TagType) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "Unknown"
	}
	return tagNames[t]
}

// usfTags maps PSF tag keys to host tag types.
var usfTags = map[string]TagType{
	"title":    TagTitle,
	"artist":   TagArtist,
	"composer": TagComposer,
	"game":     TagAlbum,
	"year":     TagDate,
	"genre":    TagGenre,
	"track":    TagTrack,
}

// Emulator control directives. They carry no value.
const (
	directiveCompare  = "_enablecompare"
	directiveFIFOFull = "_enableFIFOfull"
)

// Class is how the collector classified one tag pair.
type Class int

const (
	ClassIgnored Class = iota
	ClassControl
	ClassLength
	ClassMetadata
)

// ControlFlags gate optional emulator accuracy modes.
type ControlFlags struct {
	EnableCompare  bool
	EnableFIFOFull bool
}

// Length is the playback length declared by the tags.
type Length struct {
	// Total is zero when the track has no usable length tag.
	Total time.Duration
	// Fade is the trailing fade-out window, zero for none.
	Fade time.Duration
}

// Loops reports whether playback has no autonomous end.
func (l Length) Loops() bool {
	return l.Total <= 0
}

// Collector classifies tag pairs and accumulates length and control state.
type Collector struct {
	Flags  ControlFlags
	Length Length

	handler TagHandler
}

// NewCollector returns a collector that forwards metadata to handler, which
// may be nil.
func NewCollector(handler TagHandler) *Collector {
	return &Collector{handler: handler}
}

// Add classifies one pair. Control directives win over length keys, which
// win over metadata.
func (c *Collector) Add(name, value string) Class {
	switch name {
	case directiveCompare:
		c.Flags.EnableCompare = true
		return ClassControl
	case directiveFIFOFull:
		c.Flags.EnableFIFOFull = true
		return ClassControl
	}

	key := strings.ToLower(name)
	switch key {
	case "length":
		// A malformed length means the same as no length: loop forever.
		d, ok := ParseDuration(value)
		if !ok {
			d = 0
		}
		c.Length.Total = d
		return ClassLength
	case "fade":
		d, ok := ParseDuration(value)
		if !ok {
			d = 0
		}
		c.Length.Fade = d
		return ClassLength
	}

	tag, ok := usfTags[key]
	if !ok {
		return ClassIgnored
	}
	if c.handler != nil {
		c.handler.OnTag(tag, decodeTagValue(value))
	}
	return ClassMetadata
}

// decodeTagValue returns value as UTF-8. Older Japanese rips store tags in
// Shift-JIS without a utf8 marker.
func decodeTagValue(value string) string {
	if utf8.ValidString(value) {
		return value
	}
	decoded, _, err := transform.String(japanese.ShiftJIS.NewDecoder(), value)
	if err != nil {
		return value
	}
	return decoded
}
