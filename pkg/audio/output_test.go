package audio

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBufferOutput(t *testing.T) {
	b := NewBufferOutput()

	if err := b.Write([]int16{1}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen before Open, got %v", err)
	}

	if err := b.Open(32000, 2, 1024); err != nil {
		t.Fatal(err)
	}
	b.Write([]int16{1, 2})
	b.Write([]int16{3, 4})
	b.Close()

	got := b.GetBuffer()
	if len(got) != 4 || got[3] != 4 {
		t.Errorf("unexpected buffer %v", got)
	}
	if rate, ch := b.Format(); rate != 32000 || ch != 2 {
		t.Errorf("unexpected format %d/%d", rate, ch)
	}
	if b.IsPlaying() {
		t.Error("closed output reports playing")
	}
}

func TestApplyGain(t *testing.T) {
	samples := []int16{1000, -1000, 20000, -20000}
	applyGain(samples, 2)

	want := []int16{2000, -2000, 32767, -32768}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, samples[i], want[i])
		}
	}

	samples = []int16{1000}
	applyGain(samples, 0)
	if samples[0] != 0 {
		t.Errorf("expected silence at zero gain, got %d", samples[0])
	}
}

func TestBlockDuration(t *testing.T) {
	if d := blockDuration(2*44100, 44100, 2); d != time.Second {
		t.Errorf("expected 1s, got %v", d)
	}
}

func TestResamplerLength(t *testing.T) {
	r := newResampler(22050, 44100, 2)

	in := make([]int16, 2*100)
	total := 0
	for range 10 {
		total += len(r.process(in)) / 2
	}
	if total < 1999 || total > 2001 {
		t.Errorf("expected about 2000 frames, got %d", total)
	}
}

func TestResamplerInterpolates(t *testing.T) {
	r := newResampler(1, 2, 1)

	out := r.process([]int16{100, 200})
	// Starting from the carried zero frame, halfway points are inserted.
	want := []int16{0, 50, 100, 150}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("frame %d: got %d, want %d", i, out[i], want[i])
		}
	}
}

// failingSeeker accepts seeks and fails every write.
type failingSeeker struct{ err error }

func (f failingSeeker) Write([]byte) (int, error)      { return 0, f.err }
func (f failingSeeker) Seek(int64, int) (int64, error) { return 0, nil }

func TestPatchWAVSizesReportsWriteErrors(t *testing.T) {
	diskFull := errors.New("no space left on device")
	if err := patchWAVSizes(failingSeeker{diskFull}, 8); !errors.Is(err, diskFull) {
		t.Errorf("expected the write error, got %v", err)
	}
}

func TestWAVOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	w, err := NewWAVOutput(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Open(32000, 2, 1024); err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]int16{1, -1, 256, -256}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != wavHeaderSize+8 {
		t.Fatalf("unexpected file size %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Error("missing RIFF markers")
	}
	if n := binary.LittleEndian.Uint32(data[4:8]); n != 44 {
		t.Errorf("RIFF size %d, want 44", n)
	}
	if n := binary.LittleEndian.Uint32(data[40:44]); n != 8 {
		t.Errorf("data size %d, want 8", n)
	}
	if ch := binary.LittleEndian.Uint16(data[22:24]); ch != 2 {
		t.Errorf("channels %d, want 2", ch)
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 32000 {
		t.Errorf("rate %d, want 32000", rate)
	}
	if s := int16(binary.LittleEndian.Uint16(data[46:48])); s != -1 {
		t.Errorf("second sample %d, want -1", s)
	}

	if err := w.Write([]int16{1}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after Close, got %v", err)
	}
}
