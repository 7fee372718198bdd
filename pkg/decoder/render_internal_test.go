package decoder

import (
	"testing"
	"time"
)

func TestFadeVolumeBounds(t *testing.T) {
	const fadeStart, fadeFrames = 1000, 500

	if v := fadeVolume(fadeStart, fadeStart, fadeFrames); v != 1 {
		t.Errorf("expected full volume at fade start, got %v", v)
	}
	if v := fadeVolume(fadeStart-1, fadeStart, fadeFrames); v != 1 {
		t.Errorf("expected full volume before fade start, got %v", v)
	}
	if v := fadeVolume(fadeStart+fadeFrames, fadeStart, fadeFrames); v != 0 {
		t.Errorf("expected silence at fade end, got %v", v)
	}
	if v := fadeVolume(fadeStart+10*fadeFrames, fadeStart, fadeFrames); v != 0 {
		t.Errorf("expected silence past fade end, got %v", v)
	}
	if v := fadeVolume(fadeStart+fadeFrames/2, fadeStart, fadeFrames); v != 0.5 {
		t.Errorf("expected half volume mid-fade, got %v", v)
	}
}

func TestFadeVolumeMonotonic(t *testing.T) {
	const fadeStart, fadeFrames = 4410, 22050

	prev := 1.0
	for decoded := int64(0); decoded < fadeStart+2*fadeFrames; decoded += 2048 {
		v := fadeVolume(decoded, fadeStart, fadeFrames)
		if v > prev {
			t.Fatalf("volume rose from %v to %v at frame %d", prev, v, decoded)
		}
		if v < 0 || v > 1 {
			t.Fatalf("volume %v out of range at frame %d", v, decoded)
		}
		prev = v
	}
	if prev != 0 {
		t.Errorf("expected the fade to finish at 0, got %v", prev)
	}
}

func TestFadeVolumeWithoutFade(t *testing.T) {
	if v := fadeVolume(99999, 0, 0); v != 1 {
		t.Errorf("expected full volume without a fade window, got %v", v)
	}
}

func TestApplyVolume(t *testing.T) {
	buf := []int16{10000, -10000, 32767, -32768}
	applyVolume(buf, 0.5)

	want := []int16{5000, -5000, 16383, -16384}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], buf[i])
		}
	}

	applyVolume(buf, 0)
	for i, s := range buf {
		if s != 0 {
			t.Errorf("sample %d: expected silence, got %d", i, s)
		}
	}
}

func TestFramesFor(t *testing.T) {
	tests := []struct {
		d    time.Duration
		rate int
		want int64
	}{
		{time.Second, 44100, 44100},
		{1500 * time.Millisecond, 32000, 48000},
		{0, 44100, 0},
		{-time.Second, 44100, 0},
		{3 * time.Minute, 48000, 8640000},
	}

	for _, tc := range tests {
		if got := framesFor(tc.d, tc.rate); got != tc.want {
			t.Errorf("framesFor(%v, %d) = %d, want %d", tc.d, tc.rate, got, tc.want)
		}
	}
}

func TestAudioFormatValid(t *testing.T) {
	if !NewAudioFormat(44100).Valid() {
		t.Error("expected 44100 Hz to be valid")
	}
	if NewAudioFormat(0).Valid() {
		t.Error("expected 0 Hz to be invalid")
	}
	if NewAudioFormat(-1).Valid() {
		t.Error("expected a negative rate to be invalid")
	}
	if got := NewAudioFormat(32000).String(); got != "32000:16:2" {
		t.Errorf("unexpected format string %q", got)
	}
}
