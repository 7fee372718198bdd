package decoder

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"90", 90 * time.Second},
		{"1:30", 90 * time.Second},
		{"1:30.5", 90*time.Second + 500*time.Millisecond},
		{"0:01.500", 1500 * time.Millisecond},
		{"2:00.25", 120*time.Second + 250*time.Millisecond},
		{"2:00.250", 120*time.Second + 250*time.Millisecond},
		{"10.123", 10*time.Second + 123*time.Millisecond},
		{"0:05.12345", 5*time.Second + 123*time.Millisecond},
		{"", 0},
		{"0", 0},
		{" 3:15 ", 195 * time.Second},
		{"05:00", 5 * time.Minute},
	}

	for _, tc := range tests {
		got, ok := ParseDuration(tc.input)
		if !ok {
			t.Errorf("ParseDuration(%q) reported malformed", tc.input)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDurationLongest(t *testing.T) {
	// 9223372036854 ms is the largest whole-millisecond Duration.
	got, ok := ParseDuration("9223372036.854")
	if !ok {
		t.Fatal("expected the largest representable length to parse")
	}
	if want := time.Duration(maxMillis) * time.Millisecond; got != want || got < 0 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDurationMalformed(t *testing.T) {
	inputs := []string{
		"1:3O",
		"abc",
		"1m30s",
		"-5",
		"1,5",
		"12:34:5x",
		"1234567890123",
		"10000000000",
		"999999999999",
		"999999999999:00",
		"153722868:00",
	}

	for _, input := range inputs {
		got, ok := ParseDuration(input)
		if ok {
			t.Errorf("ParseDuration(%q) = %v, expected malformed", input, got)
		}
		if got != 0 {
			t.Errorf("ParseDuration(%q) returned %v alongside failure", input, got)
		}
	}
}

func TestParseDurationAllSecondValues(t *testing.T) {
	for m := 0; m < 3; m++ {
		for s := 0; s < 60; s++ {
			for _, ms := range []int{0, 1, 99, 500, 999} {
				input := FormatDuration(time.Duration(m)*time.Minute +
					time.Duration(s)*time.Second +
					time.Duration(ms)*time.Millisecond)
				want := time.Duration(m*60000+s*1000+ms) * time.Millisecond

				got, ok := ParseDuration(input)
				if !ok || got != want {
					t.Fatalf("ParseDuration(%q) = %v, %v; want %v", input, got, ok, want)
				}
			}
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0:00"},
		{90 * time.Second, "1:30"},
		{90*time.Second + 500*time.Millisecond, "1:30.5"},
		{1500 * time.Millisecond, "0:01.5"},
		{123*time.Second + 45*time.Millisecond, "2:03.045"},
		{-time.Second, "0:00"},
	}

	for _, tc := range tests {
		if got := FormatDuration(tc.input); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
