package scan

import "testing"

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"/music/artist/01_some-great_track.mp3", "01 Some Great Track"},
		{"/music/track.name.with.dots.flac", "Track Name With Dots"},
		{"/music/___.mp3", "Unknown Track"},
		{"", "Unknown Track"},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.input); got != tc.expected {
			t.Fatalf("DeriveTitle(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}
