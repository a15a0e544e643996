package artwork

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func TestSniffMIME(t *testing.T) {
	if mime := SniffMIME(jpegHeader); mime != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", mime)
	}
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0}
	if mime := SniffMIME(png); mime != "image/png" {
		t.Fatalf("expected image/png, got %q", mime)
	}
	if mime := SniffMIME([]byte("not an image")); mime != "image/jpeg" {
		t.Fatalf("expected jpeg fallback, got %q", mime)
	}
}

func TestSupportsEmbed(t *testing.T) {
	for _, ext := range []string{"mp3", "FLAC", ".m4a", "mp4"} {
		if !SupportsEmbed(ext) {
			t.Fatalf("expected %q to be supported", ext)
		}
	}
	for _, ext := range []string{"wav", "ape", "wma", ""} {
		if SupportsEmbed(ext) {
			t.Fatalf("expected %q to be unsupported", ext)
		}
	}
}

func TestEmbedUnsupportedFormat(t *testing.T) {
	err := Embed(filepath.Join(t.TempDir(), "track.wav"), jpegHeader)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEmbedRejectsEmptyImage(t *testing.T) {
	if err := Embed(filepath.Join(t.TempDir(), "track.mp3"), nil); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestEmbedID3RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, []byte("not-really-audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := Embed(path, jpegHeader); err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}

	detector := Detector{FFprobeBinary: "ffprobe"}
	hasArt, err := detector.HasEmbeddedArt(context.Background(), path)
	if err != nil {
		t.Fatalf("HasEmbeddedArt returned error: %v", err)
	}
	if !hasArt {
		t.Fatal("expected embedded picture to be detected after Embed")
	}
}

func TestEmbedID3ReplacesExistingCover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, []byte("not-really-audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := Embed(path, jpegHeader); err != nil {
		t.Fatalf("first Embed returned error: %v", err)
	}
	if err := Embed(path, jpegHeader); err != nil {
		t.Fatalf("second Embed returned error: %v", err)
	}

	detector := Detector{FFprobeBinary: "ffprobe"}
	hasArt, err := detector.HasEmbeddedArt(context.Background(), path)
	if err != nil {
		t.Fatalf("HasEmbeddedArt returned error: %v", err)
	}
	if !hasArt {
		t.Fatal("expected picture after replacement")
	}
}
