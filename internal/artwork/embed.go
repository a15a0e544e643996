package artwork

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture/v2"
	"github.com/go-flac/go-flac/v2"
	"github.com/zhaarey/go-mp4tag"
)

// ErrUnsupportedFormat is returned when no tag writer exists for the
// file's container format.
var ErrUnsupportedFormat = errors.New("no artwork writer for this format")

// Embed writes image as the front cover of the file's tag container,
// replacing any existing cover. The writer is chosen by file extension.
func Embed(path string, image []byte) error {
	if len(image) == 0 {
		return errors.New("embed artwork: empty image")
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp3":
		return embedID3(path, image)
	case "flac":
		return embedFLAC(path, image)
	case "m4a", "mp4", "m4b", "aac", "alac":
		return embedMP4(path, image)
	default:
		return ErrUnsupportedFormat
	}
}

// SupportsEmbed reports whether Embed has a writer for the extension.
func SupportsEmbed(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp3", "flac", "m4a", "mp4", "m4b", "aac", "alac":
		return true
	default:
		return false
	}
}

func embedID3(path string, image []byte) error {
	tagFile, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer tagFile.Close()

	tagFile.DeleteFrames(tagFile.CommonID("Attached picture"))
	tagFile.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    SniffMIME(image),
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     image,
	})
	if err := tagFile.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}

func embedFLAC(path string, image []byte) error {
	container, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}
	defer container.Close()

	// Drop existing pictures so the new front cover is authoritative.
	kept := container.Meta[:0]
	for _, block := range container.Meta {
		if block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	container.Meta = kept

	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front cover", image, SniffMIME(image))
	if err != nil {
		return fmt.Errorf("build flac picture: %w", err)
	}
	block := picture.Marshal()
	container.Meta = append(container.Meta, &block)

	if err := container.Save(path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}

func embedMP4(path string, image []byte) error {
	container, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open mp4: %w", err)
	}
	defer container.Close()

	cover := &mp4tag.MP4Picture{Format: mp4tag.ImageTypeAuto, Data: image}
	if err := container.Write(&mp4tag.MP4Tags{Pictures: []*mp4tag.MP4Picture{cover}}, []string{}); err != nil {
		return fmt.Errorf("write mp4 cover: %w", err)
	}
	return nil
}

// SniffMIME detects the image content type, defaulting to JPEG when the
// sniffer reports something that is not an image.
func SniffMIME(image []byte) string {
	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		return "image/jpeg"
	}
	return mime
}
