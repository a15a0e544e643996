package artwork

import (
	"context"
	"os"

	"github.com/dhowden/tag"

	"coverscout/internal/media/ffprobe"
)

// Detector reports whether a file already carries embedded cover art.
type Detector struct {
	FFprobeBinary string
}

// HasEmbeddedArt inspects the file for an attached picture. The tag
// container is read first as a cheap positive check; when it shows no
// picture (or cannot be parsed at all) ffprobe's stream dispositions are
// the authoritative answer, covering formats the tag reader does not.
func (d Detector) HasEmbeddedArt(ctx context.Context, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, err
	}

	if file, err := os.Open(path); err == nil {
		meta, readErr := tag.ReadFrom(file)
		file.Close()
		if readErr == nil && meta.Picture() != nil {
			return true, nil
		}
	}

	result, err := ffprobe.Inspect(ctx, d.FFprobeBinary, path)
	if err != nil {
		return false, err
	}
	return result.HasAttachedPicture(), nil
}
