package coverart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pborman/uuid"
	cca "gopkg.in/mineo/gocaa.v1"
)

// ErrArtworkNotFound is returned when no candidate release has a front cover.
var ErrArtworkNotFound = errors.New("no cover art found for any candidate release")

// frontGetter is the slice of the Cover Art Archive client the fetcher uses.
type frontGetter interface {
	GetReleaseFront(mbid uuid.UUID, size int) (image cca.CoverArtImage, err error)
}

// Fetcher downloads release front covers, walking a candidate list until
// one of them has artwork.
type Fetcher struct {
	client frontGetter
}

// New creates a Fetcher talking to the Cover Art Archive. The userAgent is
// sent with every request per the archive's usage policy.
func New(userAgent string) *Fetcher {
	return &Fetcher{client: cca.NewCAAClient(strings.TrimSpace(userAgent))}
}

// newWithClient is used by tests to substitute the archive client.
func newWithClient(client frontGetter) *Fetcher {
	return &Fetcher{client: client}
}

// FrontImage returns the first available front cover among the candidate
// release IDs, preserving candidate order. A 404 from the archive moves on
// to the next candidate; any other error aborts the fetch.
func (f *Fetcher) FrontImage(ctx context.Context, releaseIDs []string) ([]byte, string, error) {
	if len(releaseIDs) == 0 {
		return nil, "", ErrArtworkNotFound
	}
	for _, releaseID := range releaseIDs {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		mbid := cca.StringToUUID(releaseID)
		img, err := f.client.GetReleaseFront(mbid, cca.ImageSize500)
		if err == nil {
			if len(img.Data) == 0 {
				continue
			}
			return img.Data, releaseID, nil
		}

		var httpErr cca.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			continue
		}
		return nil, "", fmt.Errorf("fetch front cover for release %s: %w", releaseID, err)
	}
	return nil, "", ErrArtworkNotFound
}
