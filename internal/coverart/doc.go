// Package coverart retrieves front cover images from the Cover Art
// Archive for candidate MusicBrainz releases.
package coverart
