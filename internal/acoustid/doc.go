// Package acoustid queries the AcoustID web service to identify a
// recording from its Chromaprint fingerprint, returning the MusicBrainz
// recordings and releases attached to each match.
package acoustid
