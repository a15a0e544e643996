// Package artwork detects and embeds cover images in audio file tag
// containers.
//
// Detection reads the tag container directly where the format is
// supported, with an ffprobe attached-picture probe as the fallback.
// Embedding dispatches on container format: ID3v2 for MP3, METADATA_BLOCK
// PICTURE for FLAC, and the covr atom for MP4-family files.
package artwork
