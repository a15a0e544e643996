// Package ffprobe wraps the ffprobe binary for container inspection.
//
// coverscout uses it to detect attached-picture video streams (embedded
// cover art) and to sanity-check audio durations before lookup.
package ffprobe
