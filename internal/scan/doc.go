// Package scan discovers audio files eligible for cover-art resolution.
//
// Discovery is recursive, deterministic (lexical walk order), and filters
// by a case-insensitive extension allow-list so re-runs over the same tree
// always produce the same file sequence.
package scan
