// Package resolver performs cover-art resolution for a single audio file:
// detect existing art, fingerprint, identify the recording, fetch a front
// cover, and embed it. Every collaborator sits behind an interface so the
// pipeline can be exercised without binaries or network access.
package resolver
