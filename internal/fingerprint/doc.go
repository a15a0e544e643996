// Package fingerprint computes Chromaprint acoustic fingerprints by
// shelling out to fpcalc.
package fingerprint
