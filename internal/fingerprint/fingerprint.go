package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Fingerprint carries the compressed Chromaprint value and the audio
// duration fpcalc measured, both required by the lookup service.
type Fingerprint struct {
	Value    string
	Duration int // seconds, rounded down
}

type fpcalcOutput struct {
	Fingerprint string          `json:"fingerprint"`
	Duration    json.RawMessage `json:"duration"`
}

// Computer binds Compute to a configured fpcalc binary and length limit.
type Computer struct {
	Binary    string
	MaxLength int
}

// Compute fingerprints the file with the configured binary.
func (c Computer) Compute(ctx context.Context, path string) (Fingerprint, error) {
	return Compute(ctx, c.Binary, path, c.MaxLength)
}

// Compute runs fpcalc against the file and parses its JSON output.
// maxLength limits the fingerprinted audio in seconds; fpcalc still
// reports the full stream duration.
func Compute(ctx context.Context, binary string, path string, maxLength int) (Fingerprint, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "fpcalc"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Fingerprint{}, errors.New("fingerprint: empty path")
	}
	if maxLength <= 0 {
		maxLength = 120
	}

	cmd := exec.CommandContext(ctx, binary, "-json", "-length", strconv.Itoa(maxLength), path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Fingerprint{}, fmt.Errorf("fpcalc: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Fingerprint{}, fmt.Errorf("fpcalc: %w", err)
	}

	var parsed fpcalcOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return Fingerprint{}, fmt.Errorf("parse fpcalc output: %w", err)
	}
	if parsed.Fingerprint == "" {
		return Fingerprint{}, errors.New("fpcalc produced no fingerprint")
	}

	duration, err := parseDuration(parsed.Duration)
	if err != nil {
		return Fingerprint{}, err
	}
	if duration <= 0 {
		return Fingerprint{}, errors.New("fpcalc reported a non-positive duration")
	}

	return Fingerprint{Value: parsed.Fingerprint, Duration: duration}, nil
}

// fpcalc emits duration as a float in JSON mode; older builds emit an int.
func parseDuration(raw json.RawMessage) (int, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, errors.New("fpcalc reported no duration")
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fpcalc duration %q: %w", text, err)
	}
	return int(value), nil
}
