package monitor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/statuspage"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeDetector gates detailed fetches on whether the summary document changed
// since the last successful check.
type ChangeDetector struct {
	fingerprint string
	previous    string
	dmp         *diffmatchpatch.DiffMatchPatch
	logger      zerolog.Logger
}

// NewChangeDetector creates a detector with no stored fingerprint.
func NewChangeDetector(logger zerolog.Logger) *ChangeDetector {
	return &ChangeDetector{
		dmp:    diffmatchpatch.New(),
		logger: logger.With().Str("component", "ChangeDetector").Logger(),
	}
}

// Fingerprint returns the hex SHA-256 of the canonical summary encoding.
// Object keys are sorted at every level, so field order never matters.
func Fingerprint(summary statuspage.Summary) (string, error) {
	canonical, err := json.Marshal(summary)
	if err != nil {
		return "", common.WrapError(err, "failed to encode summary")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Current returns the stored fingerprint, empty before the first check.
func (d *ChangeDetector) Current() string {
	return d.fingerprint
}

// ShouldInspect reports whether the summary differs from the previous one.
// A non-empty summary always replaces the stored fingerprint. An empty summary
// carries no data and leaves the detector untouched.
func (d *ChangeDetector) ShouldInspect(summary statuspage.Summary) (bool, error) {
	if summary.IsEmpty() {
		d.logger.Debug().Msg("Empty summary, nothing to compare")
		return false, nil
	}

	fingerprint, err := Fingerprint(summary)
	if err != nil {
		return false, err
	}

	changed := d.fingerprint == "" || fingerprint != d.fingerprint
	if changed {
		d.logDelta(summary)
	}

	d.fingerprint = fingerprint
	return changed, nil
}

// logDelta logs how many lines of the pretty-printed summary changed.
func (d *ChangeDetector) logDelta(summary statuspage.Summary) {
	event := d.logger.Debug()
	if !event.Enabled() {
		return
	}

	pretty, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		event.Discard()
		return
	}
	current := string(pretty)

	a, b, lines := d.dmp.DiffLinesToChars(d.previous, current)
	diffs := d.dmp.DiffCharsToLines(d.dmp.DiffMain(a, b, false), lines)

	added, removed := 0, 0
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			added += strings.Count(diff.Text, "\n")
		case diffmatchpatch.DiffDelete:
			removed += strings.Count(diff.Text, "\n")
		}
	}
	d.previous = current

	event.Int("lines_added", added).Int("lines_removed", removed).Msg("Summary changed")
}
