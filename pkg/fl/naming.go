package fl

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	weightsExt       = ".json"
	roundMarker      = "round_"
	submissionPrefix = "weights_" + roundMarker
	validatorPrefix  = "validator_weights_"
)

// SubmissionName is the file a participant publishes for round r.
func SubmissionName(r int) string {
	return submissionPrefix + strconv.Itoa(r) + weightsExt
}

// ValidatorRoundName is the aggregated baseline published for round r.
func ValidatorRoundName(r int) string {
	return validatorPrefix + roundMarker + strconv.Itoa(r) + weightsExt
}

// ValidatorFinalName is the aggregated model published after the last round.
func ValidatorFinalName() string {
	return validatorPrefix + "final" + weightsExt
}

// ParseRound extracts the round index from a path whose stem ends with
// "round_<R>".
func ParseRound(path string) (int, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(stem, roundMarker)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s has no round suffix", ErrMalformedPath, path)
	}
	digits := stem[idx+len(roundMarker):]
	r, err := parseDigits(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrMalformedPath, path, err)
	}

	return r, nil
}

// ParseSubmission extracts the participant id from the trailing digits of
// the parent directory name and the round index from the file stem.
func ParseSubmission(path string) (ParticipantID, int, error) {
	r, err := ParseRound(path)
	if err != nil {
		return 0, 0, err
	}
	dir := filepath.Base(filepath.Dir(path))
	end := len(dir)
	start := end
	for start > 0 && dir[start-1] >= '0' && dir[start-1] <= '9' {
		start--
	}
	id, err := parseDigits(dir[start:end])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: directory %q has no participant id", ErrMalformedPath, dir)
	}

	return ParticipantID(id), r, nil
}

func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, errors.New("missing digits")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-numeric %q", s)
		}
	}

	return strconv.Atoi(s)
}
