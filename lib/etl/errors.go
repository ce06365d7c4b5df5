package etl

import (
	"sort"

	"github.com/antzucaro/matchr"
	"github.com/cockroachdb/errors"
)

// Error kinds. Stage errors are marked with one of these so callers can
// branch with errors.Is while keeping the full wrapped message.
var (
	ErrNetwork   = errors.New("network error")
	ErrParse     = errors.New("parse error")
	ErrSchema    = errors.New("schema mismatch")
	ErrLookupKey = errors.New("lookup key not found")
)

// minimum Jaro-Winkler similarity for a key to be offered as a suggestion
const suggestThreshold = 0.8

func lookupKeyError(table, key string, known []string) error {
	err := errors.Mark(
		errors.Newf("%s: no entry for key %q", table, key),
		ErrLookupKey,
	)
	if suggestion, ok := closestKey(key, known); ok {
		err = errors.WithHintf(err, "did you mean %q?", suggestion)
	}
	return err
}

func closestKey(key string, known []string) (string, bool) {
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)

	var best string
	var bestSimilarity float64
	for _, k := range sorted {
		similarity := matchr.JaroWinkler(key, k, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = k
		}
	}
	return best, bestSimilarity >= suggestThreshold
}

func parseError(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrParse)
}

func schemaError(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrSchema)
}
