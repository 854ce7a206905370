// Package eventcode generates the human-readable sequential codes assigned
// to events, one monotonically increasing sequence per calendar month.
package eventcode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const codePrefix = "EV"

// Prefix returns the period prefix ("EV-YYYYMM-") for the month containing
// the reference instant.
func Prefix(reference time.Time) string {
	return fmt.Sprintf("%s-%04d%02d-", codePrefix, reference.Year(), int(reference.Month()))
}

// Generate produces the next code for the period containing reference,
// given a snapshot of the codes already issued. Codes carrying the period
// prefix have their numeric suffix parsed; malformed suffixes are skipped.
// The result is max+1, zero-padded to three digits, starting at 001 when
// the period has no codes yet.
//
// Generate is pure over its inputs. Uniqueness depends on the snapshot
// being complete at call time: callers must treat the result as a candidate
// and regenerate if persistence reports a duplicate.
func Generate(reference time.Time, existing []string) string {
	prefix := Prefix(reference)

	max := 0
	for _, code := range existing {
		suffix, ok := strings.CutPrefix(code, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s%03d", prefix, max+1)
}
