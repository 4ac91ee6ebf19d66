// Package serialize implements the wire-level message envelope and a
// minimal codec used by execdb's external-KV back-end, per spec.md §6.
// The network transport and a real compressor are external collaborators
// out of scope (spec.md §1); this package only carries the shapes the
// core needs to hand something concrete to that boundary.
package serialize

import "time"

// ISO8601Layout is the round-trippable UTC timestamp format spec.md §6
// requires: "YYYY-MM-DDTHH:MM:SS.sssZ", millisecond precision.
const ISO8601Layout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC at millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(ISO8601Layout)
}

// ParseTimestamp parses a timestamp produced by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(ISO8601Layout, s)
}
