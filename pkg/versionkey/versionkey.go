// Package versionkey escapes pricing version strings so they can be used as
// document keys. The persistence layer treats "." as a path separator, so
// "1.0" is stored as "1_0" and restored on read.
//
// The mapping is not bijective: a version that already contains "_" cannot be
// told apart from an escaped one after a round trip.
package versionkey

import "strings"

const (
	separator   = "."
	replacement = "_"
)

// Escape converts a version into a storage-safe key.
func Escape(version string) string {
	return strings.ReplaceAll(version, separator, replacement)
}

// Unescape restores the version encoded by Escape.
func Unescape(key string) string {
	return strings.ReplaceAll(key, replacement, separator)
}

// EscapeKeys returns a copy of m with every key escaped.
func EscapeKeys[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[Escape(k)] = v
	}
	return out
}

// UnescapeKeys returns a copy of m with every key unescaped.
func UnescapeKeys[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[Unescape(k)] = v
	}
	return out
}

// EscapeValues returns a copy of m with every value escaped.
// Used for contract maps of service name to contracted version.
func EscapeValues(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Escape(v)
	}
	return out
}

// UnescapeValues returns a copy of m with every value unescaped.
func UnescapeValues(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Unescape(v)
	}
	return out
}
