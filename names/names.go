// Package names settles what a survey is called. Field devices report
// whatever identifier they were flashed with - build strings, serial
// numbers, "Pixel 7a" - while archives, logs, and file paths all key
// on the survey name, so inbound names pass through here first.
package names

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultName labels surveys that arrive with no usable name at all.
const DefaultName = "transect"

// Aliases maps a canonical survey name to a pattern matching the raw
// device names that should file under it. Install with SetAliases;
// the root command wires the `aliases` config key here.
var Aliases = map[string]*regexp.Regexp{}

// SetAliases replaces the alias table, compiling each pattern.
// The first bad pattern aborts the whole install.
func SetAliases(patterns map[string]string) error {
	compiled := make(map[string]*regexp.Regexp, len(patterns))
	for alias, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return err
		}
		compiled[alias] = re
	}
	Aliases = compiled
	return nil
}

// AliasOrName returns the canonical alias for a raw device name when
// one matches, else the sanitized name itself. Aliases are tried in
// sorted order so overlapping patterns resolve the same way every run.
func AliasOrName(name string) string {
	keys := make([]string, 0, len(Aliases))
	for alias := range Aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	for _, alias := range keys {
		if Aliases[alias].MatchString(name) {
			return alias
		}
	}
	return Sanitize(name)
}

var unsafeRuns = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Sanitize makes a name safe as a path element and a log label: runs
// of anything but alphanumerics, dots, dashes, and underscores
// collapse to one dash, and leading dots or separators go. May return
// empty; callers that must have a name use OrDefault.
func Sanitize(name string) string {
	name = unsafeRuns.ReplaceAllString(strings.TrimSpace(name), "-")
	return strings.Trim(name, ".-_")
}

// OrDefault substitutes DefaultName for an empty name.
func OrDefault(name string) string {
	if name == "" {
		return DefaultName
	}
	return name
}
