// Package testing pins where test runs put their data. Recorder and
// daemon tests point params.DatadirRoot here so a failed run's state
// and archives can be inspected under one predictable tmp root.
package testing

import (
	"os"
	"path/filepath"
)

const DefaultTestDirRoot = "transectd-test"

func DefaultTestDir() string {
	return filepath.Join(os.TempDir(), DefaultTestDirRoot)
}
