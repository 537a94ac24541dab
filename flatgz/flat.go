package flatgz

import (
	"os"
	"path/filepath"

	"github.com/rotblauer/transectd/names"
	"github.com/rotblauer/transectd/params"
)

// Flat addresses one directory in the flat-file tree. It includes the
// root.
type Flat struct {
	path string
}

func NewFlatWithRoot(root string) *Flat {
	root = filepath.Clean(root)
	if !filepath.IsAbs(root) {
		root, _ = filepath.Abs(root)
	}
	return &Flat{path: root}
}

// ForSurvey addresses the subdirectory holding one survey's archives.
// The name is sanitized on the way in; survey names come off devices
// and become path elements here.
func (f *Flat) ForSurvey(name string) *Flat {
	name = names.OrDefault(names.Sanitize(name))
	return NewFlatWithRoot(f.path).Joins(params.SurveysDir, name)
}

func (f *Flat) Joins(paths ...string) *Flat {
	f.path = filepath.Join(append([]string{f.path}, paths...)...)
	return f
}

func (f *Flat) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *Flat) MkdirAll() error {
	return os.MkdirAll(f.path, 0770)
}

func (f *Flat) Path() string {
	return f.path
}

func (f *Flat) NewGZFileWriter(name string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	return NewGZFileWriter(filepath.Join(f.path, name), config)
}

func (f *Flat) NamedGZReader(name string) (*GZFileReader, error) {
	return NewGZFileReader(filepath.Join(f.path, name))
}
