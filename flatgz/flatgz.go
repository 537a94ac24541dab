// Package flatgz is flat-file gzip storage for survey archives:
// append-only gz files under a per-survey directory tree.
package flatgz

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rotblauer/transectd/params"
)

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool

	GZFileWriterConfig
}

type GZFileWriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

func DefaultGZFileWriterConfig() *GZFileWriterConfig {
	return &GZFileWriterConfig{
		CompressionLevel: params.DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_APPEND | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

func NewGZFileWriter(path string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if config == nil {
		config = DefaultGZFileWriterConfig()
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		return nil, err
	}
	return &GZFileWriter{f: fi, gzw: gzw}, nil
}

func (g *GZFileWriter) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

// WriteJSONLine marshals v and appends it as one newline-terminated
// record.
func (g *GZFileWriter) WriteJSONLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = g.Write(append(b, '\n'))
	return err
}

func (g *GZFileWriter) Writer() *gzip.Writer {
	return g.gzw
}

// lock takes the file for exclusive access. The lock dies with the
// file handle.
func (g *GZFileWriter) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_EX)
	g.locked = true
}

func (g *GZFileWriter) unlock() {
	if !g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_UN)
	g.locked = false
}

func (g *GZFileWriter) Close() error {
	defer func() {
		g.closed = true
	}()
	defer g.unlock()
	if err := g.gzw.Flush(); err != nil {
		return err
	}
	if err := g.gzw.Close(); err != nil {
		return err
	}
	return g.f.Close()
}

// MustClose closes everything, syncing the file, ignoring flush
// errors.
func (g *GZFileWriter) MustClose() error {
	g.closed = true
	defer g.unlock()
	_ = g.gzw.Flush()
	_ = g.gzw.Close()
	_ = g.f.Sync()
	return g.f.Close()
}

func (g *GZFileWriter) MaybeClose() {
	if g.closed {
		return
	}
	_ = g.MustClose()
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	closed bool
}

func NewGZFileReader(path string) (*GZFileReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, os.O_RDONLY, 0660)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

func (g *GZFileReader) Path() string {
	return g.f.Name()
}

func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

func (g *GZFileReader) Reader() *gzip.Reader {
	return g.gzr
}

func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	if err := g.gzr.Close(); err != nil {
		return err
	}
	return g.f.Close()
}

func (g *GZFileReader) MaybeClose() {
	if g.closed {
		return
	}
	_ = g.Close()
}

// LineCount scans the decompressed stream and counts lines.
func (g *GZFileReader) LineCount() (int, error) {
	count := 0
	scanner := bufio.NewScanner(g.Reader())
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
