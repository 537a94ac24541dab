package api

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/rotblauer/transectd/flatgz"
	"github.com/rotblauer/transectd/params"
)

// StoreRawUpload appends an incoming push body to the file
// <datadir>/uploads.json.gz, one body per line, before any decoding or
// gating, so a bad batch can be replayed or inspected later. Newlines
// inside the body flatten to spaces; bodies are JSON, where the two
// read the same. Note that lines may be longer than
// bufio.MaxScanTokenSize; readers should decode with a json.Decoder
// rather than a line scanner.
func StoreRawUpload(datadir string, body io.Reader) (written int64, err error) {
	target := filepath.Join(datadir, params.UploadsGZFileName)
	wr, err := flatgz.NewGZFileWriter(target, flatgz.DefaultGZFileWriterConfig())
	if err != nil {
		return 0, err
	}
	once := sync.Once{}
	shut := func() error {
		once.Do(func() {
			wr.Write([]byte("\n"))
		})
		return wr.Close()
	}
	defer shut()
	written, err = io.Copy(oneLineWriter{wr}, body)
	if err != nil {
		return
	}
	return written, shut()
}

// oneLineWriter rewrites newlines to spaces on the way through, keeping
// whatever it stores on a single line.
type oneLineWriter struct {
	w io.Writer
}

func (o oneLineWriter) Write(p []byte) (int, error) {
	q := make([]byte, len(p))
	for i, b := range p {
		if b == '\n' || b == '\r' {
			b = ' '
		}
		q[i] = b
	}
	return o.w.Write(q)
}
