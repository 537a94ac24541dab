package flatgz

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	flat := NewFlatWithRoot(root).ForSurvey("ibex-field-7")
	if flat.Exists() {
		t.Fatal("survey dir exists before any write")
	}

	w, err := flat.NewGZFileWriter("tracks.ndjson.gz", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("one\ntwo\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteJSONLine(map[string]int{"n": 3}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if !flat.Exists() {
		t.Error("writer did not create the survey dir")
	}

	r, err := flat.NamedGZReader("tracks.ndjson.gz")
	if err != nil {
		t.Fatal(err)
	}
	defer r.MaybeClose()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	if got != "one\ntwo\n{\"n\":3}\n" {
		t.Errorf("round trip: %q", got)
	}
}

func TestAppendAcrossWriters(t *testing.T) {
	root := t.TempDir()
	flat := NewFlatWithRoot(root).ForSurvey("ibex-field-7")

	for _, line := range []string{"first\n", "second\n"} {
		w, err := flat.NewGZFileWriter("log.gz", nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}

	r, err := flat.NamedGZReader("log.gz")
	if err != nil {
		t.Fatal(err)
	}
	defer r.MaybeClose()
	n, err := r.LineCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("appended file has %d lines, want 2", n)
	}
}

func TestReaderMissingFile(t *testing.T) {
	flat := NewFlatWithRoot(t.TempDir())
	if _, err := flat.NamedGZReader("nope.gz"); err == nil {
		t.Error("missing file did not error")
	}
}

func TestFlatPaths(t *testing.T) {
	root := t.TempDir()
	flat := NewFlatWithRoot(root).ForSurvey("ibex-field-7")
	want := filepath.Join(root, "surveys", "ibex-field-7")
	if flat.Path() != want {
		t.Errorf("path: %q, want %q", flat.Path(), want)
	}
	if !strings.HasPrefix(flat.Joins("sub").Path(), want) {
		t.Errorf("joins left the tree: %q", flat.Path())
	}
}

func TestForSurveySanitizesNames(t *testing.T) {
	root := t.TempDir()
	cases := []struct {
		name, dir string
	}{
		{"west transect 3", "west-transect-3"},
		{"../../escape", "escape"},
		{"", "transect"},
	}
	for _, c := range cases {
		got := NewFlatWithRoot(root).ForSurvey(c.name).Path()
		want := filepath.Join(root, "surveys", c.dir)
		if got != want {
			t.Errorf("ForSurvey(%q) = %q, want %q", c.name, got, want)
		}
	}
}
