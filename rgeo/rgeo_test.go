package rgeo

import (
	"errors"
	"sort"
	"testing"
)

func TestDatasetNamesStable(t *testing.T) {
	if len(DatasetNamesStable) != len(datasets) {
		t.Fatalf("want %d dataset names, got %d", len(datasets), len(DatasetNamesStable))
	}
	if !sort.StringsAreSorted(DatasetNamesStable) {
		t.Errorf("dataset names not sorted: %v", DatasetNamesStable)
	}
	for _, name := range DatasetNamesStable {
		if name == "" {
			t.Errorf("empty dataset name in %v", DatasetNamesStable)
		}
	}
}

// TestRBeforeInit relies on no test in this package calling Init,
// which would load gigabytes of boundary data.
func TestRBeforeInit(t *testing.T) {
	g, err := R()
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("want ErrNotInitialized, got %v", err)
	}
	if g != nil {
		t.Errorf("want nil geocoder, got %v", g)
	}
}
