package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotblauer/transectd/types/poi"
)

const testImportGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="transectd-test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="46.9001" lon="-113.9900">
    <name>Trailhead Spring</name>
    <type>natural spring</type>
  </wpt>
  <wpt lat="46.9050" lon="-113.9855">
    <name>Survey Marker 12</name>
    <sym>Historic</sym>
  </wpt>
</gpx>`

const testImportSeed = `{"name": "Cairn A", "lat": 46.9, "long": -114.0, "category": "natural"}
{"name": "Cairn B", "lat": 46.91, "long": -114.01, "category": "historic"}
`

func TestLoadPOIs(t *testing.T) {
	dir := t.TempDir()

	gpxPath := filepath.Join(dir, "markers.gpx")
	if err := os.WriteFile(gpxPath, []byte(testImportGPX), 0644); err != nil {
		t.Fatal(err)
	}
	pois, err := loadPOIs(gpxPath, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(pois) != 2 {
		t.Fatalf("gpx: want 2 POIs, got %d", len(pois))
	}
	if pois[0].Name != "Trailhead Spring" {
		t.Errorf("gpx name: %s", pois[0].Name)
	}

	seedPath := filepath.Join(dir, "cairns.json")
	if err := os.WriteFile(seedPath, []byte(testImportSeed), 0644); err != nil {
		t.Fatal(err)
	}
	pois, err = loadPOIs("", seedPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(pois) != 2 {
		t.Fatalf("seed: want 2 POIs, got %d", len(pois))
	}
	if pois[1].Category != poi.CategoryHistoric {
		t.Errorf("seed category: %s", pois[1].Category)
	}
	for _, p := range pois {
		if p.ID == "" {
			t.Errorf("seed POI %q missing generated id", p.Name)
		}
	}
}

func TestCategoriesValue(t *testing.T) {
	v := categoriesValue{}
	if err := v.Set("natural, historic"); err != nil {
		t.Fatal(err)
	}
	want := []poi.Category{poi.CategoryNatural, poi.CategoryHistoric}
	if len(v.categories) != len(want) {
		t.Fatalf("want %d categories, got %d", len(want), len(v.categories))
	}
	for i := range want {
		if v.categories[i] != want[i] {
			t.Errorf("category %d: want %s, got %s", i, want[i], v.categories[i])
		}
	}
	if v.String() != "Natural,Historic" {
		t.Errorf("String: %s", v.String())
	}

	if err := v.Set("banana"); err == nil {
		t.Fatal("want error for unknown category")
	}
}
