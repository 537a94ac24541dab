// Package rgeo wraps an in-process reverse geocoder so notifications
// and exports can say where on Earth a position is. Loading the
// embedded boundary datasets is slow and memory hungry, so it happens
// once, lazily, behind Init.
package rgeo

import (
	"fmt"
	"slices"
	"sort"

	"github.com/paulmach/orb"
	"github.com/rotblauer/transectd/common"
	srgeo "github.com/sams96/rgeo"
)

type ReverseGeocoder interface {
	GetLocation(pt orb.Point) (srgeo.Location, error)
	GetGeometry(pt orb.Point, dataset string) (orb.Geometry, error)
}

// rR is the type of our wrapped rgeo.Rgeo instance, which implements the ReverseGeocoder interface.
type rR srgeo.Rgeo

// r is the instance of our wrapped rgeo.Rgeo instance.
var r *rR

func (rr *rR) GetLocation(pt orb.Point) (srgeo.Location, error) {
	return (*srgeo.Rgeo)(rr).ReverseGeocode(pt)
}

func (rr *rR) GetGeometry(pt orb.Point, dataset string) (orb.Geometry, error) {
	return (*srgeo.Rgeo)(rr).GetGeometry(pt, dataset)
}

var (
	Cities10      = srgeo.Cities10
	Countries10   = srgeo.Countries10
	Provinces10   = srgeo.Provinces10
	US_Counties10 = srgeo.US_Counties10
)

// datasets are the datasets that the reverse geocoder will use.
var datasets = []func() []byte{
	Cities10,
	Countries10,
	Provinces10,
	US_Counties10,
}

var DatasetNamesStable = []string{}

func init() {
	for _, d := range datasets {
		DatasetNamesStable = append(DatasetNamesStable, common.ReflectFunctionName(d))
	}
	sort.Slice(DatasetNamesStable, func(i, j int) bool {
		return DatasetNamesStable[i] < DatasetNamesStable[j]
	})
}

var (
	ErrAlreadyInitialized = fmt.Errorf("rgeo already initialized")
	ErrNotInitialized     = fmt.Errorf("rgeo not initialized")
)

// Init loads the boundary datasets. Expect it to take on the order of
// a minute and a couple gigabytes of memory.
func Init() error {
	if r != nil {
		return ErrAlreadyInitialized
	}

	r1, err := srgeo.New(datasets...)
	if err != nil {
		return err
	}
	r = (*rR)(r1)

	// Test: Assert that exported DatasetNamesStable matches actual loaded.
	names := r1.DatasetNames()
	if !slices.Equal(DatasetNamesStable, names) {
		return fmt.Errorf("DatasetNamesStable does not match actual")
	}
	return nil
}

// R gets the ReverseGeocoder instance, or ErrNotInitialized before Init.
// Callers that can live without regions should treat the error as
// "skip the decoration", not as fatal.
func R() (ReverseGeocoder, error) {
	if r == nil {
		return nil, ErrNotInitialized
	}
	return r, nil
}
