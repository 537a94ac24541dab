package poi

import (
	"encoding/json"
	"regexp"
)

// Category classifies a point of interest.
// Each category carries a default notification radius so that imported
// waypoints without an explicit radius still geofence sensibly;
// a transit stop is a pin-point, a natural feature sprawls.
type Category int

const (
	CategoryShop Category = iota
	CategoryRestaurant
	CategoryAttraction
	CategoryTransport
	CategoryAmenity
	CategoryHistoric
	CategoryNatural
	CategoryInfrastructure
	CategoryUnknown Category = -1
)

var AllCategoryNames = []string{
	CategoryUnknown.String(),
	CategoryShop.String(),
	CategoryRestaurant.String(),
	CategoryAttraction.String(),
	CategoryTransport.String(),
	CategoryAmenity.String(),
	CategoryHistoric.String(),
	CategoryNatural.String(),
	CategoryInfrastructure.String(),
}

var (
	categoryShop       = regexp.MustCompile(`(?i)shop|store|market|retail`)
	categoryRestaurant = regexp.MustCompile(`(?i)restaurant|cafe|food|bar|pub`)
	categoryAttraction = regexp.MustCompile(`(?i)attraction|tourist|tourism|museum|viewpoint`)
	categoryTransport  = regexp.MustCompile(`(?i)transport|transit|station|stop|bus|rail`)
	categoryAmenity    = regexp.MustCompile(`(?i)amenity|toilet|fountain|bench|shelter`)
	categoryHistoric   = regexp.MustCompile(`(?i)historic|monument|memorial|ruin|archaeo`)
	categoryNatural    = regexp.MustCompile(`(?i)natural|nature|peak|spring|tree|water`)
	categoryInfra      = regexp.MustCompile(`(?i)infrastructure|tower|bridge|dam|utility`)
)

// String implements the Stringer interface.
func (c Category) String() string {
	switch c {
	case CategoryShop:
		return "Shop"
	case CategoryRestaurant:
		return "Restaurant"
	case CategoryAttraction:
		return "Attraction"
	case CategoryTransport:
		return "Transport"
	case CategoryAmenity:
		return "Amenity"
	case CategoryHistoric:
		return "Historic"
	case CategoryNatural:
		return "Natural"
	case CategoryInfrastructure:
		return "Infrastructure"
	}
	return "Unknown"
}

// IsKnown returns true if the category is not Unknown.
func (c Category) IsKnown() bool {
	return c != CategoryUnknown
}

// DefaultRadius returns the category's default notification radius in meters.
// Small and pointlike places get tight fences; large or diffuse places
// get roomy ones. A walking surveyor at ~1.2 m/s with a 5-second fix
// interval moves ~6m between fixes, so even the tightest fence here is
// several fixes wide.
func (c Category) DefaultRadius() float64 {
	switch c {
	case CategoryShop:
		return 50
	case CategoryRestaurant:
		return 50
	case CategoryAttraction:
		return 100
	case CategoryTransport:
		return 75
	case CategoryAmenity:
		return 50
	case CategoryHistoric:
		return 100
	case CategoryNatural:
		return 150
	case CategoryInfrastructure:
		return 75
	}
	return 50
}

func FromAny(a any) Category {
	if a == nil {
		return CategoryUnknown
	}
	str, ok := a.(string)
	if !ok {
		return CategoryUnknown
	}
	return FromString(str)
}

func FromString(str string) Category {
	switch {
	case categoryShop.MatchString(str):
		return CategoryShop
	case categoryRestaurant.MatchString(str):
		return CategoryRestaurant
	case categoryAttraction.MatchString(str):
		return CategoryAttraction
	case categoryTransport.MatchString(str):
		return CategoryTransport
	case categoryAmenity.MatchString(str):
		return CategoryAmenity
	case categoryHistoric.MatchString(str):
		return CategoryHistoric
	case categoryNatural.MatchString(str):
		return CategoryNatural
	case categoryInfra.MatchString(str):
		return CategoryInfrastructure
	}
	return CategoryUnknown
}

// MarshalJSON encodes the category as its name, not its integer value.
// Seed files and exports stay legible that way.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = FromString(s)
	return nil
}
