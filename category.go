package vptrack

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"
)

// Category is the canonical class an object detection is reported as
type Category string

const (
	// Vehicle is the category for every detector class that is not a human
	Vehicle Category = "vehicle"
	// Pedestrian is the category for detector classes indicating a human
	Pedestrian Category = "pedestrian"
)

var (
	// pedestrianTokens are substrings of a lowercased class name that
	// indicate a human subject
	pedestrianTokens = []string{"person", "pedestrian", "people", "human"}

	clrPedestrian = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	clrVehicle    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// Normalize maps an arbitrary detector class name onto one of the two
// canonical categories and returns the color used to render it.
//
// The match is case insensitive.  Names that do not contain a pedestrian
// token fall through to Vehicle, this is the default policy for unknown
// classes and not an error.
func Normalize(name string) (Category, color.RGBA) {

	n := strings.ToLower(strings.TrimSpace(name))

	for _, tok := range pedestrianTokens {
		if strings.Contains(n, tok) {
			return Pedestrian, clrPedestrian
		}
	}

	return Vehicle, clrVehicle
}

// Title returns the category name with the first letter capitalized, as used
// in rendered labels
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Color returns the render color of the category
func (c Category) Color() color.RGBA {
	if c == Pedestrian {
		return clrPedestrian
	}
	return clrVehicle
}

// Valid reports whether c is one of the two canonical categories
func (c Category) Valid() bool {
	return c == Vehicle || c == Pedestrian
}

// UnmarshalJSON rejects any value other than the canonical categories so a
// results file can never introduce a third class
func (c *Category) UnmarshalJSON(b []byte) error {

	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	cat := Category(s)

	if !cat.Valid() {
		return fmt.Errorf("invalid category %q", s)
	}

	*c = cat
	return nil
}
