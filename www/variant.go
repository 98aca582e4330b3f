package www

import (
	"fmt"

	"github.com/t-800m101/spothinta-go/prices"
)

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Variant identifies one generated page: orientation x theme x
// resolution. Page file names use the Finnish short forms so the URLs
// read naturally for the audience.
type Variant struct {
	Orientation Orientation
	Theme       Theme
	Resolution  prices.Resolution
}

var (
	orientationSlugs = map[Orientation]string{Vertical: "pysty", Horizontal: "vaaka"}
	themeSlugs       = map[Theme]string{Light: "vaalea", Dark: "tumma"}
	resolutionSlugs  = map[prices.Resolution]string{prices.Hourly: "tunti", prices.Quarter: "vartti"}
)

func (v Variant) FileName() string {
	return fmt.Sprintf("spot-hinta-%s-%s-%s.html",
		orientationSlugs[v.Orientation], themeSlugs[v.Theme], resolutionSlugs[v.Resolution])
}

// DefaultVariant is also written as index.html.
var DefaultVariant = Variant{Orientation: Vertical, Theme: Light, Resolution: prices.Hourly}

func AllVariants() []Variant {
	var vs []Variant
	for _, o := range []Orientation{Vertical, Horizontal} {
		for _, t := range []Theme{Light, Dark} {
			for _, r := range []prices.Resolution{prices.Hourly, prices.Quarter} {
				vs = append(vs, Variant{Orientation: o, Theme: t, Resolution: r})
			}
		}
	}
	return vs
}

// AltOrientation returns the same page with the other orientation.
func (v Variant) AltOrientation() Variant {
	if v.Orientation == Vertical {
		v.Orientation = Horizontal
	} else {
		v.Orientation = Vertical
	}
	return v
}

func (v Variant) AltTheme() Variant {
	if v.Theme == Light {
		v.Theme = Dark
	} else {
		v.Theme = Light
	}
	return v
}

func (v Variant) AltResolution() Variant {
	if v.Resolution == prices.Hourly {
		v.Resolution = prices.Quarter
	} else {
		v.Resolution = prices.Hourly
	}
	return v
}
