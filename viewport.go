package lyricmap

import (
	"time"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// RegionPreset is the camera position used when a region is selected.
type RegionPreset struct {
	Region FacetValue
	Center Coordinates
	Zoom   float64
}

// DefaultRegionPresets lists the camera presets of the known regions. The
// first entry, Hong Kong, is the default home region.
var DefaultRegionPresets = []RegionPreset{
	{FacetValue{Primary: "香港", Secondary: "Hong Kong"}, Coordinates{114.160932, 22.334575}, 10.77},
	{FacetValue{Primary: "日本", Secondary: "Japan"}, Coordinates{141.959456, 38.665890}, 5.04},
	{FacetValue{Primary: "亚洲其他", Secondary: "Asia (Others)"}, Coordinates{99.859452, 32.924926}, 3.28},
	{FacetValue{Primary: "欧洲", Secondary: "Europe"}, Coordinates{17.883928, 53.980905}, 3.51},
	{FacetValue{Primary: "北美洲", Secondary: "North America"}, Coordinates{-98.623975, 38.801656}, 4.05},
	{FacetValue{Primary: "大洋洲", Secondary: "Oceania"}, Coordinates{134.034144, -26.016501}, 3.66},
	{FacetValue{Primary: "非洲", Secondary: "Africa"}, Coordinates{21.273888, 22.348584}, 3.56},
	{FacetValue{Primary: "北极", Secondary: "Arctic"}, Coordinates{-18.022112, 82.930569}, 3.15},
	{FacetValue{Primary: "南极洲", Secondary: "Antarctica"}, Coordinates{141.408541, -83.628161}, 3.01},
}

// presetFor finds the preset whose region shares a label with region.
func presetFor(presets []RegionPreset, region FacetValue) (RegionPreset, bool) {
	if region.IsZero() {
		return RegionPreset{}, false
	}
	for _, p := range presets {
		if p.Region.Matches(region.Primary) || p.Region.Matches(region.Secondary) {
			return p, true
		}
	}
	return RegionPreset{}, false
}

// CameraConfig tunes how the viewport follows filter results.
type CameraConfig struct {
	DetailZoom float64 // zoom for a single match and marker clicks
	MaxFitZoom float64 // fitting several matches never zooms past this
	Padding    float64 // pixels around fitted bounds
	// SmallArea is the bounding-box area, in square degrees, below which
	// several matches are recentred without changing zoom.
	SmallArea  float64
	PopupDelay time.Duration // wait after a fly-to before opening the popup
}

// DefaultCamera is used unless WithCamera overrides it.
var DefaultCamera = CameraConfig{
	DetailZoom: 15,
	MaxFitZoom: 14,
	Padding:    50,
	SmallArea:  0.0001,
	PopupDelay: 800 * time.Millisecond,
}

// BoundingBox is an axis-aligned lng/lat box. When the box crosses the
// antimeridian, SouthWest.Lng is greater than NorthEast.Lng.
type BoundingBox struct {
	SouthWest Coordinates
	NorthEast Coordinates
}

// Center returns the box midpoint.
func (b BoundingBox) Center() Coordinates {
	return fromLatLng(b.rect().Center())
}

// Area returns the box area in square degrees.
func (b BoundingBox) Area() float64 {
	size := b.rect().Size()
	return size.Lat.Degrees() * size.Lng.Degrees()
}

func (b BoundingBox) rect() s2.Rect {
	sw, ne := toLatLng(b.SouthWest), toLatLng(b.NorthEast)
	return s2.Rect{
		Lat: r1.Interval{Lo: sw.Lat.Radians(), Hi: ne.Lat.Radians()},
		Lng: s1.IntervalFromEndpoints(sw.Lng.Radians(), ne.Lng.Radians()),
	}
}

// Bounds returns the smallest box containing every record's coordinates.
// ok is false for an empty slice.
func Bounds(records []Record) (box BoundingBox, ok bool) {
	if len(records) == 0 {
		return BoundingBox{}, false
	}
	rect := s2.EmptyRect()
	for _, r := range records {
		rect = rect.AddPoint(toLatLng(r.Coordinates))
	}
	return BoundingBox{SouthWest: fromLatLng(rect.Lo()), NorthEast: fromLatLng(rect.Hi())}, true
}

func toLatLng(c Coordinates) s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lng)
}

func fromLatLng(ll s2.LatLng) Coordinates {
	return Coordinates{Lng: ll.Lng.Degrees(), Lat: ll.Lat.Degrees()}
}

// CameraMove is a planned viewport command.
type CameraMove int

const (
	MoveNone      CameraMove = iota
	MoveCenter               // SetCenter at Center/Zoom
	MoveFly                  // FlyTo Center/Zoom, then open the popup of Target
	MoveFitBounds            // FitBounds Bounds with Padding and MaxZoom
)

// CameraPlan is the viewport command derived from a set of matches.
type CameraPlan struct {
	Move    CameraMove
	Center  Coordinates
	Zoom    float64
	Bounds  BoundingBox
	Padding float64
	MaxZoom float64
	Target  string // record id whose popup opens after MoveFly
}

// PlanCamera decides how the viewport follows matches: stay put for none,
// fly to a single match, recentre on a tight cluster at currentZoom, or fit
// the bounding box of a wide spread.
func PlanCamera(matches []Record, currentZoom float64, cam CameraConfig) CameraPlan {
	switch len(matches) {
	case 0:
		return CameraPlan{Move: MoveNone}
	case 1:
		return CameraPlan{
			Move:   MoveFly,
			Center: matches[0].Coordinates,
			Zoom:   cam.DetailZoom,
			Target: matches[0].ID,
		}
	}
	box, _ := Bounds(matches)
	if box.Area() < cam.SmallArea {
		return CameraPlan{Move: MoveCenter, Center: box.Center(), Zoom: currentZoom}
	}
	return CameraPlan{
		Move:    MoveFitBounds,
		Bounds:  box,
		Padding: cam.Padding,
		MaxZoom: cam.MaxFitZoom,
	}
}
