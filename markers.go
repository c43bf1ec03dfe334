package lyricmap

// Viewport is the map camera, implemented by the map widget.
type Viewport interface {
	SetCenter(center Coordinates, zoom float64)
	FlyTo(center Coordinates, zoom float64)
	FitBounds(box BoundingBox, opts FitOptions)
	Zoom() float64
	ZoomTo(level float64)
}

// FitOptions configures Viewport.FitBounds.
type FitOptions struct {
	Padding float64
	MaxZoom float64
}

// MarkerLayer places markers on the map. onClick must be invoked with the
// record id whenever the user clicks the marker.
type MarkerLayer interface {
	AddMarker(r Record, at Coordinates, onClick func(id string)) MarkerHandle
}

// MarkerHandle controls one rendered marker.
type MarkerHandle interface {
	Remove()
	OpenPopup()
	ClosePopup()
}

// ResultSet is what list, grid and count displays render after a recompute.
type ResultSet struct {
	Records   []Record
	Filter    Filter
	Language  Language
	Count     int
	NoResults bool   // nothing is visible, whether or not a filter is active
	Summary   string // localized count line, empty without a Localizer
}

// ResultSink receives every recomputed ResultSet.
type ResultSink interface {
	ShowResults(rs ResultSet)
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(ResultSet)

func (f ResultSinkFunc) ShowResults(rs ResultSet) { f(rs) }
