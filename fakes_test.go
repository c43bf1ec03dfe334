package lyricmap

import (
	"fmt"
	"sync"
)

// Fixtures shared by the package tests.
var (
	hkTinHau = Record{
		ID: "hk-1", Song: "下一站天后", SongEn: "Next Stop Tin Hau",
		Artist: "Twins", ArtistEn: "Twins", Songwriter: "黃偉年", SongwriterEn: "Wong Wai-nin",
		Album: "Touch of Love", Year: "2003",
		LocationName: "天后站", LocationNameEn: "Tin Hau Station",
		Region: "香港", RegionEn: "Hong Kong",
		Lyrics:      "到天后 當然最好 但華麗的星途 途中",
		Coordinates: Coordinates{Lng: 114.1917, Lat: 22.2824},
	}
	hkFindlay = Record{
		ID: "hk-2", Song: "芬梨道上", SongEn: "Findlay Road",
		Artist: "楊千嬅", ArtistEn: "Miriam Yeung", Songwriter: "林夕", SongwriterEn: "Albert Leung",
		Album: "Single Minded", Year: "2006",
		LocationName: "芬梨道", LocationNameEn: "Findlay Rd",
		Region: "香港", RegionEn: "Hong Kong",
		Lyrics:      "這山頂如何高貴 似叫人踏上天梯",
		Coordinates: Coordinates{Lng: 114.1513, Lat: 22.2705},
	}
	jpFuji = Record{
		ID: "jp-1", Song: "富士山下", SongEn: "Under Mount Fuji",
		Artist: "陳奕迅", ArtistEn: "Eason Chan", Songwriter: "林夕",
		Album: "What's Going On...?", Year: "2006",
		LocationName: "富士山", LocationNameEn: "Mount Fuji",
		Region: "日本", RegionEn: "Japan",
		Lyrics:      "誰都只得那雙手 靠擁抱亦難任你擁有",
		LyricsEn:    "the moon over the mountain",
		Coordinates: Coordinates{Lng: 138.7274, Lat: 35.3606},
	}
	londonNoRegion = Record{
		ID: "uk-1", SongEn: "Only English", ArtistEn: "Someone",
		LocationNameEn: "Somewhere",
		Coordinates:    Coordinates{Lng: -0.1276, Lat: 51.5072},
	}

	hongKong = FacetValue{Primary: "香港", Secondary: "Hong Kong"}
	japan    = FacetValue{Primary: "日本", Secondary: "Japan"}
)

func scenarioRecords() []Record {
	return []Record{hkTinHau, hkFindlay, jpFuji}
}

func allRecords() []Record {
	return []Record{hkTinHau, hkFindlay, jpFuji, londonNoRegion}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// fakeViewport records every camera command.
type fakeViewport struct {
	mu       sync.Mutex
	zoom     float64
	commands []string
}

func newFakeViewport(zoom float64) *fakeViewport {
	return &fakeViewport{zoom: zoom}
}

func (v *fakeViewport) SetCenter(center Coordinates, zoom float64) {
	v.record(fmt.Sprintf("center %.6f,%.6f z%.2f", center.Lng, center.Lat, zoom))
	v.mu.Lock()
	v.zoom = zoom
	v.mu.Unlock()
}

func (v *fakeViewport) FlyTo(center Coordinates, zoom float64) {
	v.record(fmt.Sprintf("fly %.6f,%.6f z%.2f", center.Lng, center.Lat, zoom))
	v.mu.Lock()
	v.zoom = zoom
	v.mu.Unlock()
}

func (v *fakeViewport) FitBounds(box BoundingBox, opts FitOptions) {
	v.record(fmt.Sprintf("fit %.4f,%.4f %.4f,%.4f pad%.0f max%.0f",
		box.SouthWest.Lng, box.SouthWest.Lat, box.NorthEast.Lng, box.NorthEast.Lat,
		opts.Padding, opts.MaxZoom))
}

func (v *fakeViewport) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *fakeViewport) ZoomTo(level float64) {
	v.record(fmt.Sprintf("zoom z%.2f", level))
	v.mu.Lock()
	v.zoom = level
	v.mu.Unlock()
}

func (v *fakeViewport) record(cmd string) {
	v.mu.Lock()
	v.commands = append(v.commands, cmd)
	v.mu.Unlock()
}

func (v *fakeViewport) Commands() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.commands...)
}

// fakeLayer tracks markers and popups.
type fakeLayer struct {
	mu      sync.Mutex
	added   int
	markers []*fakeMarker
}

type fakeMarker struct {
	layer   *fakeLayer
	id      string
	onClick func(string)
	removed bool
	popup   bool
}

func (l *fakeLayer) AddMarker(r Record, at Coordinates, onClick func(id string)) MarkerHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := &fakeMarker{layer: l, id: r.ID, onClick: onClick}
	l.added++
	l.markers = append(l.markers, m)
	return m
}

func (m *fakeMarker) Remove() {
	m.layer.mu.Lock()
	m.removed = true
	m.popup = false
	m.layer.mu.Unlock()
}

func (m *fakeMarker) OpenPopup() {
	m.layer.mu.Lock()
	m.popup = true
	m.layer.mu.Unlock()
}

func (m *fakeMarker) ClosePopup() {
	m.layer.mu.Lock()
	m.popup = false
	m.layer.mu.Unlock()
}

// Live returns the ids of markers currently on the map.
func (l *fakeLayer) Live() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, m := range l.markers {
		if !m.removed {
			out = append(out, m.id)
		}
	}
	return out
}

// OpenPopups returns the ids of markers whose popup is open.
func (l *fakeLayer) OpenPopups() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, m := range l.markers {
		if m.popup {
			out = append(out, m.id)
		}
	}
	return out
}

// Added returns how many markers were ever created.
func (l *fakeLayer) Added() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.added
}

// ClickLive simulates a user click on the live marker of id.
func (l *fakeLayer) ClickLive(id string) {
	l.mu.Lock()
	var target *fakeMarker
	for _, m := range l.markers {
		if !m.removed && m.id == id {
			target = m
		}
	}
	l.mu.Unlock()
	if target != nil {
		target.onClick(id)
	}
}

// mapLocalizer is a tiny Localizer for tests.
type mapLocalizer map[MessageKey]string

func (m mapLocalizer) Message(_ Language, key MessageKey, args ...any) string {
	return fmt.Sprintf(m[key], args...)
}

// liveAt returns the i-th marker still on the map.
func (l *fakeLayer) liveAt(i int) *fakeMarker {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.markers {
		if m.removed {
			continue
		}
		if i == 0 {
			return m
		}
		i--
	}
	return nil
}

// ClickAt simulates a user click on the i-th live marker.
func (l *fakeLayer) ClickAt(i int) {
	if m := l.liveAt(i); m != nil {
		m.onClick(m.id)
	}
}

// PopupOpenAt reports whether the i-th live marker shows its popup.
func (l *fakeLayer) PopupOpenAt(i int) bool {
	m := l.liveAt(i)
	if m == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return m.popup
}
