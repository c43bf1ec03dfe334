package lyricmap

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"
)

// pendingChanges accumulates what changed since the last render.
type pendingChanges struct {
	dirty  bool
	region bool // region selected or reset to home
	refine bool // location, artist, decade or search changed
}

func (p *pendingChanges) merge(o pendingChanges) {
	p.dirty = p.dirty || o.dirty
	p.region = p.region || o.region
	p.refine = p.refine || o.refine
}

func changesFor(kind ChangeKind) pendingChanges {
	switch kind {
	case ChangeRegion, ChangeReset:
		return pendingChanges{dirty: true, region: true}
	default:
		return pendingChanges{dirty: true, refine: true}
	}
}

type renderedMarker struct {
	rec     Record
	handle  MarkerHandle
	removed bool
}

// Synchronizer keeps the map, the markers and the result displays in step
// with a State. It owns the viewport and the marker set: nothing else should
// drive them while it is running.
//
// Changes arriving within the debounce window are coalesced into one render.
// Each render tears down every marker (and the open popup) and re-creates
// one marker per visible record. Collaborator methods are called with the
// Synchronizer's lock held and must not call back into it synchronously;
// marker click callbacks may arrive from any goroutine afterwards.
type Synchronizer struct {
	config   *Config
	state    *State
	viewport Viewport
	layer    MarkerLayer
	logger   *slog.Logger

	unsubscribe func()

	mu        sync.Mutex
	records   []Record
	lang      Language
	sinks     []ResultSink
	localizer Localizer
	onSelect  func(Record)

	pending    pendingChanges
	gen        uint64 // bumped on every schedule; stale timers compare against it
	timer      clockwork.Timer
	popupTimer clockwork.Timer

	markers []*renderedMarker
	byID    map[string]*renderedMarker
	open    *renderedMarker
	last    ResultSet
	closed  bool
}

// NewSynchronizer subscribes to state and drives viewport and layer. Nothing
// is rendered until SetRecords is called.
func NewSynchronizer(state *State, viewport Viewport, layer MarkerLayer, opts ...Option) *Synchronizer {
	cfg := newConfig(opts)
	s := &Synchronizer{
		config:   cfg,
		state:    state,
		viewport: viewport,
		layer:    layer,
		logger:   cfg.Logger,
		lang:     English,
		byID:     make(map[string]*renderedMarker),
	}
	s.unsubscribe = state.Subscribe(func(c Change) {
		s.schedule(changesFor(c.Kind))
	})
	return s
}

// AddSink registers a display that receives every ResultSet.
func (s *Synchronizer) AddSink(sink ResultSink) {
	s.mu.Lock()
	s.sinks = append(s.sinks, sink)
	s.mu.Unlock()
}

// SetLocalizer sets the localizer used for ResultSet.Summary.
func (s *Synchronizer) SetLocalizer(loc Localizer) {
	s.mu.Lock()
	s.localizer = loc
	s.mu.Unlock()
}

// OnSelect registers fn to be called with the record of every clicked (or
// randomly picked) marker.
func (s *Synchronizer) OnSelect(fn func(Record)) {
	s.mu.Lock()
	s.onSelect = fn
	s.mu.Unlock()
}

// SetRecords replaces the working set and schedules a render.
func (s *Synchronizer) SetRecords(records []Record) {
	s.mu.Lock()
	s.records = slices.Clone(records)
	s.mu.Unlock()
	s.schedule(pendingChanges{dirty: true})
}

// SetLanguage switches the language used for label resolution and schedules
// a render. The viewport is left where it is.
func (s *Synchronizer) SetLanguage(lang Language) {
	s.mu.Lock()
	changed := s.lang != lang
	s.lang = lang
	s.mu.Unlock()
	if changed {
		s.schedule(pendingChanges{dirty: true})
	}
}

// Language returns the current display language.
func (s *Synchronizer) Language() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Results returns the most recently rendered ResultSet.
func (s *Synchronizer) Results() ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Synchronizer) schedule(c pendingChanges) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending.merge(c)
	s.gen++
	if s.config.Debounce <= 0 {
		notify := s.renderLocked()
		s.mu.Unlock()
		notify()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = s.config.Clock.AfterFunc(s.config.Debounce, func() { s.flush(gen) })
	s.mu.Unlock()
}

// Flush renders pending changes immediately instead of waiting for the
// debounce window to elapse.
func (s *Synchronizer) Flush() {
	s.mu.Lock()
	notify := s.renderLocked()
	s.mu.Unlock()
	notify()
}

func (s *Synchronizer) flush(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		// A newer change rescheduled the render.
		s.mu.Unlock()
		return
	}
	notify := s.renderLocked()
	s.mu.Unlock()
	notify()
}

// renderLocked performs one recompute-and-render pass. The returned function
// delivers results to the sinks and must be called after unlocking.
func (s *Synchronizer) renderLocked() func() {
	if s.closed || !s.pending.dirty {
		return func() {}
	}
	changes := s.pending
	s.pending = pendingChanges{}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	filter := s.state.Snapshot()
	visible := Apply(s.records, filter, s.lang)

	s.clearMarkersLocked()
	for _, r := range visible {
		m := &renderedMarker{rec: r}
		// The callback is bound to its own marker; ids need not be unique.
		m.handle = s.layer.AddMarker(r, r.Coordinates, func(string) { s.clickMarker(m, true) })
		s.markers = append(s.markers, m)
		s.byID[r.ID] = m
	}

	rs := ResultSet{
		Records:   visible,
		Filter:    filter,
		Language:  s.lang,
		Count:     len(visible),
		NoResults: len(visible) == 0,
	}
	rs.Summary = summaryMessage(s.localizer, rs)
	s.last = rs

	if changes.region {
		if p, ok := presetFor(s.config.Regions, filter.Region); ok {
			s.viewport.SetCenter(p.Center, p.Zoom)
		}
	}
	if changes.refine && filter.HasRefinements() {
		s.moveCameraLocked(PlanCamera(visible, s.viewport.Zoom(), s.config.Camera))
	}

	s.logger.Debug("rendered filter results",
		slog.Int("visible", len(visible)),
		slog.Int("total", len(s.records)),
		slog.String("language", s.lang.String()),
		slog.Bool("region_changed", changes.region),
		slog.Bool("refined", changes.refine))

	sinks := slices.Clone(s.sinks)
	return func() {
		for _, sink := range sinks {
			sink.ShowResults(rs)
		}
	}
}

func (s *Synchronizer) moveCameraLocked(plan CameraPlan) {
	switch plan.Move {
	case MoveCenter:
		s.viewport.SetCenter(plan.Center, plan.Zoom)
	case MoveFitBounds:
		s.viewport.FitBounds(plan.Bounds, FitOptions{Padding: plan.Padding, MaxZoom: plan.MaxZoom})
	case MoveFly:
		s.viewport.FlyTo(plan.Center, plan.Zoom)
		target := s.byID[plan.Target]
		s.popupTimer = s.config.Clock.AfterFunc(s.config.Camera.PopupDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// Skip if a later render replaced the marker.
			if s.closed || target == nil || target.removed {
				return
			}
			s.openPopupLocked(target)
		})
	}
}

func (s *Synchronizer) clearMarkersLocked() {
	if s.popupTimer != nil {
		s.popupTimer.Stop()
		s.popupTimer = nil
	}
	if s.open != nil {
		s.open.handle.ClosePopup()
		s.open = nil
	}
	for _, m := range s.markers {
		m.handle.Remove()
		m.removed = true
	}
	s.markers = nil
	clear(s.byID)
}

func (s *Synchronizer) openPopupLocked(m *renderedMarker) {
	if s.open == m {
		return
	}
	if s.open != nil {
		s.open.handle.ClosePopup()
	}
	m.handle.OpenPopup()
	s.open = m
}

// Click behaves like a user click on the marker of record id: its popup
// opens (closing any other) and the camera flies to it. Clicking the marker
// whose popup is already open closes it. When several rendered records share
// id, the last one is used. It reports whether id is rendered.
func (s *Synchronizer) Click(id string) bool {
	s.mu.Lock()
	m, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return s.clickMarker(m, true)
}

func (s *Synchronizer) clickMarker(m *renderedMarker, toggle bool) bool {
	s.mu.Lock()
	if m.removed || s.closed {
		s.mu.Unlock()
		return false
	}
	if s.popupTimer != nil {
		s.popupTimer.Stop()
		s.popupTimer = nil
	}
	if toggle && s.open == m {
		m.handle.ClosePopup()
		s.open = nil
		s.mu.Unlock()
		return true
	}
	s.openPopupLocked(m)
	s.viewport.FlyTo(m.rec.Coordinates, max(s.viewport.Zoom(), s.config.Camera.DetailZoom))
	onSelect, rec := s.onSelect, m.rec
	s.mu.Unlock()

	if onSelect != nil {
		onSelect(rec)
	}
	return true
}

// RandomPick clicks a uniformly chosen rendered marker and returns its record
// id. With nothing rendered it does nothing and returns false.
func (s *Synchronizer) RandomPick() (string, bool) {
	s.mu.Lock()
	if len(s.markers) == 0 || s.closed {
		s.mu.Unlock()
		return "", false
	}
	m := s.markers[s.config.Rand.IntN(len(s.markers))]
	s.mu.Unlock()

	if !s.clickMarker(m, false) {
		return "", false
	}
	return m.rec.ID, true
}

// GoHome resets the selection to the State's home region. The camera follows
// the region preset on the next render; when the home region has no preset
// (or the State has no home at all) the configured home viewport is used
// right away.
func (s *Synchronizer) GoHome() {
	s.state.Reset()
	if _, ok := presetFor(s.config.Regions, s.state.Home()); ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.viewport.SetCenter(s.config.Home.Center, s.config.Home.Zoom)
}

// Close stops pending renders, removes every marker and detaches from the
// State.
func (s *Synchronizer) Close() {
	s.unsubscribe()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.clearMarkersLocked()
}
