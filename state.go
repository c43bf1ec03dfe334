package lyricmap

import (
	"net/url"
	"slices"
	"strings"
	"sync"
)

// ChangeKind identifies which part of a Filter a mutation touched.
type ChangeKind int

const (
	ChangeRegion ChangeKind = iota
	ChangeLocation
	ChangeArtist
	ChangeDecade
	ChangeSearch
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeRegion:
		return "region"
	case ChangeLocation:
		return "location"
	case ChangeArtist:
		return "artist"
	case ChangeDecade:
		return "decade"
	case ChangeSearch:
		return "search"
	case ChangeReset:
		return "reset"
	}
	return "unknown"
}

// Change is delivered to State subscribers after each mutation.
type Change struct {
	Kind   ChangeKind
	Filter Filter // snapshot after the mutation
}

// State owns the current Filter and notifies subscribers of every change.
// All mutation goes through its methods; none of them fail. Safe for
// concurrent use.
type State struct {
	mu     sync.Mutex
	filter Filter
	home   FacetValue

	subMu  sync.Mutex
	subs   map[int]func(Change)
	nextID int
}

// NewState returns a State positioned on home, which may be zero.
func NewState(home FacetValue) *State {
	return &State{
		filter: Filter{Region: home},
		home:   home,
		subs:   make(map[int]func(Change)),
	}
}

// NewStateFor picks the home region out of facets: the region matching
// homeLabel in either language, or none when the dataset lacks it.
func NewStateFor(facets Facets, homeLabel string) *State {
	home, _ := facets.Region(homeLabel)
	return NewState(home)
}

// Snapshot returns a copy of the current filter.
func (s *State) Snapshot() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.clone()
}

// Home returns the home region.
func (s *State) Home() FacetValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.home
}

// SetHome changes the home region used by Reset. The current selection is
// left alone.
func (s *State) SetHome(home FacetValue) {
	s.mu.Lock()
	s.home = home
	s.mu.Unlock()
}

// Subscribe registers fn to be called after every mutation, on the mutating
// goroutine and outside any State lock, so fn may call back into the State.
// The returned function removes the subscription.
func (s *State) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// SetRegion selects region and clears every finer selection, since the
// location, artist and decade options depend on the region.
func (s *State) SetRegion(region FacetValue) {
	s.mutate(ChangeRegion, func(f *Filter) {
		*f = Filter{Region: region}
	})
}

// ToggleLocation adds value to the location set, or removes it if present.
func (s *State) ToggleLocation(value string) {
	s.mutate(ChangeLocation, func(f *Filter) { f.Locations = toggle(f.Locations, value) })
}

// ToggleArtist adds value to the artist set, or removes it if present.
func (s *State) ToggleArtist(value string) {
	s.mutate(ChangeArtist, func(f *Filter) { f.Artists = toggle(f.Artists, value) })
}

// ToggleDecade adds value to the decade set, or removes it if present.
func (s *State) ToggleDecade(value string) {
	s.mutate(ChangeDecade, func(f *Filter) { f.Decades = toggle(f.Decades, value) })
}

// SetSearchText replaces the free-text search.
func (s *State) SetSearchText(text string) {
	s.mutate(ChangeSearch, func(f *Filter) { f.SearchText = text })
}

// Reset returns to the home region with nothing else selected.
func (s *State) Reset() {
	s.mutate(ChangeReset, func(f *Filter) { *f = Filter{Region: s.home} })
}

// ApplyDeepLink pre-populates the search text from a URL or fragment such as
// "#/explore?search=moon". It reports whether the link carried a search.
func (s *State) ApplyDeepLink(link string) bool {
	q, ok := ParseSearchLink(link)
	if ok {
		s.SetSearchText(q)
	}
	return ok
}

func (s *State) mutate(kind ChangeKind, fn func(*Filter)) {
	s.mu.Lock()
	fn(&s.filter)
	snap := s.filter.clone()
	s.mu.Unlock()

	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(Change{Kind: kind, Filter: snap.clone()})
	}
}

func toggle(set []string, v string) []string {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}

// ParseSearchLink extracts the "search" query parameter from a URL, a
// "#/path?query" fragment or a bare query string. ok is false when there is
// no non-empty search parameter.
func ParseSearchLink(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if i := strings.LastIndexByte(link, '#'); i >= 0 {
		link = link[i+1:]
	}
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[i+1:]
	}
	values, err := url.ParseQuery(link)
	if err != nil {
		return "", false
	}
	q := strings.TrimSpace(values.Get("search"))
	return q, q != ""
}
