package lyricmap

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Filter is an immutable snapshot of the user's selection. A zero Region
// means "all regions". Locations, Artists and Decades are sets kept in the
// order their members were added.
type Filter struct {
	Region     FacetValue
	Locations  []string
	Artists    []string
	Decades    []string
	SearchText string
}

// Empty reports whether no predicate is active.
func (f Filter) Empty() bool {
	return f.Region.IsZero() && !f.HasRefinements()
}

// HasRefinements reports whether any predicate finer than region is active.
func (f Filter) HasRefinements() bool {
	return len(f.Locations) > 0 || len(f.Artists) > 0 || len(f.Decades) > 0 ||
		strings.TrimSpace(f.SearchText) != ""
}

// FirstLocation returns the earliest selected location, for single-choice
// controls.
func (f Filter) FirstLocation() string { return first(f.Locations) }

// FirstArtist returns the earliest selected artist.
func (f Filter) FirstArtist() string { return first(f.Artists) }

// FirstDecade returns the earliest selected decade.
func (f Filter) FirstDecade() string { return first(f.Decades) }

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func (f Filter) clone() Filter {
	f.Locations = slices.Clone(f.Locations)
	f.Artists = slices.Clone(f.Artists)
	f.Decades = slices.Clone(f.Decades)
	return f
}

// Apply returns the records passing every active predicate of f, in their
// original order. It never modifies records. Values absent from the data
// (stale selections) simply match nothing.
func Apply(records []Record, f Filter, lang Language) []Record {
	if len(records) == 0 {
		return []Record{}
	}
	m := newMatcher(f, lang)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record passes f.
func Match(r Record, f Filter, lang Language) bool {
	return newMatcher(f, lang).match(r)
}

type matcher struct {
	f      Filter
	lang   Language
	fold   cases.Caser
	needle string
}

func newMatcher(f Filter, lang Language) *matcher {
	m := &matcher{f: f, lang: lang, fold: cases.Fold()}
	if s := strings.TrimSpace(f.SearchText); s != "" {
		m.needle = m.normalize(s)
	}
	return m
}

// normalize folds case and compatibility forms, so full-width "ＭＯＯＮ"
// matches "moon".
func (m *matcher) normalize(s string) string {
	return m.fold.String(norm.NFKC.String(s))
}

func (m *matcher) match(r Record) bool {
	return m.matchRegion(r) &&
		memberOrEmpty(m.f.Locations, r.Field(FieldLocation, m.lang)) &&
		memberOrEmpty(m.f.Artists, r.Field(FieldArtist, m.lang)) &&
		m.matchDecade(r) &&
		m.matchSearch(r)
}

// matchRegion checks each of the record's region labels against both labels
// of the selection, so the result does not depend on the display language
// and records with a region in only one column (or in the wrong one) still
// match.
func (m *matcher) matchRegion(r Record) bool {
	sel := m.f.Region
	if sel.IsZero() {
		return true
	}
	return sel.Matches(r.Region) || sel.Matches(r.RegionEn)
}

func memberOrEmpty(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	return v != "" && slices.Contains(set, v)
}

func (m *matcher) matchDecade(r Record) bool {
	if len(m.f.Decades) == 0 {
		return true
	}
	d, ok := r.Decade()
	return ok && slices.Contains(m.f.Decades, d)
}

func (m *matcher) matchSearch(r Record) bool {
	if m.needle == "" {
		return true
	}
	for _, s := range [...]string{
		r.Song, r.SongEn,
		r.Lyrics, r.LyricsEn,
		r.Album,
		r.Artist, r.ArtistEn,
		r.Songwriter, r.SongwriterEn,
		r.LocationName, r.LocationNameEn,
	} {
		if s != "" && strings.Contains(m.normalize(s), m.needle) {
			return true
		}
	}
	return false
}
