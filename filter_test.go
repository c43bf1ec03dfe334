package lyricmap

import (
	"reflect"
	"testing"
)

func TestApplyEmptyFilterKeepsOrder(t *testing.T) {
	records := allRecords()
	got := Apply(records, Filter{}, English)
	if !reflect.DeepEqual(ids(got), ids(records)) {
		t.Errorf("Apply(empty) = %v, want %v", ids(got), ids(records))
	}
	if got := Apply(nil, Filter{SearchText: "x"}, English); got == nil || len(got) != 0 {
		t.Errorf("Apply(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestApplyPredicates(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		lang Language
		want []string
	}{
		{"region hong kong", Filter{Region: hongKong}, English, []string{"hk-1", "hk-2"}},
		{"region japan in chinese", Filter{Region: japan}, Chinese, []string{"jp-1"}},
		{"unknown region", Filter{Region: FacetValue{Secondary: "Mars"}}, English, nil},
		{"location", Filter{Locations: []string{"Mount Fuji"}}, English, []string{"jp-1"}},
		{"location set", Filter{Locations: []string{"Mount Fuji", "Findlay Rd"}}, English, []string{"hk-2", "jp-1"}},
		{"artist chinese label", Filter{Artists: []string{"楊千嬅"}}, Chinese, []string{"hk-2"}},
		{"artist label of other language", Filter{Artists: []string{"楊千嬅"}}, English, nil},
		{"decade excludes undated", Filter{Decades: []string{"2000s"}}, English, []string{"hk-1", "hk-2", "jp-1"}},
		{"stale decade", Filter{Decades: []string{"1950s"}}, English, nil},
		{"stale location", Filter{Locations: []string{"Atlantis"}}, English, nil},
		{"search lyrics case-insensitive", Filter{SearchText: "MOON"}, English, []string{"jp-1"}},
		{"search full-width", Filter{SearchText: "ＭＯＯＮ"}, English, []string{"jp-1"}},
		{"search chinese", Filter{SearchText: "天后"}, English, []string{"hk-1"}},
		{"search english title", Filter{SearchText: "findlay"}, Chinese, []string{"hk-2"}},
		{"search songwriter", Filter{SearchText: "albert"}, English, []string{"hk-2"}},
		{"search album", Filter{SearchText: "going on"}, English, []string{"jp-1"}},
		{"blank search is inactive", Filter{SearchText: "   "}, English, []string{"hk-1", "hk-2", "jp-1", "uk-1"}},
		{"conjunction", Filter{Region: hongKong, Decades: []string{"2000s"}, SearchText: "天"}, English, []string{"hk-1", "hk-2"}},
		{"conjunction empty", Filter{Region: japan, Artists: []string{"Twins"}}, English, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(allRecords(), tt.f, tt.lang))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply(%+v) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

// A region filled in only one language still matches a selection made in
// the other.
func TestApplyRegionMatchesEitherVariant(t *testing.T) {
	enOnly := Record{ID: "en", RegionEn: "Japan", Coordinates: Coordinates{139.7, 35.7}}
	zhOnly := Record{ID: "zh", Region: "日本", Coordinates: Coordinates{135.5, 34.7}}
	// English label in the primary column.
	mixed := Record{ID: "mixed", Region: "Japan", Coordinates: Coordinates{130.4, 33.6}}
	records := []Record{enOnly, zhOnly, mixed}

	for _, lang := range []Language{English, Chinese} {
		got := ids(Apply(records, Filter{Region: japan}, lang))
		if !reflect.DeepEqual(got, []string{"en", "zh", "mixed"}) {
			t.Errorf("lang %s: Apply(japan) = %v", lang, got)
		}
	}
}

// Adding a predicate never grows the result, and every result satisfies each
// predicate on its own.
func TestApplyIsConjunction(t *testing.T) {
	full := Filter{
		Region:     hongKong,
		Artists:    []string{"Twins", "Miriam Yeung"},
		Decades:    []string{"2000s"},
		SearchText: "天",
	}
	parts := []Filter{
		{Region: full.Region},
		{Artists: full.Artists},
		{Decades: full.Decades},
		{SearchText: full.SearchText},
	}
	combined := Apply(allRecords(), full, English)
	for _, p := range parts {
		single := Apply(allRecords(), p, English)
		if len(combined) > len(single) {
			t.Errorf("combined %v larger than %+v alone %v", ids(combined), p, ids(single))
		}
		for _, r := range combined {
			if !Match(r, p, English) {
				t.Errorf("%s in combined result fails %+v", r.ID, p)
			}
		}
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	records := allRecords()
	before := append([]Record(nil), records...)
	Apply(records, Filter{Region: japan}, English)
	if !reflect.DeepEqual(records, before) {
		t.Errorf("Apply modified its input")
	}
}

func TestFilterHelpers(t *testing.T) {
	f := Filter{Artists: []string{"Twins", "Eason Chan"}}
	if f.Empty() || !f.HasRefinements() {
		t.Errorf("artist filter: Empty=%v HasRefinements=%v", f.Empty(), f.HasRefinements())
	}
	if f.FirstArtist() != "Twins" || f.FirstLocation() != "" || f.FirstDecade() != "" {
		t.Errorf("First* helpers wrong for %+v", f)
	}
	regionOnly := Filter{Region: japan}
	if regionOnly.Empty() || regionOnly.HasRefinements() {
		t.Errorf("region-only filter misreported")
	}
	if !(Filter{SearchText: "  "}).Empty() {
		t.Errorf("blank search text counted as a predicate")
	}

	c := f.clone()
	c.Artists[0] = "changed"
	if f.Artists[0] != "Twins" {
		t.Errorf("clone shares backing arrays")
	}
}
