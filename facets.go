package lyricmap

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FacetValue is one selectable option of a facet. Primary and Secondary are
// the Chinese and English labels; Count is the number of records carrying it.
type FacetValue struct {
	Primary   string
	Secondary string
	Count     int
}

// Label returns the value's label in lang, falling back to the other language.
func (v FacetValue) Label(lang Language) string {
	return resolve(v.Primary, v.Secondary, lang)
}

// Matches reports whether s equals either label.
func (v FacetValue) Matches(s string) bool {
	return s != "" && (s == v.Primary || s == v.Secondary)
}

// IsZero reports whether the value carries no label.
func (v FacetValue) IsZero() bool {
	return v.Primary == "" && v.Secondary == ""
}

// Facets holds the option lists derived from a set of records.
type Facets struct {
	Regions   []FacetValue
	Locations []FacetValue
	Artists   []FacetValue
	Decades   []FacetValue
}

// Region returns the region whose label in either language equals label.
func (f Facets) Region(label string) (FacetValue, bool) {
	for _, r := range f.Regions {
		if r.Matches(label) {
			return r, true
		}
	}
	return FacetValue{}, false
}

// regionPriority fixes the display order of the well-known regions. Each
// entry lists the Chinese and English labels.
var regionPriority = [][2]string{
	{"香港", "Hong Kong"},
	{"日本", "Japan"},
	{"亚洲其他", "Asia (Others)"},
	{"欧洲", "Europe"},
	{"北美洲", "North America"},
	{"大洋洲", "Oceania"},
	{"非洲", "Africa"},
	{"北极", "Arctic"},
	{"南极洲", "Antarctica"},
}

func regionRank(v FacetValue) int {
	for i, p := range regionPriority {
		if v.Matches(p[0]) || v.Matches(p[1]) {
			return i
		}
	}
	return -1
}

// ExtractFacets derives the selectable values of every facet from records.
// Location, artist and decade labels are resolved in lang; regions keep both
// labels and a fixed priority ordering.
func ExtractFacets(records []Record, lang Language) Facets {
	return Facets{
		Regions:   RegionFacets(records),
		Locations: labelFacets(records, FieldLocation, lang),
		Artists:   labelFacets(records, FieldArtist, lang),
		Decades:   decadeFacets(records),
	}
}

// ExtractFacetsIn derives the location, artist and decade options from the
// records inside region, the options offered once a region is chosen. Regions
// are still computed over all records. A zero region scopes nothing.
func ExtractFacetsIn(records []Record, region FacetValue, lang Language) Facets {
	scoped := records
	if !region.IsZero() {
		scoped = Apply(records, Filter{Region: region}, lang)
	}
	f := ExtractFacets(scoped, lang)
	f.Regions = RegionFacets(records)
	return f
}

// RegionFacets returns the distinct (region, regionEn) pairs with counts.
// Records without a region in either language do not contribute.
func RegionFacets(records []Record) []FacetValue {
	type key struct{ zh, en string }
	idx := make(map[key]int)
	var out []FacetValue
	for _, r := range records {
		if r.Region == "" && r.RegionEn == "" {
			continue
		}
		k := key{r.Region, r.RegionEn}
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, FacetValue{Primary: r.Region, Secondary: r.RegionEn, Count: 1})
	}
	sortRegions(out)
	return out
}

func sortRegions(regions []FacetValue) {
	col := collate.New(language.Chinese)
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		ai, bi := regionRank(a), regionRank(b)
		switch {
		case ai >= 0 && bi >= 0:
			return ai < bi
		case ai >= 0:
			return true
		case bi >= 0:
			return false
		}
		return col.CompareString(a.Label(Chinese), b.Label(Chinese)) < 0
	})
}

// labelFacets returns the distinct resolved labels of f, sorted.
func labelFacets(records []Record, f Field, lang Language) []FacetValue {
	idx := make(map[string]int)
	var out []FacetValue
	for _, r := range records {
		label := r.Field(f, lang)
		if label == "" {
			continue
		}
		if i, ok := idx[label]; ok {
			out[i].Count++
			continue
		}
		idx[label] = len(out)
		v := FacetValue{Count: 1}
		if lang == Chinese {
			v.Primary, v.Secondary = label, r.Field(f, English)
		} else {
			v.Primary, v.Secondary = r.Field(f, Chinese), label
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Label(lang) < out[j].Label(lang)
	})
	return out
}

func decadeFacets(records []Record) []FacetValue {
	counts := make(map[string]int)
	for _, r := range records {
		if d, ok := r.Decade(); ok {
			counts[d]++
		}
	}
	out := make([]FacetValue, 0, len(counts))
	for d, n := range counts {
		out = append(out, FacetValue{Primary: d, Secondary: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Primary < out[j].Primary })
	return out
}

// Labels returns the labels of values in lang, in order.
func Labels(values []FacetValue, lang Language) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Label(lang)
	}
	return out
}

// maxOptionFuzzyDistance caps MatchOptions' edit distance; higher values match
// nearly every short label.
const maxOptionFuzzyDistance = 2

// MatchOptions narrows an option list to the values whose label in lang
// contains query, case-insensitively. With maxDist > 0 a label within that
// Levenshtein distance of the query also matches, so "tin hua" still finds
// "Tin Hau". An empty query returns values unchanged.
func MatchOptions(values []FacetValue, query string, lang Language, maxDist int) []FacetValue {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return values
	}
	if maxDist > maxOptionFuzzyDistance {
		maxDist = maxOptionFuzzyDistance
	}
	var out []FacetValue
	for _, v := range values {
		label := strings.ToLower(v.Label(lang))
		if strings.Contains(label, query) {
			out = append(out, v)
			continue
		}
		if maxDist > 0 && levenshtein.ComputeDistance(query, label) <= maxDist {
			out = append(out, v)
		}
	}
	return out
}
