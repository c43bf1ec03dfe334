package lyricmap

import (
	"math"
	"reflect"
	"testing"
)

// TestDecade tests decade bucketing of year strings
func TestDecade(t *testing.T) {
	tests := []struct {
		name   string
		year   string
		want   string
		wantOK bool
	}{
		{name: "late eighties", year: "1987", want: "1980s", wantOK: true},
		{name: "early two thousands", year: "2003", want: "2000s", wantOK: true},
		{name: "round decade", year: "1990", want: "1990s", wantOK: true},
		{name: "surrounding spaces", year: " 1975 ", want: "1970s", wantOK: true},
		{name: "negative year floors", year: "-5", want: "-10s", wantOK: true},
		{name: "empty", year: "", wantOK: false},
		{name: "non-numeric", year: "unknown", wantOK: false},
		{name: "trailing text", year: "1987年", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decade(tt.year)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Decade(%q) = (%q, %v), want (%q, %v)", tt.year, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestFieldFallback verifies that a value present in only one language is
// returned for both.
func TestFieldFallback(t *testing.T) {
	zhOnly := Record{Song: "富士山下"}
	enOnly := Record{SongEn: "Under Mount Fuji"}
	both := Record{Song: "富士山下", SongEn: "Under Mount Fuji"}

	tests := []struct {
		name string
		rec  Record
		lang Language
		want string
	}{
		{"zh only read in en", zhOnly, English, "富士山下"},
		{"zh only read in zh", zhOnly, Chinese, "富士山下"},
		{"en only read in zh", enOnly, Chinese, "Under Mount Fuji"},
		{"en only read in en", enOnly, English, "Under Mount Fuji"},
		{"both read in zh", both, Chinese, "富士山下"},
		{"both read in en", both, English, "Under Mount Fuji"},
		{"neither", Record{}, English, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Field(FieldSong, tt.lang); got != tt.want {
				t.Errorf("Field(FieldSong, %s) = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestFieldCoversEveryBilingualAttribute(t *testing.T) {
	r := jpFuji
	checks := map[Field][2]string{
		FieldSong:       {"富士山下", "Under Mount Fuji"},
		FieldArtist:     {"陳奕迅", "Eason Chan"},
		FieldSongwriter: {"林夕", "林夕"},
		FieldLocation:   {"富士山", "Mount Fuji"},
		FieldRegion:     {"日本", "Japan"},
		FieldLyrics:     {"誰都只得那雙手 靠擁抱亦難任你擁有", "the moon over the mountain"},
	}
	for f, want := range checks {
		if got := r.Field(f, Chinese); got != want[0] {
			t.Errorf("Field(%d, zh) = %q, want %q", f, got, want[0])
		}
		if got := r.Field(f, English); got != want[1] {
			t.Errorf("Field(%d, en) = %q, want %q", f, got, want[1])
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"", English},
		{"en", English},
		{"en-GB", English},
		{"zh", Chinese},
		{"zh-Hant-HK", Chinese},
		{"zh-CN", Chinese},
		{"not a tag", English},
	}
	for _, tt := range tests {
		if got := ParseLanguage(tt.in); got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguageOther(t *testing.T) {
	if Chinese.Other() != English || English.Other() != Chinese {
		t.Errorf("Other() does not swap languages")
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Twins", []string{"Twins"}},
		{"陳奕迅, 容祖兒", []string{"陳奕迅", "容祖兒"}},
		{`"A, B,"`, []string{"A", "B"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := SplitNames(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitNames(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"hong kong", Coordinates{114.16, 22.33}, true},
		{"null island", Coordinates{0, 0}, true},
		{"NaN longitude", Coordinates{math.NaN(), 22}, false},
		{"infinite latitude", Coordinates{114, math.Inf(1)}, false},
		{"latitude out of range", Coordinates{22.33, 114.16}, false},
		{"longitude out of range", Coordinates{-181, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("%v.Valid() = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestPlaceKey(t *testing.T) {
	a := hkTinHau
	b := hkTinHau
	b.ID = "hk-1b"
	b.Coordinates.Lng += 0.00001

	if len(a.PlaceKey()) != placeKeyPrecision {
		t.Fatalf("PlaceKey() = %q, want %d characters", a.PlaceKey(), placeKeyPrecision)
	}
	if a.PlaceKey() != b.PlaceKey() {
		t.Errorf("records one metre apart got different keys %q and %q", a.PlaceKey(), b.PlaceKey())
	}
	if a.PlaceKey() == hkFindlay.PlaceKey() {
		t.Errorf("distinct places share key %q", a.PlaceKey())
	}
}

func TestSyntheticIDIsStable(t *testing.T) {
	r := hkFindlay
	r.ID = ""
	first := syntheticID(r)
	if first == "" || first != syntheticID(r) {
		t.Fatalf("syntheticID not stable: %q", first)
	}
	r.Coordinates.Lat += 1
	if syntheticID(r) == first {
		t.Errorf("moving the record did not change its id")
	}
}
