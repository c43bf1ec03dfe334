package lyricmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Language selects which half of a bilingual field is preferred.
type Language string

const (
	// Chinese is the primary dataset language (song, Singer, location_name...).
	Chinese Language = "zh"
	// English is the secondary language (the *_en columns).
	English Language = "en"
)

// ParseLanguage maps any BCP 47 tag ("zh-Hant-HK", "en-GB", "yue") onto one of
// the two dataset languages. Chinese and Cantonese tags select Chinese;
// everything else, including malformed input, selects English.
func ParseLanguage(s string) Language {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return English
	}
	base, _ := tag.Base()
	switch base.String() {
	case "zh", "yue":
		return Chinese
	}
	return English
}

// Other returns the fallback language.
func (l Language) Other() Language {
	if l == Chinese {
		return English
	}
	return Chinese
}

func (l Language) String() string { return string(l) }

// Field names a bilingual attribute of a Record.
type Field int

const (
	FieldSong Field = iota
	FieldArtist
	FieldSongwriter
	FieldLocation
	FieldRegion
	FieldLyrics
)

// Coordinates is a [longitude, latitude] pair in degrees, the order map
// libraries expect.
type Coordinates struct {
	Lng float64
	Lat float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lng, c.Lat)
}

// Valid reports whether both components are finite and within range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lng) || math.IsNaN(c.Lat) || math.IsInf(c.Lng, 0) || math.IsInf(c.Lat, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Record is one song-location entry of the dataset.
type Record struct {
	ID             string
	Song           string
	SongEn         string
	Artist         string // comma-separated for several performers
	ArtistEn       string
	Songwriter     string
	SongwriterEn   string
	Album          string
	Year           string
	LocationName   string
	LocationNameEn string
	Region         string
	RegionEn       string
	Lyrics         string
	LyricsEn       string
	YoutubeURL     string
	Coordinates    Coordinates
}

// pair returns the primary and secondary values of f.
func (r Record) pair(f Field) (string, string) {
	switch f {
	case FieldSong:
		return r.Song, r.SongEn
	case FieldArtist:
		return r.Artist, r.ArtistEn
	case FieldSongwriter:
		return r.Songwriter, r.SongwriterEn
	case FieldLocation:
		return r.LocationName, r.LocationNameEn
	case FieldRegion:
		return r.Region, r.RegionEn
	case FieldLyrics:
		return r.Lyrics, r.LyricsEn
	}
	return "", ""
}

// Field resolves f in lang, falling back to the other language. An empty
// result means the record carries no value for f at all.
func (r Record) Field(f Field, lang Language) string {
	zh, en := r.pair(f)
	return resolve(zh, en, lang)
}

func resolve(zh, en string, lang Language) string {
	if lang == Chinese {
		if zh != "" {
			return zh
		}
		return en
	}
	if en != "" {
		return en
	}
	return zh
}

// Decade returns the record's decade bucket, e.g. "1980s".
func (r Record) Decade() (string, bool) {
	return Decade(r.Year)
}

// PlaceKey returns a geohash of the record's coordinates. Records sharing a
// key are rendered at the same spot.
func (r Record) PlaceKey() string {
	return geohash.EncodeWithPrecision(r.Coordinates.Lat, r.Coordinates.Lng, placeKeyPrecision)
}

// placeKeyPrecision of 8 characters is roughly a 38m x 19m cell.
const placeKeyPrecision = 8

// Decade buckets an integer-like year string as floor(year/10)*10 followed by
// "s". Empty or non-numeric input yields ok == false.
func Decade(year string) (string, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", false
	}
	d := y / 10
	if y < 0 && y%10 != 0 {
		d--
	}
	return strconv.Itoa(d*10) + "s", true
}

// SplitNames splits a comma-separated performer or songwriter list, dropping
// surrounding quotes and empty entries.
func SplitNames(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// recordNamespace scopes synthesized record ids.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("lyricmap:record"))

// syntheticID derives a stable id for rows that ship without one.
func syntheticID(r Record) string {
	key := strings.Join([]string{r.Song, r.SongEn, r.Artist, r.ArtistEn, r.Coordinates.String()}, "\x1f")
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}
