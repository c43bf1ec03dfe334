package lyricmap

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// PopupPreviewLength is the lyric preview length, in runes, shown in marker
// popups.
const PopupPreviewLength = 100

// Preview truncates text to at most n runes, appending "..." when anything
// was cut. It never splits a multi-byte character.
func Preview(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return strings.TrimRightFunc(text[:pos], isSpace) + "..."
		}
		i++
	}
	return text
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

// ListenURL returns the record's YouTube link, or a YouTube search for
// "song artist" when the dataset has none.
func ListenURL(r Record) string {
	if r.YoutubeURL != "" {
		return r.YoutubeURL
	}
	q := strings.TrimSpace(r.Field(FieldSong, Chinese) + " " + r.Field(FieldArtist, Chinese))
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q)
}

// SearchLink builds the explore deep link that pre-fills search with q.
func SearchLink(q string) string {
	return "#/explore?search=" + url.QueryEscape(q)
}

// Version is a record placed within its song group.
type Version struct {
	Record Record
	Number int // 1-based position among the song's locations
}

// SongGroup collects the records of one song by one artist. Songs tied to
// several places have more than one version.
type SongGroup struct {
	Song     string
	Artist   string
	Versions []Version
	Places   int // distinct marker positions
}

// MultiLocation reports whether the song appears at more than one record.
func (g SongGroup) MultiLocation() bool { return len(g.Versions) > 1 }

// GroupVersions groups records by (song, artist) in first-appearance order,
// numbering each song's versions in dataset order.
func GroupVersions(records []Record) []SongGroup {
	type key struct{ song, artist string }
	idx := make(map[key]int)
	places := make(map[key]map[string]struct{})
	var groups []SongGroup
	for _, r := range records {
		k := key{r.Song, r.Artist}
		if r.Song == "" && r.Artist == "" {
			k = key{r.SongEn, r.ArtistEn}
		}
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			places[k] = make(map[string]struct{})
			groups = append(groups, SongGroup{Song: k.song, Artist: k.artist})
		}
		g := &groups[i]
		g.Versions = append(g.Versions, Version{Record: r, Number: len(g.Versions) + 1})
		places[k][r.PlaceKey()] = struct{}{}
		g.Places = len(places[k])
	}
	return groups
}

// CountMultiLocation returns how many groups have several versions.
func CountMultiLocation(groups []SongGroup) int {
	n := 0
	for _, g := range groups {
		if g.MultiLocation() {
			n++
		}
	}
	return n
}

// Popup is the text shown in a marker popup.
type Popup struct {
	Title    string
	Artist   string
	Location string
	Year     string
	Preview  string
	Listen   string
	More     string // deep link searching the explore page for the title
}

// NewPopup resolves r's popup text in lang. Missing values are replaced by
// the localizer's placeholders; loc may be nil.
func NewPopup(r Record, lang Language, loc Localizer) Popup {
	msg := func(key MessageKey) string {
		if loc == nil {
			return ""
		}
		return loc.Message(lang, key)
	}
	p := Popup{
		Title:    r.Field(FieldSong, lang),
		Artist:   r.Field(FieldArtist, lang),
		Location: r.Field(FieldLocation, lang),
		Year:     r.Year,
		Preview:  Preview(r.Field(FieldLyrics, lang), PopupPreviewLength),
		Listen:   ListenURL(r),
	}
	if p.Title != "" {
		p.More = SearchLink(p.Title)
	} else {
		p.Title = msg(MsgUnknownSong)
	}
	if p.Artist == "" {
		p.Artist = msg(MsgUnknownArtist)
	}
	if p.Preview == "" {
		p.Preview = msg(MsgNoLyrics)
	}
	return p
}
