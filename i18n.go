package lyricmap

// MessageKey names a user-visible string. The strings themselves live with the
// Localizer implementation.
type MessageKey string

const (
	MsgResultsSummary MessageKey = "results.summary"        // args: count, region label
	MsgResultsDecade  MessageKey = "results.summary.decade" // args: count, region label, decade
	MsgNoResults      MessageKey = "results.none"
	MsgUnknownSong    MessageKey = "song.unknown"
	MsgUnknownArtist  MessageKey = "artist.unknown"
	MsgNoLyrics       MessageKey = "lyrics.none"
)

// Localizer resolves message keys for a language.
type Localizer interface {
	Message(lang Language, key MessageKey, args ...any) string
}

// summaryMessage picks the count line for rs.
func summaryMessage(loc Localizer, rs ResultSet) string {
	if loc == nil {
		return ""
	}
	if rs.NoResults {
		return loc.Message(rs.Language, MsgNoResults)
	}
	region := rs.Filter.Region.Label(rs.Language)
	if d := rs.Filter.FirstDecade(); d != "" {
		return loc.Message(rs.Language, MsgResultsDecade, rs.Count, region, d)
	}
	return loc.Message(rs.Language, MsgResultsSummary, rs.Count, region)
}
