package lyricmap

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provenance tells consumers where a Dataset came from.
type Provenance int

const (
	// ProvenanceSource means the configured source was loaded successfully.
	ProvenanceSource Provenance = iota
	// ProvenanceSample means loading failed and the embedded sample is in use.
	ProvenanceSample
)

func (p Provenance) String() string {
	if p == ProvenanceSample {
		return "sample"
	}
	return "source"
}

// Dataset is the working set of valid records.
type Dataset struct {
	Records    []Record
	Provenance Provenance
	Source     string
	Skipped    int // rows dropped for missing or malformed coordinates
}

// Degraded reports whether the dataset is the built-in fallback.
func (d *Dataset) Degraded() bool {
	return d != nil && d.Provenance == ProvenanceSample
}

// Column names of the dataset header.
const (
	colID             = "id"
	colSong           = "song"
	colSongEn         = "song_en"
	colSinger         = "singer"
	colSingerEn       = "singer_en"
	colSongwriter     = "songwriter"
	colSongwriterEn   = "songwriter_en"
	colAlbum          = "album"
	colYear           = "year"
	colLocationName   = "location_name"
	colLocationNameEn = "location_name_en"
	colLocationX      = "location_x"
	colLocationY      = "location_y"
	colRegion         = "region"
	colRegionEn       = "region_en"
	colLyrics         = "lyrics"
	colLyricsEn       = "lyrics_en"
	colYoutubeURL     = "youtube_url"
)

// requiredColumns must appear in the header row.
var requiredColumns = []string{colSong, colSinger, colLocationX, colLocationY}

// Loader loads and caches the dataset. Safe for concurrent use; concurrent
// Load calls share a single in-flight fetch.
type Loader struct {
	config *Config
	group  singleflight.Group

	mu     sync.Mutex
	cached *Dataset
}

// NewLoader creates a Loader. Without WithSource/WithURL/WithFile it serves
// the embedded sample dataset.
func NewLoader(opts ...Option) *Loader {
	return &Loader{config: newConfig(opts)}
}

// Load returns the dataset, fetching and parsing it on first use. Successful
// results are cached for the life of the Loader; failures are not, so a later
// call retries. Failures wrap ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	l.mu.Lock()
	if l.cached != nil {
		ds := l.cached
		l.mu.Unlock()
		return ds, nil
	}
	l.mu.Unlock()

	ch := l.group.DoChan("load", func() (interface{}, error) {
		// The fetch is shared, so it must not die with the first caller's ctx.
		ds, err := l.fetch(context.WithoutCancel(ctx), l.config.Source, ProvenanceSource)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cached = ds
		l.mu.Unlock()
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

// LoadOrSample is Load with the degraded mode applied: on failure it logs the
// error and returns the embedded sample dataset, marked ProvenanceSample. The
// sample is not cached, so the next call tries the real source again.
func (l *Loader) LoadOrSample(ctx context.Context) *Dataset {
	ds, err := l.Load(ctx)
	if err == nil {
		return ds
	}
	l.config.Logger.Warn("dataset unavailable, using built-in sample",
		slog.String("source", l.config.Source.String()),
		slog.Any("error", err))

	sample, serr := l.fetch(context.Background(), SampleSource{}, ProvenanceSample)
	if serr != nil {
		// The embedded file is compiled in; failing to parse it is a build defect.
		panic(fmt.Sprintf("lyricmap: embedded sample dataset is unreadable: %v", serr))
	}
	return sample
}

// Reload drops the cached dataset so the next Load fetches again.
func (l *Loader) Reload() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}

func (l *Loader) fetch(ctx context.Context, src Source, prov Provenance) (*Dataset, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer rc.Close()

	records, skipped, err := ParseRecords(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrDataUnavailable, src, err)
	}
	if skipped > 0 {
		l.config.Logger.Warn("skipped rows without valid coordinates",
			slog.String("source", src.String()),
			slog.Int("skipped", skipped))
	}
	l.config.Logger.Info("dataset loaded",
		slog.String("source", src.String()),
		slog.String("provenance", prov.String()),
		slog.Int("records", len(records)))

	return &Dataset{
		Records:    records,
		Provenance: prov,
		Source:     src.String(),
		Skipped:    skipped,
	}, nil
}

// ParseRecords reads a header row followed by data rows. Quoted fields may
// contain commas and newlines. Rows without valid coordinates are dropped and
// counted in skipped.
func ParseRecords(r io.Reader) (records []Record, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("empty dataset: missing header row")
		}
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	cols := indexHeader(header)
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("header is missing column %q", name)
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading row: %w", err)
		}
		if blankRow(row) {
			continue
		}
		rec, err := recordFromRow(cols, row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// recordFromRow maps a row onto a Record, rejecting it with ErrInvalidRecord
// when either coordinate is missing or not a finite number.
func recordFromRow(cols map[string]int, row []string) (Record, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lng, err := parseCoordinate(get(colLocationX))
	if err != nil {
		return Record{}, fmt.Errorf("%w: location_x: %w", ErrInvalidRecord, err)
	}
	lat, err := parseCoordinate(get(colLocationY))
	if err != nil {
		return Record{}, fmt.Errorf("%w: location_y: %w", ErrInvalidRecord, err)
	}
	coords := Coordinates{Lng: lng, Lat: lat}
	if !coords.Valid() {
		return Record{}, fmt.Errorf("%w: coordinates %s out of range", ErrInvalidRecord, coords)
	}

	rec := Record{
		ID:             get(colID),
		Song:           get(colSong),
		SongEn:         get(colSongEn),
		Artist:         get(colSinger),
		ArtistEn:       get(colSingerEn),
		Songwriter:     get(colSongwriter),
		SongwriterEn:   get(colSongwriterEn),
		Album:          get(colAlbum),
		Year:           get(colYear),
		LocationName:   get(colLocationName),
		LocationNameEn: get(colLocationNameEn),
		Region:         get(colRegion),
		RegionEn:       get(colRegionEn),
		Lyrics:         get(colLyrics),
		LyricsEn:       get(colLyricsEn),
		YoutubeURL:     get(colYoutubeURL),
		Coordinates:    coords,
	}
	if rec.ID == "" {
		rec.ID = syntheticID(rec)
	}
	return rec, nil
}

func parseCoordinate(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
