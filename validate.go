package lyricmap

import (
	"fmt"
	"strings"
)

// Report summarises a dataset for maintainers.
type Report struct {
	Records      int
	Skipped      int
	Regions      int
	Locations    int
	Artists      int
	Decades      int
	Performers   int      // distinct names across comma-separated artist credits
	Unregioned   int      // records without a region in either language
	Undated      int      // records without a parseable year
	DuplicateIDs []string // ids carried by more than one record
	Untitled     []string // ids of records without a title in either language
}

// Inspect computes a Report for ds.
func Inspect(ds *Dataset) Report {
	f := ExtractFacets(ds.Records, Chinese)
	rep := Report{
		Records:   len(ds.Records),
		Skipped:   ds.Skipped,
		Regions:   len(f.Regions),
		Locations: len(f.Locations),
		Artists:   len(f.Artists),
		Decades:   len(f.Decades),
	}
	seen := make(map[string]int)
	performers := make(map[string]struct{})
	for _, r := range ds.Records {
		for _, name := range SplitNames(r.Field(FieldArtist, Chinese)) {
			performers[name] = struct{}{}
		}
		seen[r.ID]++
		if seen[r.ID] == 2 {
			rep.DuplicateIDs = append(rep.DuplicateIDs, r.ID)
		}
		if r.Region == "" && r.RegionEn == "" {
			rep.Unregioned++
		}
		if _, ok := r.Decade(); !ok {
			rep.Undated++
		}
		if r.Field(FieldSong, Chinese) == "" {
			rep.Untitled = append(rep.Untitled, r.ID)
		}
	}
	rep.Performers = len(performers)
	return rep
}

// Validate checks the invariants the browser relies on: at least minRecords
// records, every record with valid coordinates and a title. Duplicate ids
// are tolerated (last wins) and only reported by Inspect.
func Validate(ds *Dataset, minRecords int) error {
	if ds == nil {
		return fmt.Errorf("%w: no dataset", ErrDataUnavailable)
	}
	if len(ds.Records) < minRecords {
		return fmt.Errorf("record count too low: got %d, want >= %d", len(ds.Records), minRecords)
	}
	var bad []string
	for _, r := range ds.Records {
		if !r.Coordinates.Valid() {
			bad = append(bad, fmt.Sprintf("%s: coordinates %s", r.ID, r.Coordinates))
		}
		if r.Field(FieldSong, Chinese) == "" {
			bad = append(bad, fmt.Sprintf("%s: missing title", r.ID))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(bad, "; "))
	}
	return nil
}
