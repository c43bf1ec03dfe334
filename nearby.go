package lyricmap

import (
	"math"
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// s2CellLevel sets the granularity of the spatial index. Level 13 cells are
// roughly 1.2km across, about one neighbourhood.
const s2CellLevel = 13

// earthRadiusMeters converts angles on the unit sphere to distances.
const earthRadiusMeters = 6371008.8

// maxNearbyRadius bounds Nearby queries; larger radii need thousands of
// level-13 cells per covering.
const maxNearbyRadius = 10_000.0

// SpatialIndex answers "which songs are near this point" for map clicks.
// Safe for concurrent use once built.
type SpatialIndex struct {
	records   []Record
	cellIndex map[s2.CellID][]int
}

// Hit is a record found by SpatialIndex.Nearby.
type Hit struct {
	Record   Record
	Distance float64 // meters
}

// NewSpatialIndex indexes records by S2 cell.
func NewSpatialIndex(records []Record) *SpatialIndex {
	idx := &SpatialIndex{
		records:   records,
		cellIndex: make(map[s2.CellID][]int),
	}
	for i, r := range records {
		cell := s2.CellIDFromLatLng(toLatLng(r.Coordinates)).Parent(s2CellLevel)
		idx.cellIndex[cell] = append(idx.cellIndex[cell], i)
	}
	return idx
}

// Len returns the number of indexed records.
func (idx *SpatialIndex) Len() int { return len(idx.records) }

// Nearby returns the records within radius meters of at, nearest first. Ties
// are ordered by record id. Invalid coordinates or a non-positive radius yield nil.
func (idx *SpatialIndex) Nearby(at Coordinates, radius float64) []Hit {
	if !at.Valid() || radius <= 0 || math.IsNaN(radius) {
		return nil
	}
	radius = min(radius, maxNearbyRadius)

	center := toLatLng(at)
	capRegion := s2.CapFromCenterAngle(s2.PointFromLatLng(center), s1.Angle(radius/earthRadiusMeters))
	coverer := &s2.RegionCoverer{MinLevel: s2CellLevel, MaxLevel: s2CellLevel, MaxCells: 64}

	seen := make(map[int]bool)
	var hits []Hit
	for _, cell := range coverer.Covering(capRegion) {
		for _, i := range idx.cellIndex[cell] {
			if seen[i] {
				continue
			}
			seen[i] = true
			r := idx.records[i]
			d := float64(center.Distance(toLatLng(r.Coordinates))) * earthRadiusMeters
			if d <= radius {
				hits = append(hits, Hit{Record: r, Distance: d})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Record.ID < hits[j].Record.ID
	})
	return hits
}
