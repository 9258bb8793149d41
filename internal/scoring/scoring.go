// Package scoring implements the ladder scoring formula and the single-pass
// fold that turns a map's time-ordered records into per-map and per-player
// score totals.
package scoring

import (
	"math"

	"github.com/obstacle-ladder/internal/domain"
)

// RecordScore computes the score of a single record.
//
// r is the 1-based rank of the record in its map's ascending-time order,
// rn the number of records on the map, t the completion time in seconds and
// average the map's mean completion time. A record faster than average is
// clamped to the average, so finishing below the mean never adds to the
// deviation term.
//
//	score = (log10(1000*rn²) + log10((average-t)² + 1)) * log10(rn/r + 1)³
func RecordScore(r, rn int, t, average float64) float64 {
	if t < average {
		t = average
	}
	score := math.Log10(1000*float64(rn)*float64(rn)) + math.Log10((average-t)*(average-t)+1)
	return score * math.Pow(math.Log10(float64(rn)/float64(r)+1), 3)
}

// ComputeMapStats computes the descriptive statistics for a map's records.
// Records must be sorted ascending by time; the median is the time at index
// n/2, the lower of the two central values for even counts.
// Returns false if the map has no records.
func ComputeMapStats(records []domain.Record) (domain.MapStat, bool) {
	if len(records) == 0 {
		return domain.MapStat{}, false
	}

	stats := domain.MapStat{
		RecordsCount: len(records),
		MinRecord:    records[0].TimeSeconds(),
		MaxRecord:    records[0].TimeSeconds(),
	}
	for _, rec := range records {
		t := rec.TimeSeconds()
		stats.MinRecord = math.Min(stats.MinRecord, t)
		stats.MaxRecord = math.Max(stats.MaxRecord, t)
		stats.AverageRecord += t
	}
	stats.AverageRecord /= float64(stats.RecordsCount)
	stats.MedianRecord = records[len(records)/2].TimeSeconds()

	return stats, true
}
