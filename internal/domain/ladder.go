package domain

import "time"

// MapStat accumulates descriptive statistics and the score total for one map.
// All record times are in seconds. A map with zero records never gets a MapStat.
type MapStat struct {
	RecordsCount  int     `json:"records_count"`
	MinRecord     float64 `json:"min_record"`
	MaxRecord     float64 `json:"max_record"`
	AverageRecord float64 `json:"average_record"`
	MedianRecord  float64 `json:"median_record"`
	Score         float64 `json:"score"`
}

// PlayerStat accumulates a player's score total across all maps
type PlayerStat struct {
	Score float64 `json:"score"`
}

// PlayerStanding is one row of the player report
type PlayerStanding struct {
	PlayerID int64   `json:"player_id"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// MapStanding is one row of the map report.
// AverageScore is the mean per-record score contribution (Score / RecordsCount),
// distinct from AverageRecord which is the mean completion time.
type MapStanding struct {
	MapID         int64   `json:"map_id"`
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	AverageScore  float64 `json:"average_score"`
	MinRecord     float64 `json:"min_record"`
	MaxRecord     float64 `json:"max_record"`
	AverageRecord float64 `json:"average_record"`
	MedianRecord  float64 `json:"median_record"`
	RecordsCount  int     `json:"records_count"`
}

// Ladder is the completed result of one scoring run, standings sorted by
// descending score
type Ladder struct {
	RunID         string           `json:"run_id"`
	ComputedAt    time.Time        `json:"computed_at"`
	Duration      time.Duration    `json:"duration"`
	Players       []PlayerStanding `json:"players"`
	Maps          []MapStanding    `json:"maps"`
	MapsSkipped   int              `json:"maps_skipped"`
	RecordsScored int              `json:"records_scored"`
}

// LadderEntry is a cached standing served by the viewer API
type LadderEntry struct {
	Rank  int64   `json:"rank"`
	ID    int64   `json:"id"`
	Login string  `json:"login,omitempty"`
	Name  string  `json:"name,omitempty"`
	Score float64 `json:"score"`
}

// LadderMeta describes the run that produced the cached standings
type LadderMeta struct {
	RunID      string    `json:"run_id"`
	ComputedAt time.Time `json:"computed_at"`
	Players    int64     `json:"players"`
	Maps       int64     `json:"maps"`
}
