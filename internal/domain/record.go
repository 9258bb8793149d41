package domain

import "time"

// Record represents a single completion of a map by a player.
// Time is stored in integer milliseconds, matching the game store schema.
type Record struct {
	ID         int64     `json:"id"`
	PlayerID   int64     `json:"player_id"`
	MapID      int64     `json:"map_id"`
	Time       int64     `json:"time"`
	RecordDate time.Time `json:"record_date"`
}

// TimeSeconds returns the completion time in seconds
func (r Record) TimeSeconds() float64 {
	return float64(r.Time) / 1000.0
}
