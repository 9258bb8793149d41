package scoring

import "github.com/obstacle-ladder/internal/domain"

// Accumulator folds scored records into two independent running aggregates:
// one MapStat per map and one PlayerStat per player, across all maps.
//
// Both aggregates keep an explicit insertion-order index next to the lookup
// map. Go's map iteration order is randomized, and the stable sort that ranks
// the standings later breaks score ties by insertion order; without the index,
// reruns over the same snapshot could emit tied rows in a different order.
type Accumulator struct {
	mapIDs   []int64
	maps     map[int64]*domain.MapStat
	playerID []int64
	players  map[int64]*domain.PlayerStat
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{
		maps:    make(map[int64]*domain.MapStat),
		players: make(map[int64]*domain.PlayerStat),
	}
}

// FoldMap scores every record of one map and accumulates the results.
// Records must be sorted ascending by completion time. A map with no records
// is skipped entirely: no MapStat is created and no player gains score.
// Returns the finalized MapStat, or nil for a skipped map.
func (a *Accumulator) FoldMap(mapID int64, records []domain.Record) *domain.MapStat {
	stats, ok := ComputeMapStats(records)
	if !ok {
		return nil
	}

	for i, rec := range records {
		score := RecordScore(i+1, stats.RecordsCount, rec.TimeSeconds(), stats.AverageRecord)

		stats.Score += score

		player, found := a.players[rec.PlayerID]
		if !found {
			player = &domain.PlayerStat{}
			a.players[rec.PlayerID] = player
			a.playerID = append(a.playerID, rec.PlayerID)
		}
		player.Score += score
	}

	a.maps[mapID] = &stats
	a.mapIDs = append(a.mapIDs, mapID)
	return &stats
}

// MapIDs returns the ids of all folded maps in fold order
func (a *Accumulator) MapIDs() []int64 {
	return a.mapIDs
}

// MapStat returns the finalized stat for a map, or nil if the map was skipped
func (a *Accumulator) MapStat(mapID int64) *domain.MapStat {
	return a.maps[mapID]
}

// PlayerIDs returns the ids of all scored players in first-encounter order
func (a *Accumulator) PlayerIDs() []int64 {
	return a.playerID
}

// PlayerStat returns the running stat for a player, or nil if the player has
// no scored records
func (a *Accumulator) PlayerStat(playerID int64) *domain.PlayerStat {
	return a.players[playerID]
}
