// Package ladder orchestrates a full scoring run: fetch the snapshot, fold
// every map's records through the scoring engine and rank the results.
package ladder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/obstacle-ladder/internal/domain"
	"github.com/obstacle-ladder/internal/scoring"
)

// Store is the read-only query interface against the game store
type Store interface {
	FetchAllPlayers(ctx context.Context) (map[int64]domain.Player, error)
	FetchAllMaps(ctx context.Context) ([]domain.Map, error)
	FetchRecordsForMap(ctx context.Context, mapID int64) ([]domain.Record, error)
}

// Service computes ladder standings from the game store
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new ladder service
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Run executes one full scoring pass over the current snapshot and returns
// the ranked standings. Any query failure aborts the run; there are no
// retries and no partial results.
func (s *Service) Run(ctx context.Context) (*domain.Ladder, error) {
	runID := uuid.New().String()
	start := time.Now()
	log := s.logger.With("run_id", runID)

	players, err := s.store.FetchAllPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}

	maps, err := s.store.FetchAllMaps(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching maps: %w", err)
	}
	log.Info("snapshot loaded", "players", len(players), "maps", len(maps))

	acc := scoring.NewAccumulator()
	skipped := 0
	recordsScored := 0

	// One map at a time: fetch its time-ordered records, then fold them into
	// the per-map and per-player aggregates in a single pass.
	for _, m := range maps {
		records, err := s.store.FetchRecordsForMap(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching records: %w", err)
		}

		if stats := acc.FoldMap(m.ID, records); stats == nil {
			skipped++
		} else {
			recordsScored += stats.RecordsCount
		}
	}

	result := &domain.Ladder{
		RunID:         runID,
		ComputedAt:    start,
		MapsSkipped:   skipped,
		RecordsScored: recordsScored,
	}

	if err := s.rank(result, acc, players, maps); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	log.Info("ladder computed",
		"ranked_players", len(result.Players),
		"ranked_maps", len(result.Maps),
		"skipped_maps", skipped,
		"records", recordsScored,
		"duration", result.Duration,
	)
	return result, nil
}

// rank turns the finished accumulators into standings sorted by descending
// score. The sort is stable, so tied scores keep their accumulation order.
func (s *Service) rank(result *domain.Ladder, acc *scoring.Accumulator, players map[int64]domain.Player, maps []domain.Map) error {
	result.Players = make([]domain.PlayerStanding, 0, len(acc.PlayerIDs()))
	for _, id := range acc.PlayerIDs() {
		player, ok := players[id]
		if !ok {
			return fmt.Errorf("record references player %d: %w", id, domain.ErrPlayerNotFound)
		}
		result.Players = append(result.Players, domain.PlayerStanding{
			PlayerID: id,
			Login:    player.Login,
			Name:     player.Name,
			Score:    acc.PlayerStat(id).Score,
		})
	}

	names := make(map[int64]string, len(maps))
	for _, m := range maps {
		names[m.ID] = m.Name
	}

	result.Maps = make([]domain.MapStanding, 0, len(acc.MapIDs()))
	for _, id := range acc.MapIDs() {
		stats := acc.MapStat(id)
		result.Maps = append(result.Maps, domain.MapStanding{
			MapID:         id,
			Name:          names[id],
			Score:         stats.Score,
			AverageScore:  stats.Score / float64(stats.RecordsCount),
			MinRecord:     stats.MinRecord,
			MaxRecord:     stats.MaxRecord,
			AverageRecord: stats.AverageRecord,
			MedianRecord:  stats.MedianRecord,
			RecordsCount:  stats.RecordsCount,
		})
	}

	sort.SliceStable(result.Players, func(i, j int) bool {
		return result.Players[i].Score > result.Players[j].Score
	})
	sort.SliceStable(result.Maps, func(i, j int) bool {
		return result.Maps[i].Score > result.Maps[j].Score
	})
	return nil
}
