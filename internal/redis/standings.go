package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/obstacle-ladder/internal/config"
	"github.com/obstacle-ladder/internal/domain"
	"github.com/redis/go-redis/v9"
)

// StandingsCache stores the latest computed ladder in Redis so the viewer
// API can serve it without touching the game store. One sorted set per
// report, plus hashes for display names and run metadata.
type StandingsCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewStandingsCache creates a new Redis standings cache
func NewStandingsCache(cfg *config.RedisConfig, logger *slog.Logger) (*StandingsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &StandingsCache{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *StandingsCache) Close() error {
	return c.client.Close()
}

const (
	playersKey = "ladder:players"
	mapsKey    = "ladder:maps"
	metaKey    = "ladder:meta"
)

// playerInfoKey returns the Redis key for a player's display info
func playerInfoKey(playerID int64) string {
	return fmt.Sprintf("ladder:player:%d:info", playerID)
}

// mapInfoKey returns the Redis key for a map's display info
func mapInfoKey(mapID int64) string {
	return fmt.Sprintf("ladder:map:%d:info", mapID)
}

// StoreLadder replaces the cached standings with the given run's results
func (c *StandingsCache) StoreLadder(ctx context.Context, ladder *domain.Ladder) error {
	pipe := c.client.Pipeline()

	pipe.Del(ctx, playersKey, mapsKey)

	for _, p := range ladder.Players {
		member := strconv.FormatInt(p.PlayerID, 10)
		pipe.ZAdd(ctx, playersKey, redis.Z{Score: p.Score, Member: member})
		pipe.HSet(ctx, playerInfoKey(p.PlayerID),
			"login", p.Login,
			"name", p.Name,
		)
	}
	for _, m := range ladder.Maps {
		member := strconv.FormatInt(m.MapID, 10)
		pipe.ZAdd(ctx, mapsKey, redis.Z{Score: m.Score, Member: member})
		pipe.HSet(ctx, mapInfoKey(m.MapID),
			"name", m.Name,
			"records_count", m.RecordsCount,
		)
	}

	pipe.HSet(ctx, metaKey,
		"run_id", ladder.RunID,
		"computed_at", ladder.ComputedAt.UTC().Format(time.RFC3339),
		"players", len(ladder.Players),
		"maps", len(ladder.Maps),
	)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing standings: %w", err)
	}

	c.logger.Debug("standings cached",
		"run_id", ladder.RunID,
		"players", len(ladder.Players),
		"maps", len(ladder.Maps),
	)
	return nil
}

// GetMeta returns metadata about the cached run
func (c *StandingsCache) GetMeta(ctx context.Context) (*domain.LadderMeta, error) {
	result, err := c.client.HGetAll(ctx, metaKey).Result()
	if err != nil {
		return nil, fmt.Errorf("getting standings meta: %w", err)
	}
	if len(result) == 0 {
		return nil, domain.ErrNoStandings
	}

	computedAt, _ := time.Parse(time.RFC3339, result["computed_at"])
	players, _ := strconv.ParseInt(result["players"], 10, 64)
	maps, _ := strconv.ParseInt(result["maps"], 10, 64)

	return &domain.LadderMeta{
		RunID:      result["run_id"],
		ComputedAt: computedAt,
		Players:    players,
		Maps:       maps,
	}, nil
}

// TopPlayers returns the top N cached player standings (descending score)
func (c *StandingsCache) TopPlayers(ctx context.Context, n int) ([]domain.LadderEntry, error) {
	entries, err := c.topEntries(ctx, playersKey, n)
	if err != nil {
		return nil, err
	}

	// Attach display names in one round trip
	pipe := c.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(entries))
	for i, e := range entries {
		cmds[i] = pipe.HGetAll(ctx, playerInfoKey(e.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("getting player info: %w", err)
	}
	for i, cmd := range cmds {
		info := cmd.Val()
		entries[i].Login = info["login"]
		entries[i].Name = info["name"]
	}
	return entries, nil
}

// TopMaps returns the top N cached map standings (descending score)
func (c *StandingsCache) TopMaps(ctx context.Context, n int) ([]domain.LadderEntry, error) {
	entries, err := c.topEntries(ctx, mapsKey, n)
	if err != nil {
		return nil, err
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(entries))
	for i, e := range entries {
		cmds[i] = pipe.HGetAll(ctx, mapInfoKey(e.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("getting map info: %w", err)
	}
	for i, cmd := range cmds {
		entries[i].Name = cmd.Val()["name"]
	}
	return entries, nil
}

// PlayerRank returns a player's cached rank and score
func (c *StandingsCache) PlayerRank(ctx context.Context, playerID int64) (*domain.LadderEntry, error) {
	member := strconv.FormatInt(playerID, 10)

	// Use pipeline to get both rank and score
	pipe := c.client.Pipeline()
	rankCmd := pipe.ZRevRank(ctx, playersKey, member)
	scoreCmd := pipe.ZScore(ctx, playersKey, member)
	_, err := pipe.Exec(ctx)

	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("getting player rank: %w", err)
	}

	rank, err := rankCmd.Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("getting rank result: %w", err)
	}

	score, err := scoreCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("getting score result: %w", err)
	}

	info, err := c.client.HGetAll(ctx, playerInfoKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting player info: %w", err)
	}

	return &domain.LadderEntry{
		Rank:  rank + 1, // Convert 0-indexed to 1-indexed
		ID:    playerID,
		Login: info["login"],
		Name:  info["name"],
		Score: score,
	}, nil
}

// topEntries reads the first n members of a standings sorted set
func (c *StandingsCache) topEntries(ctx context.Context, key string, n int) ([]domain.LadderEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting top entries: %w", err)
	}

	entries := make([]domain.LadderEntry, len(results))
	for i, result := range results {
		id, err := strconv.ParseInt(result.Member.(string), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing cached member %q: %w", result.Member, err)
		}
		entries[i] = domain.LadderEntry{
			Rank:  int64(i + 1),
			ID:    id,
			Score: result.Score,
		}
	}
	return entries, nil
}
