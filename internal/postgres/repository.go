package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obstacle-ladder/internal/config"
	"github.com/obstacle-ladder/internal/domain"
)

// Repository provides read-only access to the game store.
// The players, maps and records tables are owned by the game services;
// this side never writes to them.
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// FetchAllPlayers retrieves every player, keyed by id
func (r *Repository) FetchAllPlayers(ctx context.Context) (map[int64]domain.Player, error) {
	query := `SELECT id, login, name FROM players`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	defer rows.Close()

	players := make(map[int64]domain.Player)
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Login, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	return players, nil
}

// FetchAllMaps retrieves every map, ordered by id so that runs over the same
// snapshot always process maps in the same order
func (r *Repository) FetchAllMaps(ctx context.Context) ([]domain.Map, error) {
	query := `SELECT id, name FROM maps ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching maps: %w", err)
	}
	defer rows.Close()

	var maps []domain.Map
	for rows.Next() {
		var m domain.Map
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning map: %w", err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching maps: %w", err)
	}
	return maps, nil
}

// FetchRecordsForMap retrieves all records for a map, ascending by completion
// time. The scoring engine uses sequence position as rank, so the ordering is
// part of the contract; record_date breaks ties between equal times.
func (r *Repository) FetchRecordsForMap(ctx context.Context, mapID int64) ([]domain.Record, error) {
	query := `
		SELECT id, player_id, map_id, time, record_date
		FROM records
		WHERE map_id = $1
		ORDER BY time ASC, record_date ASC
	`
	rows, err := r.pool.Query(ctx, query, mapID)
	if err != nil {
		return nil, fmt.Errorf("fetching records for map %d: %w", mapID, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.PlayerID, &rec.MapID, &rec.Time, &rec.RecordDate); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching records for map %d: %w", mapID, err)
	}
	return records, nil
}
