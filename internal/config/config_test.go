package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
postgres:
  host: db.internal
  user: ladder
  password: secret
  database: obstacle_records
redis:
  enabled: true
  addr: cache.internal:6379
kafka:
  enabled: true
  brokers: ["broker1:9092", "broker2:9092"]
ladder:
  players_report: /tmp/players.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "ladder", cfg.Postgres.User)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "/tmp/players.csv", cfg.Ladder.PlayersReport)

	// Unset fields get defaults
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "ladder-runs", cfg.Kafka.Topic)
	assert.Equal(t, "maps_ladder.csv", cfg.Ladder.MapsReport)
	assert.Equal(t, 3*time.Second, cfg.Redis.ReadTimeout)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("LADDER_DB_PASSWORD", "hunter2")
	path := writeConfig(t, `
postgres:
  password: ${LADDER_DB_PASSWORD}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Postgres.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "obstacle_records", cfg.Postgres.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "players_ladder.csv", cfg.Ladder.PlayersReport)
}

func TestConnectionString(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     5433,
		User:     "u",
		Password: "p",
		Database: "records",
	}
	assert.Equal(t, "postgres://u:p@db:5433/records?sslmode=disable", cfg.ConnectionString())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5433/records?sslmode=require", cfg.ConnectionString())
}
