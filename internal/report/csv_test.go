package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obstacle-ladder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePlayerReport(t *testing.T) {
	var buf bytes.Buffer
	err := WritePlayerReport(&buf, []domain.PlayerStanding{
		{PlayerID: 100, Login: "speedy", Name: "Speedy", Score: 12.5},
		{PlayerID: 200, Login: "turtle", Name: "Turtle", Score: 3.0},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,login,name,score", lines[0])
	assert.Equal(t, "100,speedy,Speedy,12.5", lines[1])
	assert.Equal(t, "200,turtle,Turtle,3", lines[2])
}

func TestWritePlayerReportQuotesEmbeddedCommas(t *testing.T) {
	var buf bytes.Buffer
	err := WritePlayerReport(&buf, []domain.PlayerStanding{
		{PlayerID: 1, Login: "x", Name: "Last, First", Score: 1},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"Last, First"`)
}

func TestWriteMapReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMapReport(&buf, []domain.MapStanding{
		{
			MapID:         7,
			Name:          "Canyon Dash",
			Score:         20.0,
			AverageScore:  10.0,
			MinRecord:     10.0,
			MaxRecord:     20.0,
			AverageRecord: 15.0,
			MedianRecord:  20.0,
			RecordsCount:  2,
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"id,name,score,average_score,min_record,max_record,average_record,median_record,records_count",
		lines[0])
	assert.Equal(t, "7,Canyon Dash,20,10,10,20,15,20,2", lines[1])
}

func TestWriteReportsCreatesBothFiles(t *testing.T) {
	dir := t.TempDir()
	playersPath := filepath.Join(dir, "players.csv")
	mapsPath := filepath.Join(dir, "maps.csv")

	ladder := &domain.Ladder{
		Players: []domain.PlayerStanding{{PlayerID: 1, Login: "a", Name: "A", Score: 2}},
		Maps:    []domain.MapStanding{{MapID: 1, Name: "M", Score: 2, AverageScore: 2, RecordsCount: 1}},
	}
	require.NoError(t, WriteReports(ladder, playersPath, mapsPath))

	players, err := os.ReadFile(playersPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(players), "id,login,name,score\n"))

	maps, err := os.ReadFile(mapsPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(maps), "id,name,score,"))
}

func TestWriteReportsFailsOnBadPath(t *testing.T) {
	ladder := &domain.Ladder{}
	err := WriteReports(ladder, filepath.Join(t.TempDir(), "missing", "players.csv"), "maps.csv")
	assert.Error(t, err)
}
